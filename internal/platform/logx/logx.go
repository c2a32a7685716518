package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Level representa el nivel de logging.
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// Fields representa pares clave-valor para structured logging.
type Fields map[string]any

// Config gestiona la configuración global del logger.
type Config struct {
	mu        sync.RWMutex
	logger    zerolog.Logger
	level     Level
	outputCfg OutputConfig
}

var cfg = &Config{
	logger: zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
		NoColor:    false,
	}).With().Timestamp().Logger(),
	level:     LevelInfo,
	outputCfg: DetectOutput(os.Stderr),
}

// Sampling para rutas de alto volumen: la fase de validación puede emitir
// decenas de miles de líneas debug, una de cada N es suficiente.
var sampleRates = map[string]int{
	"probe": 25,
}

var sampleState = struct {
	sync.Mutex
	counters map[string]int64
}{counters: make(map[string]int64)}

// SetVerbosity configura el nivel: 0=info, 1=info, 2=debug, 3=trace.
func SetVerbosity(v int) {
	switch {
	case v <= 1:
		SetLevel(LevelInfo)
	case v == 2:
		SetLevel(LevelDebug)
	default:
		SetLevel(LevelTrace)
	}
}

// SetLevel cambia el nivel mínimo de logging.
func SetLevel(l Level) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	cfg.level = l

	var zlevel zerolog.Level
	switch l {
	case LevelError:
		zlevel = zerolog.ErrorLevel
	case LevelWarn:
		zlevel = zerolog.WarnLevel
	case LevelInfo:
		zlevel = zerolog.InfoLevel
	case LevelDebug:
		zlevel = zerolog.DebugLevel
	case LevelTrace:
		zlevel = zerolog.TraceLevel
	default:
		zlevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(zlevel)
}

// ParseLevel convierte string a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "err":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return 0, fmt.Errorf("logx: nivel desconocido %q", s)
	}
}

// SetOutput redirige la salida del logger.
func SetOutput(w io.Writer) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}

	cfg.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    false,
	}).With().Timestamp().Logger()
}

// SetJSON habilita output JSON estructurado (para pipelines que consumen logs).
func SetJSON(enabled bool) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	if enabled {
		cfg.logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		cfg.logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
			NoColor:    false,
		}).With().Timestamp().Logger()
	}
}

// EnableColors activa/desactiva colores ANSI.
func EnableColors(enabled bool) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	cfg.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
		NoColor:    !enabled,
	}).With().Timestamp().Logger()
	cfg.outputCfg.NoColor = !enabled
}

// Atajos de nivel.
func Errorf(format string, a ...interface{}) {
	cfg.mu.RLock()
	logger := cfg.logger
	cfg.mu.RUnlock()
	logger.Error().Msgf(format, a...)
}

func Warnf(format string, a ...interface{}) {
	cfg.mu.RLock()
	logger := cfg.logger
	cfg.mu.RUnlock()
	logger.Warn().Msgf(format, a...)
}

func Infof(format string, a ...interface{}) {
	cfg.mu.RLock()
	logger := cfg.logger
	cfg.mu.RUnlock()
	logger.Info().Msgf(format, a...)
}

func Debugf(format string, a ...interface{}) {
	cfg.mu.RLock()
	logger := cfg.logger
	cfg.mu.RUnlock()
	logger.Debug().Msgf(format, a...)
}

func Tracef(format string, a ...interface{}) {
	cfg.mu.RLock()
	logger := cfg.logger
	cfg.mu.RUnlock()
	logger.Trace().Msgf(format, a...)
}

// Funciones con fields estructurados.
func Error(msg string, fields Fields) {
	logFields(zerolog.ErrorLevel, LevelError, msg, fields)
}

func Warn(msg string, fields Fields) {
	logFields(zerolog.WarnLevel, LevelWarn, msg, fields)
}

func Info(msg string, fields Fields) {
	logFields(zerolog.InfoLevel, LevelInfo, msg, fields)
}

func Debug(msg string, fields Fields) {
	logFields(zerolog.DebugLevel, LevelDebug, msg, fields)
}

func Trace(msg string, fields Fields) {
	logFields(zerolog.TraceLevel, LevelTrace, msg, fields)
}

func logFields(zlvl zerolog.Level, lvl Level, msg string, fields Fields) {
	if shouldSampleFields(lvl, fields) {
		return
	}
	cfg.mu.RLock()
	logger := cfg.logger
	cfg.mu.RUnlock()

	event := logger.WithLevel(zlvl)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// shouldSampleFields implementa sampling para reducir noise en logs debug.
func shouldSampleFields(lvl Level, fields Fields) bool {
	if lvl < LevelDebug || len(fields) == 0 {
		return false
	}
	srcRaw, ok := fields["source"]
	if !ok {
		return false
	}
	src, ok := srcRaw.(string)
	if !ok {
		return false
	}
	src = strings.ToLower(strings.TrimSpace(src))
	if src == "" {
		return false
	}
	rate, ok := sampleRates[src]
	if !ok || rate <= 1 {
		return false
	}
	sampleState.Lock()
	defer sampleState.Unlock()
	count := sampleState.counters[src] + 1
	sampleState.counters[src] = count
	return count%int64(rate) != 1
}

// GetLevel retorna el nivel actual de logging.
func GetLevel() Level {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return cfg.level
}
