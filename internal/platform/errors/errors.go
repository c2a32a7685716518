// Package errors proporciona tipos de error con contexto y sugerencias para
// facilitar el debugging. Cada categoría de fallo del motor de descubrimiento
// tiene su tipo propio: así los fallos se tratan como datos, no como
// excepciones genéricas.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorWithSuggestion es un error que incluye una sugerencia para el usuario.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
	Context    map[string]string
}

func (e *ErrorWithSuggestion) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Suggestion != "" {
		b.WriteString("\n\n💡 Sugerencia: ")
		b.WriteString(e.Suggestion)
	}
	if len(e.Context) > 0 {
		b.WriteString("\n\nContexto:")
		for k, v := range e.Context {
			fmt.Fprintf(&b, "\n  • %s: %s", k, v)
		}
	}
	return b.String()
}

func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// WithSuggestion envuelve un error con una sugerencia para el usuario.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
		Context:    make(map[string]string),
	}
}

// WithContext añade contexto adicional a un error.
func WithContext(err error, key, value string) error {
	if err == nil {
		return nil
	}

	var suggErr *ErrorWithSuggestion
	if errors.As(err, &suggErr) {
		if suggErr.Context == nil {
			suggErr.Context = make(map[string]string)
		}
		suggErr.Context[key] = value
		return suggErr
	}

	return &ErrorWithSuggestion{
		Err:     err,
		Context: map[string]string{key: value},
	}
}

// MissingBinaryError indica que el binario de una fuente no está disponible.
// No es un fallo de ejecución: la fuente queda marcada como "unavailable".
type MissingBinaryError struct {
	Binary      string
	SearchPaths []string
}

func (e *MissingBinaryError) Error() string {
	return fmt.Sprintf("'%s' no encontrado en PATH", e.Binary)
}

// NewMissingBinaryError crea un error mejorado para binarios faltantes.
func NewMissingBinaryError(binary string, searchPaths ...string) error {
	baseErr := &MissingBinaryError{
		Binary:      binary,
		SearchPaths: searchPaths,
	}

	suggestion := fmt.Sprintf("Instala la herramienta o verifica que esté en tu PATH: which %s", binary)

	err := WithSuggestion(baseErr, suggestion)
	err = WithContext(err, "binary", binary)

	if len(searchPaths) > 0 {
		err = WithContext(err, "searched_paths", strings.Join(searchPaths, ", "))
	}

	return err
}

// SourceTimeoutError indica que una fuente agotó su timeout. Los resultados
// parciales emitidos antes del timeout se conservan.
type SourceTimeoutError struct {
	Source   string
	Duration int
}

func (e *SourceTimeoutError) Error() string {
	return fmt.Sprintf("fuente %s: timeout después de %ds", e.Source, e.Duration)
}

// NewSourceTimeoutError crea un error mejorado para timeouts de fuente.
func NewSourceTimeoutError(source string, duration int) error {
	baseErr := &SourceTimeoutError{
		Source:   source,
		Duration: duration,
	}

	suggestion := fmt.Sprintf("Intenta aumentar el timeout con: --timeout=%d\n"+
		"O ejecuta solo esta fuente con: --sources=%s",
		duration+60, source)

	err := WithSuggestion(baseErr, suggestion)
	err = WithContext(err, "source", source)
	err = WithContext(err, "timeout_seconds", fmt.Sprintf("%d", duration))

	return err
}

// SourceFailureError indica un fallo interno de una fuente (red, parseo,
// exit code). Se aísla: el resto de fuentes continúa.
type SourceFailureError struct {
	Source string
	Reason string
	Err    error
}

func (e *SourceFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fuente %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("fuente %s: %s", e.Source, e.Reason)
}

func (e *SourceFailureError) Unwrap() error {
	return e.Err
}

// NewSourceFailureError crea un error mejorado para fallos de fuente.
func NewSourceFailureError(source, reason string, cause error) error {
	baseErr := &SourceFailureError{
		Source: source,
		Reason: reason,
		Err:    cause,
	}

	suggestion := "El resto de fuentes continúa; revisa sources_failed en el informe"

	err := WithSuggestion(baseErr, suggestion)
	err = WithContext(err, "source", source)

	return err
}

// ProbeError indica un fallo de validación de un asset concreto. Se registra
// como reachable=false, nunca aborta el batch.
type ProbeError struct {
	Asset string
	Stage string // "resolve" | "http"
	Err   error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s (%s): %v", e.Asset, e.Stage, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// NewProbeError crea un error para fallos de sondeo por asset.
func NewProbeError(asset, stage string, cause error) error {
	return &ProbeError{Asset: asset, Stage: stage, Err: cause}
}

// InvalidTargetError indica que el target no supera la validación de entrada.
// Es el único fallo que se propaga al caller antes del fan-out.
type InvalidTargetError struct {
	Target string
	Reason string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("target inválido %q: %s", e.Target, e.Reason)
}

// NewInvalidTargetError crea un error mejorado para targets inválidos.
func NewInvalidTargetError(target, reason string) error {
	baseErr := &InvalidTargetError{
		Target: target,
		Reason: reason,
	}

	suggestion := "Usa un dominio registrable (ej: example.com), una IP o un nombre de marca"

	err := WithSuggestion(baseErr, suggestion)
	err = WithContext(err, "target", target)

	return err
}

// ConfigurationError representa un error de configuración.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuración inválida para '%s': %s", e.Field, e.Reason)
}

// NewConfigurationError crea un error mejorado para problemas de configuración.
func NewConfigurationError(field, value, reason, suggestion string) error {
	baseErr := &ConfigurationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}

	err := WithSuggestion(baseErr, suggestion)
	err = WithContext(err, "field", field)
	if value != "" {
		err = WithContext(err, "value", value)
	}

	return err
}

// GetSuggestion extrae la sugerencia de un error si existe.
func GetSuggestion(err error) string {
	var suggErr *ErrorWithSuggestion
	if errors.As(err, &suggErr) {
		return suggErr.Suggestion
	}
	return ""
}

// GetContext extrae el contexto de un error si existe.
func GetContext(err error) map[string]string {
	var suggErr *ErrorWithSuggestion
	if errors.As(err, &suggErr) {
		return suggErr.Context
	}
	return nil
}

// IsMissingBinary verifica si un error es por un binario faltante.
func IsMissingBinary(err error) bool {
	var missingErr *MissingBinaryError
	return errors.As(err, &missingErr)
}

// IsSourceTimeout verifica si un error es por timeout de fuente.
func IsSourceTimeout(err error) bool {
	var timeoutErr *SourceTimeoutError
	return errors.As(err, &timeoutErr)
}

// IsSourceFailure verifica si un error es un fallo interno de fuente.
func IsSourceFailure(err error) bool {
	var failErr *SourceFailureError
	return errors.As(err, &failErr)
}

// IsProbe verifica si un error es un fallo de sondeo por asset.
func IsProbe(err error) bool {
	var probeErr *ProbeError
	return errors.As(err, &probeErr)
}

// IsInvalidTarget verifica si un error es por target inválido.
func IsInvalidTarget(err error) bool {
	var targetErr *InvalidTargetError
	return errors.As(err, &targetErr)
}
