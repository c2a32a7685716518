package config

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config agrupa la configuración de una ejecución del motor de descubrimiento.
type Config struct {
	Target       string
	Profile      string
	OutFile      string
	Workers      int
	TimeoutS     int
	WordlistSize int
	Sources      []string
	Verbosity    int
	JSONLogs     bool
	Proxy        string
	ProxyCACert  string
}

type fileConfig struct {
	Target       *string     `json:"target" yaml:"target"`
	Profile      *string     `json:"profile" yaml:"profile"`
	OutFile      *string     `json:"out" yaml:"out"`
	Workers      *int        `json:"workers" yaml:"workers"`
	TimeoutS     *int        `json:"timeout" yaml:"timeout"`
	WordlistSize *int        `json:"wordlist_size" yaml:"wordlist_size"`
	Sources      *stringList `json:"sources" yaml:"sources"`
	Verbosity    *int        `json:"verbosity" yaml:"verbosity"`
	JSONLogs     *bool       `json:"json_logs" yaml:"json_logs"`
	Proxy        *string     `json:"proxy" yaml:"proxy"`
	ProxyCACert  *string     `json:"proxy_ca" yaml:"proxy_ca"`
}

type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var aux []string
		if err := json.Unmarshal(trimmed, &aux); err != nil {
			return err
		}
		*s = cleanStringSlice(aux)
		return nil
	case '"':
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*s = cleanStringSlice(strings.Split(single, ","))
		return nil
	default:
		return errors.New("sources debe ser un string o una lista")
	}
}

func (s *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		aux := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			aux = append(aux, node.Value)
		}
		*s = cleanStringSlice(aux)
		return nil
	case yaml.ScalarNode:
		*s = cleanStringSlice(strings.Split(value.Value, ","))
		return nil
	case yaml.MappingNode, yaml.DocumentNode:
		return errors.New("sources debe ser un string o una lista")
	default:
		*s = nil
		return nil
	}
}

// ParseFlags lee flags de CLI y, opcionalmente, un archivo de configuración
// YAML o JSON. Los flags explícitos siempre ganan sobre el archivo.
func ParseFlags() *Config {
	configPath := flag.String("config", "", "Ruta a un archivo de configuración (YAML o JSON)")
	target := flag.String("target", "", "Target del descubrimiento (ej: example.com)")
	profile := flag.String("profile", "default", "Perfil: quick, default, comprehensive, passive")
	out := flag.String("out", "", "Archivo de salida del informe JSON (default: stdout)")
	workers := flag.Int("workers", 0, "Workers de validación (0 = según perfil)")
	timeout := flag.Int("timeout", 0, "Timeout por fuente en segundos (0 = según perfil)")
	wordlist := flag.Int("wordlist-size", 0, "Tamaño de wordlist (0 = según perfil)")
	sources := flag.String("sources", "", "Fuentes a ejecutar, CSV (vacío = según perfil)")
	verbosity := flag.Int("v", 0, "Verbosity (0=info,2=debug,3=trace)")
	jsonLogs := flag.Bool("json-logs", false, "Logs en JSON estructurado")
	proxy := flag.String("proxy", "", "Proxy HTTP/HTTPS (ej: http://127.0.0.1:8080)")
	proxyCA := flag.String("proxy-ca", "", "Ruta a un certificado CA adicional para mitm proxies")

	flag.Parse()

	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	cfg := &Config{
		Target:       strings.TrimSpace(*target),
		Profile:      strings.ToLower(strings.TrimSpace(*profile)),
		OutFile:      strings.TrimSpace(*out),
		Workers:      *workers,
		TimeoutS:     *timeout,
		WordlistSize: *wordlist,
		Sources:      cleanStringSlice(strings.Split(*sources, ",")),
		Verbosity:    *verbosity,
		JSONLogs:     *jsonLogs,
		Proxy:        strings.TrimSpace(*proxy),
		ProxyCACert:  strings.TrimSpace(*proxyCA),
	}

	var fileCfg *fileConfig
	if *configPath != "" {
		info, err := os.Stat(*configPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Fatalf("el archivo de configuración %q no existe", *configPath)
			}
			log.Fatalf("no se pudo acceder al archivo de configuración %q: %v", *configPath, err)
		} else if info.IsDir() {
			log.Fatalf("la ruta de configuración %q apunta a un directorio", *configPath)
		} else {
			fc, err := loadConfigFile(*configPath)
			if err != nil {
				log.Fatalf("no se pudo leer la configuración desde %q: %v", *configPath, err)
			}
			fileCfg = fc
		}
	}

	if fileCfg != nil {
		mergeFileConfig(cfg, fileCfg, setFlags)
	}

	return cfg
}

func mergeFileConfig(cfg *Config, fileCfg *fileConfig, setFlags map[string]bool) {
	if fileCfg.Target != nil && !setFlags["target"] {
		cfg.Target = strings.TrimSpace(*fileCfg.Target)
	}
	if fileCfg.Profile != nil && !setFlags["profile"] {
		cfg.Profile = strings.ToLower(strings.TrimSpace(*fileCfg.Profile))
	}
	if fileCfg.OutFile != nil && !setFlags["out"] {
		cfg.OutFile = strings.TrimSpace(*fileCfg.OutFile)
	}
	if fileCfg.Workers != nil && !setFlags["workers"] {
		cfg.Workers = *fileCfg.Workers
	}
	if fileCfg.TimeoutS != nil && !setFlags["timeout"] {
		cfg.TimeoutS = *fileCfg.TimeoutS
	}
	if fileCfg.WordlistSize != nil && !setFlags["wordlist-size"] {
		cfg.WordlistSize = *fileCfg.WordlistSize
	}
	if fileCfg.Sources != nil && !setFlags["sources"] {
		cfg.Sources = cleanStringSlice([]string(*fileCfg.Sources))
	}
	if fileCfg.Verbosity != nil && !setFlags["v"] {
		cfg.Verbosity = *fileCfg.Verbosity
	}
	if fileCfg.JSONLogs != nil && !setFlags["json-logs"] {
		cfg.JSONLogs = *fileCfg.JSONLogs
	}
	if fileCfg.Proxy != nil && !setFlags["proxy"] {
		cfg.Proxy = strings.TrimSpace(*fileCfg.Proxy)
	}
	if fileCfg.ProxyCACert != nil && !setFlags["proxy-ca"] {
		cfg.ProxyCACert = strings.TrimSpace(*fileCfg.ProxyCACert)
	}
}

func loadConfigFile(path string) (*fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg fileConfig
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
	}

	return &cfg, nil
}

func cleanStringSlice(values []string) []string {
	list := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			list = append(list, v)
		}
	}
	return list
}

// ApplyProxy configures the standard HTTP proxy environment variables when a
// proxy URL is provided. The proxy string must include a scheme and host (for
// example, http://127.0.0.1:8080). The function updates both uppercase and
// lowercase variants so that external tools and Go's HTTP clients honor the
// configuration. It also performs basic validation of the proxy format and
// warns if the proxy appears unreachable.
func ApplyProxy(proxy string) error {
	proxy = strings.TrimSpace(proxy)
	if proxy == "" {
		return nil
	}

	parsed, err := url.Parse(proxy)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("proxy inválido: %q (debe incluir esquema y host, ej: http://127.0.0.1:8080)", proxy)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("proxy inválido: esquema %q no soportado (solo http/https)", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("proxy inválido: host vacío en %q", proxy)
	}

	// Intentar verificar conectividad básica (sin bloquear si falla)
	if err := validateProxyConnectivity(parsed); err != nil {
		log.Printf("advertencia: no se pudo verificar conectividad del proxy %s: %v", proxy, err)
		log.Printf("continuando de todos modos, pero las peticiones pueden fallar si el proxy no está disponible")
	}

	envVars := []string{"HTTP_PROXY", "http_proxy", "HTTPS_PROXY", "https_proxy", "ALL_PROXY", "all_proxy"}
	for _, key := range envVars {
		if err := os.Setenv(key, proxy); err != nil {
			return fmt.Errorf("no se pudo configurar %s: %w", key, err)
		}
	}
	return nil
}

// validateProxyConnectivity performs a basic connectivity check to the proxy.
// Returns an error if the proxy is unreachable, but this is non-fatal.
func validateProxyConnectivity(proxyURL *url.URL) error {
	// Timeout corto para no retrasar el inicio
	timeout := 3 * time.Second

	host := proxyURL.Host
	if proxyURL.Port() == "" {
		if proxyURL.Scheme == "https" {
			host = net.JoinHostPort(proxyURL.Hostname(), "443")
		} else {
			host = net.JoinHostPort(proxyURL.Hostname(), "80")
		}
	}

	conn, err := net.DialTimeout("tcp", host, timeout)
	if err != nil {
		return fmt.Errorf("no se pudo conectar al proxy en %s: %w", host, err)
	}
	conn.Close()
	return nil
}

var (
	customRootCAs   *x509.CertPool
	customRootCAsMu sync.RWMutex
)

// ConfigureRootCAs loads an additional certificate authority bundle from the
// provided path and wires it into the default HTTP transport. When successful,
// the certificates are also exposed through CustomRootCAs so that other
// components can reuse the pool when creating bespoke http.Client instances.
// Passing an empty path clears the cached pool and leaves the default
// transport untouched.
func ConfigureRootCAs(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		customRootCAsMu.Lock()
		customRootCAs = nil
		customRootCAsMu.Unlock()
		return nil
	}

	pool, err := loadRootCAs(path)
	if err != nil {
		return err
	}
	if err := applyRootCAsToDefaultTransport(pool); err != nil {
		return err
	}

	customRootCAsMu.Lock()
	customRootCAs = pool
	customRootCAsMu.Unlock()
	return nil
}

// CustomRootCAs returns the additional certificate authorities configured via
// ConfigureRootCAs, if any. Callers must treat the returned pool as read-only.
func CustomRootCAs() *x509.CertPool {
	customRootCAsMu.RLock()
	defer customRootCAsMu.RUnlock()
	return customRootCAs
}

func loadRootCAs(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer el certificado CA %q: %w", path, err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if pool == nil {
		pool = x509.NewCertPool()
	}
	if ok := pool.AppendCertsFromPEM(data); !ok {
		return nil, fmt.Errorf("no se pudieron parsear certificados en %q", path)
	}
	return pool, nil
}

func applyRootCAsToDefaultTransport(pool *x509.CertPool) error {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return errors.New("http.DefaultTransport no es *http.Transport")
	}

	clone := base.Clone()
	var tlsConfig *tls.Config
	if clone.TLSClientConfig != nil {
		tlsConfig = clone.TLSClientConfig.Clone()
	} else {
		tlsConfig = &tls.Config{}
	}
	tlsConfig.RootCAs = pool
	clone.TLSClientConfig = tlsConfig
	http.DefaultTransport = clone
	return nil
}
