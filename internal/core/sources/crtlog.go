package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"asset-rec/internal/platform/logx"
)

const crtshBaseURL = "https://crt.sh/"

type crtshEntry struct {
	CommonName string `json:"common_name"`
	NameValue  string `json:"name_value"`
}

// CTLog consulta un log de transparencia de certificados (crt.sh) y extrae
// los nombres hoja de todos los certificados emitidos bajo el target.
type CTLog struct {
	// BaseURL permite apuntar a un mirror (y a httptest en tests).
	BaseURL string
	// Client es el cliente HTTP; nil usa http.DefaultClient (que ya respeta
	// proxy y CAs configurados en el arranque).
	Client *http.Client
}

// NewCTLog crea la fuente de transparencia de certificados.
func NewCTLog() *CTLog {
	return &CTLog{BaseURL: crtshBaseURL}
}

func (c *CTLog) Name() string    { return "ct-log" }
func (c *CTLog) Kind() Kind      { return KindLookup }
func (c *CTLog) Available() bool { return true }

// Discover busca SAN que contenga subdominios del dominio objetivo
// (%.example.com) y devuelve los nombres hoja, sin prefijo comodín y
// deduplicados dentro de la fuente.
func (c *CTLog) Discover(ctx context.Context, target string, _ Profile) ([]string, error) {
	if !strings.Contains(target, ".") {
		// Targets de marca no tienen entradas CT consultables por SAN.
		return nil, nil
	}

	logx.Debug("CT log query", logx.Fields{"target": target})

	base := c.BaseURL
	if base == "" {
		base = crtshBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("q", "%."+target)
	q.Set("output", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "asset-rec/1.0")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		logx.Error("CT log HTTP error", logx.Fields{"error": err.Error()})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logx.Error("CT log non-200", logx.Fields{"status_code": resp.StatusCode})
		return nil, fmt.Errorf("ct log: status %d", resp.StatusCode)
	}

	var entries []crtshEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		logx.Error("CT log JSON error", logx.Fields{"error": err.Error()})
		return nil, errors.New("ct log: respuesta JSON inválida")
	}

	seen := make(map[string]struct{})
	var names []string
	collect := func(raw string) {
		name := strings.ToLower(strings.TrimSpace(raw))
		// Los certificados wildcard aportan también el dominio desnudo.
		name = strings.TrimPrefix(name, "*.")
		if name == "" || strings.Contains(name, " ") {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, entry := range entries {
		collect(entry.CommonName)
		for _, line := range strings.Split(entry.NameValue, "\n") {
			collect(line)
		}
	}

	logx.Trace("CT log completado", logx.Fields{"target": target, "names": len(names)})
	return names, nil
}
