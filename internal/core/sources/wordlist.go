package sources

import (
	"context"
	"strings"
)

// Prefijos comunes ordenados por frecuencia observada; el perfil decide
// cuántos se usan.
var commonPrefixes = []string{
	"www", "api", "mail", "dev", "staging", "test", "admin", "vpn",
	"portal", "app", "beta", "docs",
	"webmail", "smtp", "imap", "pop", "ftp", "cdn", "static", "assets",
	"img", "images", "media", "blog", "shop", "store", "support", "help",
	"status", "monitor", "grafana", "kibana", "jenkins", "git", "gitlab",
	"jira", "confluence", "wiki", "intranet", "internal", "corp", "ldap",
	"sso", "auth", "login", "id", "accounts", "secure", "proxy", "gateway",
	"ns1", "ns2", "mx", "mx1", "mx2", "db", "database", "mysql", "postgres",
	"redis", "cache", "queue", "mq", "backup",
}

// Sufijos que se combinan con prefijos en modo comprehensive: api-dev,
// mail-staging, etc.
var prefixSuffixes = []string{"-dev", "-staging", "-test", "-prod", "-old", "-new", "-backup"}

// Wordlist genera candidatos sintácticos prefijo.target. No realiza I/O de
// red: la existencia real se decide en validación.
type Wordlist struct {
	// Size fuerza un tamaño concreto; 0 usa el del perfil.
	Size int
}

// NewWordlist crea la fuente de wordlist con el tamaño del perfil.
func NewWordlist() *Wordlist {
	return &Wordlist{}
}

func (w *Wordlist) Name() string    { return "wordlist" }
func (w *Wordlist) Kind() Kind      { return KindWordlist }
func (w *Wordlist) Available() bool { return true }

func (w *Wordlist) Discover(ctx context.Context, target string, profile Profile) ([]string, error) {
	if !strings.Contains(target, ".") {
		// Sin dominio base no hay nombres que componer.
		return nil, nil
	}

	size := w.Size
	if size <= 0 {
		size = profile.WordlistSize()
	}

	prefixes := commonPrefixes
	if size < len(prefixes) {
		prefixes = prefixes[:size]
	}

	candidates := make([]string, 0, size)
	for _, prefix := range prefixes {
		if err := ctx.Err(); err != nil {
			return candidates, err
		}
		candidates = append(candidates, prefix+"."+target)
	}

	// Permutaciones con sufijo solo cuando el presupuesto lo permite.
	if size > len(commonPrefixes) {
		remaining := size - len(commonPrefixes)
	outer:
		for _, suffix := range prefixSuffixes {
			for _, prefix := range commonPrefixes {
				if remaining <= 0 {
					break outer
				}
				if err := ctx.Err(); err != nil {
					return candidates, err
				}
				candidates = append(candidates, prefix+suffix+"."+target)
				remaining--
			}
		}
	}

	return candidates, nil
}
