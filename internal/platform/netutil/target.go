package netutil

import (
	"net"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"

	apperrors "asset-rec/internal/platform/errors"
)

// brandRegex acepta identificadores de marca/organización sin puntos:
// letras, dígitos y guiones, sin empezar ni terminar en guión.
var brandRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// ValidateTarget valida el sujeto del descubrimiento antes de cualquier
// fan-out. Acepta dominios registrables, IPs y nombres de marca simples.
// Devuelve la forma canónica o un InvalidTargetError.
func ValidateTarget(target string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(target))
	if trimmed == "" {
		return "", apperrors.NewInvalidTargetError(target, "vacío")
	}

	// IPs se aceptan tal cual.
	if ip := net.ParseIP(trimmed); ip != nil {
		return trimmed, nil
	}

	// Marca/organización: una sola etiqueta sin punto (para fuentes de
	// patrones cloud). Se valida la forma, no la resolución.
	if !strings.Contains(trimmed, ".") && !strings.Contains(trimmed, "://") {
		if brandRegex.MatchString(trimmed) {
			return trimmed, nil
		}
		return "", apperrors.NewInvalidTargetError(target, "etiqueta de marca con caracteres inválidos")
	}

	host, hadWildcard := CanonicalHost(trimmed)
	if host == "" {
		return "", apperrors.NewInvalidTargetError(target, "no se pudo extraer un host canónico")
	}
	if hadWildcard {
		return "", apperrors.NewInvalidTargetError(target, "los comodines no son un target válido")
	}

	// El dominio debe ser registrable: un sufijo público a secas
	// ("co.uk") no es un target.
	if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
		return "", apperrors.NewInvalidTargetError(target, "no es un dominio registrable")
	}

	return host, nil
}
