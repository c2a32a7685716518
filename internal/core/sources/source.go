// Package sources define la interfaz de fuente de candidatos y las fuentes
// concretas del motor de descubrimiento. Cada fuente es una estrategia
// independiente: puede fallar o agotar su timeout sin afectar al resto.
package sources

import (
	"context"
	"strings"
	"time"
)

// Kind clasifica una fuente por capacidad, no por tipo concreto. El registro
// selecciona por Kind; añadir una fuente nueva no toca al resto del pipeline.
type Kind string

const (
	// KindLookup: consulta barata a un servicio público (logs CT, APIs).
	KindLookup Kind = "lookup"
	// KindWordlist: generación sintáctica de nombres, sin I/O de red.
	KindWordlist Kind = "wordlist"
	// KindPattern: permutaciones de patrones de almacenamiento cloud.
	KindPattern Kind = "pattern"
	// KindTool: invocación de un binario externo previamente detectado.
	KindTool Kind = "tool"
)

// Source es una estrategia de enumeración: target → candidatos crudos.
type Source interface {
	// Name identifica la fuente en procedencia, métricas y sources_failed.
	Name() string
	// Kind declara la capacidad de la fuente para la selección por perfil.
	Kind() Kind
	// Available indica si la fuente puede ejecutarse (los binarios externos
	// se detectan al construir la fuente, no en la primera invocación).
	Available() bool
	// Discover enumera candidatos para el target. Puede devolver resultados
	// parciales junto a un error (timeout); nunca debe bloquear más allá
	// del deadline del contexto.
	Discover(ctx context.Context, target string, profile Profile) ([]string, error)
}

// Candidate es un resultado crudo de una fuente. Efímero: solo existe entre
// el fan-out y la normalización.
type Candidate struct {
	Value  string
	Source string
}

// Profile es un preset con nombre que controla amplitud y coste del
// descubrimiento. Se fija una vez por ejecución.
type Profile string

const (
	ProfileQuick         Profile = "quick"
	ProfileDefault       Profile = "default"
	ProfileComprehensive Profile = "comprehensive"
	ProfilePassive       Profile = "passive"
)

// ProfileFromString normaliza un perfil; los desconocidos caen a default.
func ProfileFromString(s string) Profile {
	switch Profile(strings.ToLower(strings.TrimSpace(s))) {
	case ProfileQuick:
		return ProfileQuick
	case ProfileComprehensive:
		return ProfileComprehensive
	case ProfilePassive:
		return ProfilePassive
	default:
		return ProfileDefault
	}
}

// SourceTimeout es el timeout por fuente del perfil.
func (p Profile) SourceTimeout() time.Duration {
	switch p {
	case ProfileQuick:
		return 15 * time.Second
	case ProfileComprehensive:
		return 180 * time.Second
	default:
		return 60 * time.Second
	}
}

// Workers es el tamaño del pool de validación del perfil.
func (p Profile) Workers() int {
	switch p {
	case ProfileQuick:
		return 10
	case ProfileComprehensive:
		return 50
	default:
		return 20
	}
}

// ActiveHTTP indica si la validación puede refinar con sondas HTTP. El perfil
// passive se limita a resolución DNS.
func (p Profile) ActiveHTTP() bool {
	return p != ProfilePassive
}

// WordlistSize es el tamaño de wordlist/patrones del perfil.
func (p Profile) WordlistSize() int {
	switch p {
	case ProfileQuick:
		return 12
	case ProfileComprehensive:
		return 256
	default:
		return 64
	}
}
