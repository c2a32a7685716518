// Package pipeline contiene las fases puras y concurrentes entre el fan-out
// de fuentes y la agregación: normalización/dedupe y validación acotada.
package pipeline

import (
	"sort"

	"asset-rec/internal/core/sources"
	"asset-rec/internal/platform/netutil"
)

// CanonicalAsset es la forma deduplicada y normalizada de uno o más
// candidatos con el mismo valor canónico. Sources acumula la procedencia como
// conjunto; nunca se sobreescribe.
type CanonicalAsset struct {
	Value   string
	Sources []string
}

// Normalize canonicaliza candidatos crudos y los fusiona por valor canónico.
// Reglas, en orden: case-fold, strip de esquema/credenciales/puerto/path,
// strip de comodín inicial (conservando la forma desnuda con la misma
// procedencia), descarte de entradas inválidas. Determinista y sin I/O; la
// fusión es por hash para escalar a decenas de miles de candidatos.
func Normalize(candidates []sources.Candidate) []CanonicalAsset {
	provenance := make(map[string]map[string]struct{}, len(candidates))

	add := func(value, source string) {
		set, ok := provenance[value]
		if !ok {
			set = make(map[string]struct{})
			provenance[value] = set
		}
		if source != "" {
			set[source] = struct{}{}
		}
	}

	for _, candidate := range candidates {
		host, _ := netutil.CanonicalHost(candidate.Value)
		if host == "" {
			// Entradas rotas se descartan una a una, nunca abortan el lote.
			continue
		}
		add(host, candidate.Source)
	}

	assets := make([]CanonicalAsset, 0, len(provenance))
	for value, set := range provenance {
		srcs := make([]string, 0, len(set))
		for src := range set {
			srcs = append(srcs, src)
		}
		sort.Strings(srcs)
		assets = append(assets, CanonicalAsset{Value: value, Sources: srcs})
	}

	// Orden estable para que dos ejecuciones con el mismo input sean
	// comparables byte a byte.
	sort.Slice(assets, func(i, j int) bool { return assets[i].Value < assets[j].Value })
	return assets
}

// CountBySource cuenta cuántos candidatos crudos aportó cada fuente, antes
// del dedupe. El informe final atribuye por fuente tanto candidatos como
// assets activos.
func CountBySource(candidates []sources.Candidate) map[string]int {
	counts := make(map[string]int)
	for _, candidate := range candidates {
		counts[candidate.Source]++
	}
	return counts
}
