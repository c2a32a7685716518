// Package analysis agrupa los resultados de validación y aplica las reglas
// de seguridad sobre los assets alcanzables.
package analysis

import (
	"sort"

	"asset-rec/internal/core/pipeline"
)

// Aggregation responde a "qué fuente encontró más cosas reales": atribución
// por fuente de candidatos crudos y de assets activos, no solo volumen.
type Aggregation struct {
	TotalAssets        int
	ActiveCount        int
	CandidatesBySource map[string]int
	ActiveBySource     map[string]int
	Active             []pipeline.Outcome
}

// Aggregate agrupa outcomes por alcanzabilidad y por fuente contribuyente.
// Un asset activo con varias fuentes en su procedencia cuenta para todas:
// cada una lo encontró de verdad.
func Aggregate(outcomes []pipeline.Outcome, candidatesBySource map[string]int) *Aggregation {
	agg := &Aggregation{
		TotalAssets:        len(outcomes),
		CandidatesBySource: make(map[string]int, len(candidatesBySource)),
		ActiveBySource:     make(map[string]int),
	}
	for source, count := range candidatesBySource {
		agg.CandidatesBySource[source] = count
	}

	for _, outcome := range outcomes {
		if !outcome.Reachable {
			continue
		}
		agg.ActiveCount++
		agg.Active = append(agg.Active, outcome)
		for _, source := range outcome.Asset.Sources {
			agg.ActiveBySource[source]++
		}
	}

	sort.Slice(agg.Active, func(i, j int) bool {
		return agg.Active[i].Asset.Value < agg.Active[j].Asset.Value
	})
	return agg
}
