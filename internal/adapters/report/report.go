// Package report construye el informe terminal de una ejecución de
// descubrimiento y lo serializa a JSON. El motor es el único que lo muta
// durante la ejecución; una vez devuelto es inmutable.
package report

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"asset-rec/internal/core/analysis"
	"asset-rec/internal/core/pipeline"
)

// AssetEntry es la vista serializable de un asset validado.
type AssetEntry struct {
	Value          string   `json:"value"`
	Sources        []string `json:"sources"`
	Reachable      bool     `json:"reachable"`
	Classification string   `json:"classification"`
	Addresses      []string `json:"addresses,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Summary es el resumen ejecutivo del informe.
type Summary struct {
	RiskLevel   string `json:"risk_level"`
	ActiveCount int    `json:"active_count"`
	TotalUnique int    `json:"total_unique"`
}

// DiscoveryReport es el agregado terminal de una ejecución.
type DiscoveryReport struct {
	RunID              string             `json:"run_id"`
	Target             string             `json:"target"`
	Profile            string             `json:"profile"`
	Timestamp          string             `json:"timestamp"`
	DurationMS         int64              `json:"duration_ms"`
	SourcesRun         []string           `json:"sources_run"`
	SourcesFailed      map[string]string  `json:"sources_failed,omitempty"`
	CandidatesTotal    int                `json:"candidates_total"`
	CandidatesBySource map[string]int     `json:"candidates_by_source,omitempty"`
	ActiveBySource     map[string]int     `json:"active_by_source,omitempty"`
	Assets             []AssetEntry       `json:"assets"`
	Findings           []analysis.Finding `json:"findings"`
	Summary            Summary            `json:"summary"`
	Partial            bool               `json:"partial,omitempty"`
}

// BuildInput agrupa todo lo que el motor acumuló durante la ejecución.
type BuildInput struct {
	Target        string
	Profile       string
	Started       time.Time
	Outcomes      []pipeline.Outcome
	Aggregation   *analysis.Aggregation
	Findings      []analysis.Finding
	SourcesRun    []string
	SourcesFailed map[string]string
	Partial       bool
}

// Build construye el informe final. Los outcomes ya llegan ordenados por
// valor canónico desde la normalización; se serializan tal cual.
func Build(in BuildInput) *DiscoveryReport {
	rep := &DiscoveryReport{
		RunID:         uuid.NewString(),
		Target:        in.Target,
		Profile:       in.Profile,
		Timestamp:     in.Started.UTC().Format(time.RFC3339),
		DurationMS:    time.Since(in.Started).Milliseconds(),
		SourcesRun:    in.SourcesRun,
		SourcesFailed: in.SourcesFailed,
		Assets:        make([]AssetEntry, 0, len(in.Outcomes)),
		Findings:      in.Findings,
		Partial:       in.Partial,
	}
	if rep.Findings == nil {
		rep.Findings = []analysis.Finding{}
	}

	for _, outcome := range in.Outcomes {
		rep.Assets = append(rep.Assets, AssetEntry{
			Value:          outcome.Asset.Value,
			Sources:        outcome.Asset.Sources,
			Reachable:      outcome.Reachable,
			Classification: outcome.Classification,
			Addresses:      outcome.Addresses,
			Error:          outcome.Err,
		})
	}

	activeCount := 0
	if in.Aggregation != nil {
		activeCount = in.Aggregation.ActiveCount
		rep.ActiveBySource = in.Aggregation.ActiveBySource
		rep.CandidatesBySource = in.Aggregation.CandidatesBySource
		for _, count := range in.Aggregation.CandidatesBySource {
			rep.CandidatesTotal += count
		}
	}

	rep.Summary = Summary{
		RiskLevel:   RiskLevel(rep.Findings),
		ActiveCount: activeCount,
		TotalUnique: len(in.Outcomes),
	}
	return rep
}

// RiskLevel deriva el nivel de riesgo del informe: high si hay algún hallazgo
// high, medium si hay cualquier hallazgo, low en otro caso. Función pura de
// la lista de findings, sin estado oculto.
func RiskLevel(findings []analysis.Finding) string {
	level := "low"
	for _, finding := range findings {
		if finding.Severity == analysis.SeverityHigh {
			return "high"
		}
		level = "medium"
	}
	return level
}

// WriteJSON serializa el informe con indentación al writer dado.
func (r *DiscoveryReport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Save escribe el informe en un archivo.
func (r *DiscoveryReport) Save(path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return r.WriteJSON(file)
}
