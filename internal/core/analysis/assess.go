package analysis

import (
	"net/http"
	"strings"

	"asset-rec/internal/core/pipeline"
	"asset-rec/internal/platform/logx"
)

// Severidades de un hallazgo.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Finding es una observación de seguridad sobre un asset alcanzable.
type Finding struct {
	Asset       string `json:"asset"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Rule        string `json:"rule"`
}

// Rule evalúa un outcome alcanzable. Devolver nil, nil significa "no aplica".
// Las reglas son independientes y aditivas.
type Rule struct {
	Name     string
	Evaluate func(outcome pipeline.Outcome) (*Finding, error)
}

// Assessor aplica una lista ordenada de reglas sobre los assets alcanzables.
// Un error en una regla se registra y no suprime el resto: misma filosofía de
// aislamiento que las fuentes.
type Assessor struct {
	rules []Rule
}

// NewAssessor crea un assessor con el conjunto de reglas por defecto.
func NewAssessor() *Assessor {
	return &Assessor{rules: defaultRules()}
}

// AddRule añade una regla al final de la lista. Extensión pura: no toca la
// evaluación existente.
func (a *Assessor) AddRule(rule Rule) {
	if rule.Name == "" || rule.Evaluate == nil {
		return
	}
	a.rules = append(a.rules, rule)
}

// Assess evalúa todas las reglas sobre los outcomes alcanzables.
func (a *Assessor) Assess(outcomes []pipeline.Outcome) []Finding {
	var findings []Finding
	for _, rule := range a.rules {
		for _, outcome := range outcomes {
			if !outcome.Reachable {
				continue
			}
			finding, err := rule.Evaluate(outcome)
			if err != nil {
				logx.Warn("Regla con error, continuando", logx.Fields{
					"rule":  rule.Name,
					"asset": outcome.Asset.Value,
					"error": err.Error(),
				})
				continue
			}
			if finding != nil {
				findings = append(findings, *finding)
			}
		}
	}
	return findings
}

// Etiquetas cuyo primer label delata superficie administrativa.
var adminLabels = map[string]struct{}{
	"admin":      {},
	"grafana":    {},
	"kibana":     {},
	"jenkins":    {},
	"phpmyadmin": {},
	"gitlab":     {},
	"jira":       {},
	"traefik":    {},
	"portainer":  {},
}

var devLabels = map[string]struct{}{
	"dev":     {},
	"staging": {},
	"test":    {},
	"beta":    {},
	"uat":     {},
}

func defaultRules() []Rule {
	return []Rule{
		{
			Name: "open-storage",
			Evaluate: func(o pipeline.Outcome) (*Finding, error) {
				if !pipeline.IsStorageHost(o.Asset.Value) {
					return nil, nil
				}
				if o.Classification != pipeline.ClassHTTPActive || o.HTTPStatus != http.StatusOK {
					return nil, nil
				}
				return &Finding{
					Asset:       o.Asset.Value,
					Severity:    SeverityHigh,
					Description: "bucket de almacenamiento responde 200 sin rechazar lectura anónima",
					Rule:        "open-storage",
				}, nil
			},
		},
		{
			Name: "exposed-storage-endpoint",
			Evaluate: func(o pipeline.Outcome) (*Finding, error) {
				if !pipeline.IsStorageHost(o.Asset.Value) {
					return nil, nil
				}
				if o.Classification != pipeline.ClassHTTPActive || o.HTTPStatus != http.StatusForbidden {
					return nil, nil
				}
				return &Finding{
					Asset:       o.Asset.Value,
					Severity:    SeverityMedium,
					Description: "bucket de almacenamiento existe (403: listado denegado, nombre confirmado)",
					Rule:        "exposed-storage-endpoint",
				}, nil
			},
		},
		{
			Name: "admin-surface",
			Evaluate: func(o pipeline.Outcome) (*Finding, error) {
				label := firstLabel(o.Asset.Value)
				if _, ok := adminLabels[label]; !ok {
					return nil, nil
				}
				return &Finding{
					Asset:       o.Asset.Value,
					Severity:    SeverityMedium,
					Description: "superficie administrativa expuesta (" + label + ")",
					Rule:        "admin-surface",
				}, nil
			},
		},
		{
			Name: "dev-exposure",
			Evaluate: func(o pipeline.Outcome) (*Finding, error) {
				label := firstLabel(o.Asset.Value)
				base, _, _ := strings.Cut(label, "-")
				if _, ok := devLabels[base]; !ok {
					return nil, nil
				}
				return &Finding{
					Asset:       o.Asset.Value,
					Severity:    SeverityLow,
					Description: "entorno de desarrollo/preproducción alcanzable (" + label + ")",
					Rule:        "dev-exposure",
				}, nil
			},
		},
	}
}

func firstLabel(host string) string {
	label, _, _ := strings.Cut(strings.ToLower(host), ".")
	return label
}
