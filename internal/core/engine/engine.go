// Package engine orquesta una ejecución completa de descubrimiento:
// selección de fuentes por perfil, fan-out concurrente, normalización,
// validación acotada, agregación y evaluación de seguridad. El motor no
// retiene estado entre ejecuciones.
package engine

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"asset-rec/internal/adapters/report"
	"asset-rec/internal/core/analysis"
	"asset-rec/internal/core/pipeline"
	"asset-rec/internal/core/sources"
	"asset-rec/internal/platform/config"
	apperrors "asset-rec/internal/platform/errors"
	"asset-rec/internal/platform/logx"
	"asset-rec/internal/platform/netutil"
)

const defaultProbeTimeout = 5 * time.Second

// validator abstrae el pool de validación para poder sustituirlo en tests.
type validator interface {
	Validate(ctx context.Context, assets []pipeline.CanonicalAsset, activeHTTP bool) []pipeline.Outcome
}

var newValidationPool = func(workers int, timeout time.Duration) validator {
	return pipeline.NewPool(workers, timeout)
}

// Engine ejecuta el pipeline de descubrimiento. Construir uno es barato;
// todo el estado de una ejecución es local a Run.
type Engine struct {
	cfg      *config.Config
	registry *sources.Registry
	assessor *analysis.Assessor
}

// New crea un motor con la configuración y el registro de fuentes dados.
func New(cfg *config.Config, registry *sources.Registry) *Engine {
	// Overrides de configuración por fuente.
	if cfg.WordlistSize > 0 {
		if src, ok := registry.Get("wordlist"); ok {
			if wl, ok := src.(*sources.Wordlist); ok {
				wl.Size = cfg.WordlistSize
			}
		}
	}
	return &Engine{
		cfg:      cfg,
		registry: registry,
		assessor: analysis.NewAssessor(),
	}
}

// DefaultRegistry registra el conjunto estándar de fuentes. La detección de
// binarios externos ocurre aquí, en la construcción, no en la invocación.
func DefaultRegistry() *sources.Registry {
	reg := sources.NewRegistry()
	reg.Register(sources.NewCTLog())
	reg.Register(sources.NewWordlist())
	reg.Register(sources.NewCloudPattern())
	reg.Register(sources.Subfinder())
	reg.Register(sources.Assetfinder())
	reg.Register(sources.Amass())
	return reg
}

// Run ejecuta el descubrimiento completo. Solo un target inválido se propaga
// como error; cualquier fallo de fuente o de sonda queda registrado como
// datos dentro del informe. Con cancelación del contexto se devuelve lo
// agregado hasta el momento, marcado como parcial.
func (e *Engine) Run(ctx context.Context) (*report.DiscoveryReport, error) {
	target, err := netutil.ValidateTarget(e.cfg.Target)
	if err != nil {
		return nil, err
	}

	profile := sources.ProfileFromString(e.cfg.Profile)
	started := time.Now()

	selected, failed := e.selectSources(profile)

	names := make([]string, 0, len(selected))
	for _, src := range selected {
		names = append(names, src.Name())
	}
	logx.Info("Descubrimiento iniciado", logx.Fields{
		"target":  target,
		"profile": string(profile),
		"sources": strings.Join(names, ","),
	})

	candidates, partial := e.fanOut(ctx, target, profile, selected, failed)

	counts := pipeline.CountBySource(candidates)
	assets := pipeline.Normalize(candidates)
	logx.Info("Normalización completada", logx.Fields{
		"candidates": len(candidates),
		"unique":     len(assets),
	})

	pool := newValidationPool(e.workers(profile), defaultProbeTimeout)
	outcomes := pool.Validate(ctx, assets, profile.ActiveHTTP())
	if ctx.Err() != nil {
		partial = true
	}
	// El pool no garantiza orden; el informe sí.
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Asset.Value < outcomes[j].Asset.Value
	})

	agg := analysis.Aggregate(outcomes, counts)
	findings := e.assessor.Assess(agg.Active)

	logx.Info("Descubrimiento terminado", logx.Fields{
		"active":   agg.ActiveCount,
		"findings": len(findings),
		"elapsed":  logx.FormatDuration(time.Since(started)),
	})

	return report.Build(report.BuildInput{
		Target:        target,
		Profile:       string(profile),
		Started:       started,
		Outcomes:      outcomes,
		Aggregation:   agg,
		Findings:      findings,
		SourcesRun:    names,
		SourcesFailed: failed,
		Partial:       partial,
	}), nil
}

// selectSources resuelve el conjunto de fuentes a invocar: la selección del
// perfil, recortada por --sources si el usuario fijó una lista. Las fuentes
// registradas pero no disponibles se reportan como "unavailable" — flag de
// capacidad, no error.
func (e *Engine) selectSources(profile sources.Profile) ([]sources.Source, map[string]string) {
	failed := make(map[string]string)
	for _, name := range e.registry.Unavailable() {
		failed[name] = "unavailable"
	}

	selected := e.registry.ForProfile(profile)
	if len(e.cfg.Sources) == 0 {
		return selected, failed
	}

	wanted := make(map[string]bool, len(e.cfg.Sources))
	for _, raw := range e.cfg.Sources {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		wanted[name] = true
		if _, ok := e.registry.Get(name); !ok {
			failed[name] = "unknown source"
		}
	}

	var filtered []sources.Source
	for _, src := range selected {
		if wanted[src.Name()] {
			filtered = append(filtered, src)
		}
	}
	return filtered, failed
}

// fanOut ejecuta todas las fuentes seleccionadas concurrentemente, una tarea
// por fuente, cada una con su propio timeout. Los candidatos se canalizan a
// un colector único: la colección acumulada es la única estructura mutable
// compartida de la fase.
func (e *Engine) fanOut(ctx context.Context, target string, profile sources.Profile, selected []sources.Source, failed map[string]string) ([]sources.Candidate, bool) {
	candCh := make(chan sources.Candidate, 512)

	var collected []sources.Candidate
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for candidate := range candCh {
			collected = append(collected, candidate)
		}
	}()

	timeout := e.sourceTimeout(profile)

	var mu sync.Mutex
	recordFailure := func(name, reason string) {
		mu.Lock()
		failed[name] = reason
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range selected {
		src := src
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()

			start := time.Now()
			values, err := src.Discover(sctx, target, profile)

			// Los resultados parciales previos al error se conservan.
			for _, value := range values {
				select {
				case candCh <- sources.Candidate{Value: value, Source: src.Name()}:
				case <-gctx.Done():
					return nil
				}
			}

			elapsed := time.Since(start)
			switch {
			case err == nil:
				logx.Debug("Fuente completada", logx.Fields{
					"source":     src.Name(),
					"candidates": len(values),
					"elapsed":    logx.FormatDuration(elapsed),
				})
			case apperrors.IsMissingBinary(err):
				recordFailure(src.Name(), "unavailable")
			case errors.Is(err, context.DeadlineExceeded) && gctx.Err() == nil:
				timeoutErr := apperrors.NewSourceTimeoutError(src.Name(), int(timeout.Seconds()))
				recordFailure(src.Name(), "timeout")
				logx.Warn("Fuente con timeout, parciales conservados", logx.Fields{
					"source":     src.Name(),
					"candidates": len(values),
					"error":      timeoutErr.Error(),
				})
			case gctx.Err() != nil:
				// Cancelación global: no es fallo de la fuente.
			default:
				failure := apperrors.NewSourceFailureError(src.Name(), "discover", err)
				recordFailure(src.Name(), err.Error())
				logx.Warn("Fuente con error, continuando", logx.Fields{
					"source": src.Name(),
					"error":  failure.Error(),
				})
			}
			// Nunca propagamos el error: una fuente inestable no puede
			// tumbar el descubrimiento entero.
			return nil
		})
	}

	_ = g.Wait()
	close(candCh)
	<-collectorDone

	return collected, ctx.Err() != nil
}

func (e *Engine) sourceTimeout(profile sources.Profile) time.Duration {
	if e.cfg.TimeoutS > 0 {
		return time.Duration(e.cfg.TimeoutS) * time.Second
	}
	return profile.SourceTimeout()
}

func (e *Engine) workers(profile sources.Profile) int {
	if e.cfg.Workers > 0 {
		return e.cfg.Workers
	}
	return profile.Workers()
}
