package sources

import (
	"context"
	"strings"

	"asset-rec/internal/core/runner"
	apperrors "asset-rec/internal/platform/errors"
	"asset-rec/internal/platform/logx"
)

// argsFunc construye los argumentos del binario para un target y perfil.
type argsFunc func(target string, profile Profile) []string

// ToolSource envuelve un binario externo de enumeración. La disponibilidad se
// detecta al construir la fuente; un binario ausente deja la fuente marcada
// como no disponible en vez de fallar en la primera invocación.
type ToolSource struct {
	name      string
	bin       string
	available bool
	args      argsFunc

	// run permite inyectar la ejecución en tests.
	run func(ctx context.Context, name string, args []string) ([]string, error)
	// skipLine descarta líneas de ruido propias de cada herramienta.
	skipLine func(line string) bool
}

// NewToolSource detecta el primer binario disponible de binNames y construye
// la fuente. El nombre identifica la fuente en procedencia y métricas.
func NewToolSource(name string, binNames []string, args argsFunc) *ToolSource {
	bin, ok := runner.FindBin(binNames...)
	if !ok {
		logx.Debug("Binario no disponible", logx.Fields{"source": name, "candidates": strings.Join(binNames, ",")})
	}
	return &ToolSource{
		name:      name,
		bin:       bin,
		available: ok,
		args:      args,
		run:       runner.CollectLines,
	}
}

func (t *ToolSource) Name() string    { return t.name }
func (t *ToolSource) Kind() Kind      { return KindTool }
func (t *ToolSource) Available() bool { return t.available }

func (t *ToolSource) Discover(ctx context.Context, target string, profile Profile) ([]string, error) {
	if !t.available {
		return nil, apperrors.NewMissingBinaryError(t.name)
	}

	lines, err := t.run(ctx, t.bin, t.args(target, profile))

	var candidates []string
	for _, line := range lines {
		if t.skipLine != nil && t.skipLine(line) {
			continue
		}
		candidates = append(candidates, line)
	}

	// Resultados parciales se conservan aunque la herramienta fallara o
	// agotara su timeout.
	return candidates, err
}

// Subfinder crea la fuente subfinder de ProjectDiscovery.
func Subfinder() *ToolSource {
	return NewToolSource("subfinder", []string{"subfinder"}, func(target string, _ Profile) []string {
		return []string{"-d", target, "-silent"}
	})
}

// Assetfinder crea la fuente assetfinder.
func Assetfinder() *ToolSource {
	src := NewToolSource("assetfinder", []string{"assetfinder"}, func(target string, _ Profile) []string {
		return []string{"--subs-only", target}
	})
	src.skipLine = func(line string) bool {
		return strings.EqualFold(strings.TrimSpace(line), "no assets were discovered")
	}
	return src
}

// Amass crea la fuente amass en modo pasivo.
func Amass() *ToolSource {
	return NewToolSource("amass", []string{"amass"}, func(target string, profile Profile) []string {
		args := []string{"enum", "-passive", "-d", target}
		if profile == ProfileComprehensive {
			args = append(args, "-timeout", "3")
		}
		return args
	})
}
