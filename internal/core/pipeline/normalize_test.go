package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"asset-rec/internal/core/sources"
)

func TestNormalizeMergesProvenance(t *testing.T) {
	t.Parallel()

	candidates := []sources.Candidate{
		{Value: "www.example.com", Source: "wordlist"},
		{Value: "WWW.example.com", Source: "ct-log"},
		{Value: "https://www.example.com/login", Source: "ct-log"},
	}

	got := Normalize(candidates)

	want := []CanonicalAsset{
		{Value: "www.example.com", Sources: []string{"ct-log", "wordlist"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeWildcardExpansion(t *testing.T) {
	t.Parallel()

	// Un comodín aporta la forma desnuda del dominio con la misma
	// procedencia; el resto de nombres se conserva tal cual.
	candidates := []sources.Candidate{
		{Value: "api.example.com", Source: "ct-log"},
		{Value: "*.example.com", Source: "ct-log"},
		{Value: "www.example.com", Source: "ct-log"},
	}

	got := Normalize(candidates)

	want := []CanonicalAsset{
		{Value: "api.example.com", Sources: []string{"ct-log"}},
		{Value: "example.com", Sources: []string{"ct-log"}},
		{Value: "www.example.com", Sources: []string{"ct-log"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	candidates := []sources.Candidate{
		{Value: "b.example.com", Source: "wordlist"},
		{Value: "a.example.com", Source: "ct-log"},
		{Value: "*.example.com", Source: "ct-log"},
		{Value: "A.EXAMPLE.COM.", Source: "amass"},
	}

	first := Normalize(candidates)

	// Re-normalizar la salida debe ser un punto fijo.
	again := make([]sources.Candidate, 0, len(first))
	for _, asset := range first {
		for _, src := range asset.Sources {
			again = append(again, sources.Candidate{Value: asset.Value, Source: src})
		}
	}
	second := Normalize(again)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Normalize not idempotent (-first +second):\n%s", diff)
	}
}

func TestNormalizeDiscardsInvalid(t *testing.T) {
	t.Parallel()

	candidates := []sources.Candidate{
		{Value: "valid.example.com", Source: "wordlist"},
		{Value: "", Source: "wordlist"},
		{Value: "# comment line", Source: "amass"},
		{Value: "test.*.example.com", Source: "ct-log"},
		{Value: "singlelabel", Source: "amass"},
	}

	got := Normalize(candidates)

	want := []CanonicalAsset{
		{Value: "valid.example.com", Sources: []string{"wordlist"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("invalid entries should be dropped one by one (-want +got):\n%s", diff)
	}
}

func TestNormalizeNoDuplicates(t *testing.T) {
	t.Parallel()

	var candidates []sources.Candidate
	for i := 0; i < 3; i++ {
		candidates = append(candidates,
			sources.Candidate{Value: "api.example.com", Source: "wordlist"},
			sources.Candidate{Value: "API.example.com", Source: "ct-log"},
		)
	}

	got := Normalize(candidates)
	seen := make(map[string]bool)
	for _, asset := range got {
		if seen[asset.Value] {
			t.Fatalf("duplicate canonical value %q in output", asset.Value)
		}
		seen[asset.Value] = true
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 unique asset, got %d", len(got))
	}
}

func TestCountBySource(t *testing.T) {
	t.Parallel()

	candidates := []sources.Candidate{
		{Value: "a.example.com", Source: "ct-log"},
		{Value: "b.example.com", Source: "ct-log"},
		{Value: "a.example.com", Source: "wordlist"},
	}

	got := CountBySource(candidates)
	want := map[string]int{"ct-log": 2, "wordlist": 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("CountBySource mismatch (-want +got):\n%s", diff)
	}
}
