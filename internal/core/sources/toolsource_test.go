package sources

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "asset-rec/internal/platform/errors"
)

func TestToolSourceUnavailable(t *testing.T) {
	t.Parallel()

	src := NewToolSource("ghost-tool", []string{"definitely-not-a-real-binary-xyz"}, func(target string, _ Profile) []string {
		return []string{target}
	})

	if src.Available() {
		t.Fatal("source with missing binary should report unavailable")
	}

	_, err := src.Discover(context.Background(), "example.com", ProfileDefault)
	if !apperrors.IsMissingBinary(err) {
		t.Fatalf("expected missing binary error, got %v", err)
	}
}

func TestToolSourceDiscover(t *testing.T) {
	t.Parallel()

	var gotArgs []string
	src := &ToolSource{
		name:      "subfinder",
		bin:       "subfinder",
		available: true,
		args: func(target string, _ Profile) []string {
			return []string{"-d", target, "-silent"}
		},
		run: func(ctx context.Context, name string, args []string) ([]string, error) {
			gotArgs = args
			return []string{"a.example.com", "b.example.com"}, nil
		},
	}

	got, err := src.Discover(context.Background(), "example.com", ProfileDefault)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if diff := cmp.Diff([]string{"-d", "example.com", "-silent"}, gotArgs); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a.example.com", "b.example.com"}, got); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestToolSourcePartialOnError(t *testing.T) {
	t.Parallel()

	src := &ToolSource{
		name:      "amass",
		bin:       "amass",
		available: true,
		args:      func(target string, _ Profile) []string { return []string{target} },
		run: func(ctx context.Context, name string, args []string) ([]string, error) {
			return []string{"partial.example.com"}, context.DeadlineExceeded
		},
	}

	got, err := src.Discover(context.Background(), "example.com", ProfileDefault)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if len(got) != 1 || got[0] != "partial.example.com" {
		t.Fatalf("partial output must survive the error, got %v", got)
	}
}

func TestToolSourceSkipLine(t *testing.T) {
	t.Parallel()

	src := &ToolSource{
		name:      "assetfinder",
		bin:       "assetfinder",
		available: true,
		args:      func(target string, _ Profile) []string { return []string{"--subs-only", target} },
		run: func(ctx context.Context, name string, args []string) ([]string, error) {
			return []string{"No assets were discovered", "real.example.com"}, nil
		},
		skipLine: Assetfinder().skipLine,
	}

	got, err := src.Discover(context.Background(), "example.com", ProfileDefault)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if diff := cmp.Diff([]string{"real.example.com"}, got); diff != "" {
		t.Fatalf("noise line should be dropped (-want +got):\n%s", diff)
	}
}

func TestAmassComprehensiveArgs(t *testing.T) {
	t.Parallel()

	src := Amass()
	args := src.args("example.com", ProfileComprehensive)

	want := []string{"enum", "-passive", "-d", "example.com", "-timeout", "3"}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Fatalf("amass args mismatch (-want +got):\n%s", diff)
	}
}
