package sources

import (
	"context"
	"strings"
	"testing"
)

func TestWordlistSizing(t *testing.T) {
	t.Parallel()

	tests := map[Profile]int{
		ProfileQuick:         12,
		ProfileDefault:       64,
		ProfilePassive:       64,
		ProfileComprehensive: 256,
	}
	for profile, want := range tests {
		profile, want := profile, want
		t.Run(string(profile), func(t *testing.T) {
			t.Parallel()
			got, err := NewWordlist().Discover(context.Background(), "example.com", profile)
			if err != nil {
				t.Fatalf("Discover: %v", err)
			}
			if len(got) != want {
				t.Fatalf("profile %s generated %d candidates, want %d", profile, len(got), want)
			}
			for _, candidate := range got {
				if !strings.HasSuffix(candidate, ".example.com") {
					t.Fatalf("candidate %q does not target the domain", candidate)
				}
			}
		})
	}
}

func TestWordlistSizeOverride(t *testing.T) {
	t.Parallel()

	w := &Wordlist{Size: 5}
	got, err := w.Discover(context.Background(), "example.com", ProfileComprehensive)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("explicit size should win over the profile, got %d candidates", len(got))
	}
	if got[0] != "www.example.com" {
		t.Fatalf("prefixes should keep frequency order, got %q first", got[0])
	}
}

func TestWordlistComprehensivePermutations(t *testing.T) {
	t.Parallel()

	got, err := NewWordlist().Discover(context.Background(), "example.com", ProfileComprehensive)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	var permuted bool
	for _, candidate := range got {
		if strings.HasPrefix(candidate, "api-dev.") {
			permuted = true
			break
		}
	}
	if !permuted {
		t.Error("comprehensive runs should include suffix permutations like api-dev")
	}
}

func TestWordlistBrandTarget(t *testing.T) {
	t.Parallel()

	got, err := NewWordlist().Discover(context.Background(), "acme", ProfileDefault)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got != nil {
		t.Fatalf("brand targets have no base domain to expand, got %v", got)
	}
}

func TestWordlistContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := NewWordlist().Discover(ctx, "example.com", ProfileComprehensive)
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(got) >= 256 {
		t.Fatalf("cancelled run should stop early, got %d candidates", len(got))
	}
}
