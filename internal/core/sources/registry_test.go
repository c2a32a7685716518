package sources

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeSource is a minimal Source for registry tests.
type fakeSource struct {
	name      string
	kind      Kind
	available bool
	values    []string
}

func (f *fakeSource) Name() string    { return f.name }
func (f *fakeSource) Kind() Kind      { return f.kind }
func (f *fakeSource) Available() bool { return f.available }
func (f *fakeSource) Discover(ctx context.Context, target string, profile Profile) ([]string, error) {
	return f.values, nil
}

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(&fakeSource{name: "ct-log", kind: KindLookup, available: true})
	reg.Register(&fakeSource{name: "wordlist", kind: KindWordlist, available: true})
	reg.Register(&fakeSource{name: "cloud-pattern", kind: KindPattern, available: true})
	reg.Register(&fakeSource{name: "subfinder", kind: KindTool, available: true})
	reg.Register(&fakeSource{name: "amass", kind: KindTool, available: false})
	return reg
}

func selectedNames(selected []Source) []string {
	names := make([]string, 0, len(selected))
	for _, s := range selected {
		names = append(names, s.Name())
	}
	return names
}

func TestRegistryForProfile(t *testing.T) {
	t.Parallel()

	reg := testRegistry()

	tests := map[Profile][]string{
		ProfileQuick:         {"ct-log", "wordlist"},
		ProfileDefault:       {"ct-log", "wordlist", "cloud-pattern", "subfinder"},
		ProfilePassive:       {"ct-log", "wordlist", "cloud-pattern", "subfinder"},
		ProfileComprehensive: {"ct-log", "wordlist", "cloud-pattern", "subfinder"},
	}
	for profile, want := range tests {
		profile, want := profile, want
		t.Run(string(profile), func(t *testing.T) {
			t.Parallel()
			got := selectedNames(reg.ForProfile(profile))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("ForProfile(%s) mismatch (-want +got):\n%s", profile, diff)
			}
		})
	}
}

func TestRegistryUnavailable(t *testing.T) {
	t.Parallel()

	reg := testRegistry()
	got := reg.Unavailable()
	want := []string{"amass"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Unavailable mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryReplaceKeepsOrder(t *testing.T) {
	t.Parallel()

	reg := testRegistry()
	reg.Register(&fakeSource{name: "wordlist", kind: KindWordlist, available: true, values: []string{"x"}})

	want := []string{"ct-log", "wordlist", "cloud-pattern", "subfinder", "amass"}
	if diff := cmp.Diff(want, reg.Names()); diff != "" {
		t.Fatalf("Names after replace mismatch (-want +got):\n%s", diff)
	}

	src, ok := reg.Get("wordlist")
	if !ok {
		t.Fatal("wordlist should still be registered")
	}
	values, _ := src.Discover(context.Background(), "example.com", ProfileDefault)
	if len(values) != 1 || values[0] != "x" {
		t.Fatalf("Get should return the replacement, got %v", values)
	}
}

func TestProfileFromString(t *testing.T) {
	t.Parallel()

	tests := map[string]Profile{
		"quick":         ProfileQuick,
		"COMPREHENSIVE": ProfileComprehensive,
		" passive ":     ProfilePassive,
		"default":       ProfileDefault,
		"":              ProfileDefault,
		"turbo":         ProfileDefault,
	}
	for input, want := range tests {
		if got := ProfileFromString(input); got != want {
			t.Errorf("ProfileFromString(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestProfilePresets(t *testing.T) {
	t.Parallel()

	if ProfileQuick.WordlistSize() != 12 || ProfileDefault.WordlistSize() != 64 || ProfileComprehensive.WordlistSize() != 256 {
		t.Error("unexpected wordlist sizing across profiles")
	}
	if ProfilePassive.ActiveHTTP() {
		t.Error("passive profile must not allow HTTP probes")
	}
	if !ProfileDefault.ActiveHTTP() {
		t.Error("default profile should allow HTTP probes")
	}
	if ProfileComprehensive.Workers() <= ProfileQuick.Workers() {
		t.Error("comprehensive should use a larger validation pool than quick")
	}
}
