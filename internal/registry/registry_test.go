package registry

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vtlint/internal/finding"
	"vtlint/internal/plugin"
)

type contentPlugin string

func (p contentPlugin) Name() string { return string(p) }
func (p contentPlugin) Description() string { return "" }
func (p contentPlugin) CheckContent(*plugin.FileContext) []finding.Finding { return nil }

type corpusPlugin string

func (p corpusPlugin) Name() string { return string(p) }
func (p corpusPlugin) Description() string { return "" }
func (p corpusPlugin) NewCorpusCheck(*plugin.FilesContext) plugin.Check {
	return nil
}

func testCatalogue() Catalogue {
	return Catalogue{
		Name:    "test",
		PreRun:  []plugin.Plugin{corpusPlugin("pre_a"), corpusPlugin("pre_b")},
		PerFile: []plugin.Plugin{contentPlugin("a"), contentPlugin("b"), contentPlugin("c")},
	}
}

func TestSelectExactSets(t *testing.T) {
	all := testCatalogue().Names()
	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"everything", Selection{}, all},
		{"exclude", Selection{Exclude: []string{"b", "pre_a"}}, []string{"pre_b", "a", "c"}},
		{"include keeps catalogue order", Selection{Include: []string{"c", "pre_b", "a"}}, []string{"pre_b", "a", "c"}},
		{"include single", Selection{Include: []string{"b"}}, []string{"b"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			active, err := Select(testCatalogue(), tc.sel)
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if diff := cmp.Diff(tc.want, active.Names()); diff != "" {
				t.Fatalf("active set mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectErrors(t *testing.T) {
	tests := []struct {
		name string
		cat  Catalogue
		sel  Selection
		want error
	}{
		{"both lists", testCatalogue(), Selection{Include: []string{"a"}, Exclude: []string{"b"}}, ErrConflictingSelection},
		{"unknown include", testCatalogue(), Selection{Include: []string{"nope"}}, ErrUnknownPlugin},
		{"unknown exclude", testCatalogue(), Selection{Exclude: []string{"nope"}}, ErrUnknownPlugin},
		{"exclude all", testCatalogue(), Selection{Exclude: testCatalogue().Names()}, ErrNoPlugins},
		{"empty catalogue", Catalogue{Name: "empty"}, Selection{}, ErrNoPlugins},
		{
			"duplicate names",
			Catalogue{Name: "dup", PerFile: []plugin.Plugin{contentPlugin("a"), contentPlugin("a")}},
			Selection{}, ErrDuplicatePlugin,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Select(tc.cat, tc.sel)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateRejectsMisplacedPlugins(t *testing.T) {
	cat := Catalogue{Name: "bad", PreRun: []plugin.Plugin{contentPlugin("a")}}
	if err := cat.Validate(); err == nil {
		t.Fatalf("per-file plugin in pre-run partition must be rejected")
	}
	cat = Catalogue{Name: "bad", PerFile: []plugin.Plugin{corpusPlugin("a")}}
	if err := cat.Validate(); err == nil {
		t.Fatalf("corpus plugin in per-file partition must be rejected")
	}
}

func TestSelectMode(t *testing.T) {
	cats := Catalogues{
		Standard: testCatalogue(),
		Update:   Catalogue{Name: "update", PerFile: []plugin.Plugin{contentPlugin("touch")}},
	}

	active, err := SelectMode(cats, ModeUpdate, Selection{})
	if err != nil {
		t.Fatalf("SelectMode: %v", err)
	}
	if diff := cmp.Diff([]string{"touch"}, active.Names()); diff != "" {
		t.Fatalf("update catalogue mismatch (-want +got):\n%s", diff)
	}
	if !ModeUpdate.ForcesFix() || ModeStandard.ForcesFix() {
		t.Fatalf("only update mode forces fix")
	}

	if _, err := SelectMode(cats, ModeUpdate, Selection{Exclude: []string{"touch"}}); !errors.Is(err, ErrConflictingSelection) {
		t.Fatalf("expected conflicting selection, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeStandard, "standard": ModeStandard, "Update": ModeUpdate} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("fast"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
