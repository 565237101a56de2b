package plugins

import (
	"path/filepath"
	"strings"
	"testing"

	"vtlint/internal/finding"
	"vtlint/internal/plugin"
)

func TestDuplicateOID(t *testing.T) {
	p := DuplicateOID{base{"check_duplicate_oid", ""}}
	root := t.TempDir()
	a := writeFile(t, root, "a.nasl", `script_oid("1.3.6.1.4.1.25623.1.0.1");`)
	b := writeFile(t, root, "b.nasl", `script_oid("1.3.6.1.4.1.25623.1.0.1");`)
	c := writeFile(t, root, "c.nasl", `script_oid("1.3.6.1.4.1.25623.1.0.2");`)
	inc := writeFile(t, root, "d.inc", `script_oid("1.3.6.1.4.1.25623.1.0.2");`)

	ctx := &plugin.FilesContext{Root: root, Files: []string{a, b, c, inc}, Patterns: testCache}
	got := p.NewCorpusCheck(ctx).Run()

	errs := 0
	for _, f := range got {
		if f.Kind == finding.Error {
			errs++
			if f.File != a {
				t.Fatalf("error attributed to %q, want %q", f.File, a)
			}
			if !strings.Contains(f.Message, "'"+b+"'") || !strings.HasPrefix(f.Message, "OID '1.3.6.1.4.1.25623.1.0.1' of VT") {
				t.Fatalf("unexpected message %q", f.Message)
			}
		}
	}
	if errs != 1 {
		t.Fatalf("expected exactly one error, got %q", messages(got))
	}
}

func TestDuplicateOIDMissingOIDIsInfo(t *testing.T) {
	p := DuplicateOID{base{"check_duplicate_oid", ""}}
	root := t.TempDir()
	a := writeFile(t, root, "a.nasl", "")
	got := p.NewCorpusCheck(&plugin.FilesContext{Root: root, Files: []string{a}}).Run()
	wantSingle(t, got, finding.Info, "No OID found in VT '"+a+"'")
}

func TestDependenciesResolution(t *testing.T) {
	p := Dependencies{base{"check_dependencies", ""}}
	root := t.TempDir()
	vt := writeFile(t, root, "vt.nasl", `script_dependencies("helper.nasl", "sub/other.nasl");`)
	writeFile(t, root, filepath.Join("gsf", "sub", "other.nasl"), "")

	ctx := &plugin.FilesContext{Root: root, Files: []string{vt}, Patterns: testCache}
	got := p.NewCorpusCheck(ctx).Run()
	wantSingle(t, got, finding.Error, "The script dependency helper.nasl could not be found within the VTs.")
	if got[0].File != vt {
		t.Fatalf("finding attributed to %q, want %q", got[0].File, vt)
	}

	helper := writeFile(t, root, "helper.nasl", "")
	ctx.Files = []string{vt, helper}
	wantNone(t, p.NewCorpusCheck(ctx).Run())
}

func TestDependenciesAcceptsCorpusOnlyFiles(t *testing.T) {
	p := Dependencies{base{"check_dependencies", ""}}
	root := t.TempDir()
	vt := writeFile(t, root, "vt.nasl", `script_dependencies("lib/x.nasl");`)
	// corpus entry known by its root-relative path
	ctx := &plugin.FilesContext{Root: root, Files: []string{vt, filepath.Join(root, "lib", "x.nasl")}}
	wantNone(t, p.NewCorpusCheck(ctx).Run())
}
