package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vtlint/internal/plugins"
	"vtlint/internal/registry"
	"vtlint/internal/report"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.nasl", "a.inc", "notes.txt", "sub/c.nasl"} {
		writeFile(t, filepath.Join(dir, name), "x\n")
	}
	missing := filepath.Join(dir, "missing.nasl")
	explicit := filepath.Join(dir, "notes.txt")

	got, err := expandInputs([]string{dir, missing, explicit, filepath.Join(dir, "b.nasl")})
	if err != nil {
		t.Fatalf("expandInputs: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.inc"),
		filepath.Join(dir, "b.nasl"),
		filepath.Join(dir, "sub", "c.nasl"),
		missing,
		explicit,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("inputs mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribeCatalogue(t *testing.T) {
	infos, err := describeCatalogue(plugins.Standard())
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if infos[0].Name != "check_duplicate_oid" || infos[0].Phase != "pre-run" || infos[0].Variant != "files" {
		t.Fatalf("unexpected first entry: %+v", infos[0])
	}
	fixers := map[string]bool{}
	for _, p := range infos {
		if p.Fixer {
			fixers[p.Name] = true
		}
	}
	if diff := cmp.Diff(map[string]bool{"check_double_end_points": true, "check_newlines": true}, fixers); diff != "" {
		t.Fatalf("fixers mismatch (-want +got):\n%s", diff)
	}

	update, err := describeCatalogue(plugins.Update(nil))
	if err != nil {
		t.Fatalf("describe update: %v", err)
	}
	if len(update) != 1 || !update[0].Fixer {
		t.Fatalf("update catalogue must hold one fixer, got %+v", update)
	}
}

func TestCheckSelectionEmpty(t *testing.T) {
	cats := plugins.Catalogues(nil)
	var all []string
	for _, p := range append(cats.Standard.PreRun, cats.Standard.PerFile...) {
		all = append(all, p.Name())
	}

	var out bytes.Buffer
	err := checkSelection(&out, cats, registry.ModeStandard, registry.Selection{Exclude: all})
	if !errors.Is(err, errSilent) {
		t.Fatalf("want errSilent, got %v", err)
	}
	if out.String() != "No Plugin found.\n" {
		t.Fatalf("output = %q", out.String())
	}

	out.Reset()
	err = checkSelection(&out, cats, registry.ModeStandard, registry.Selection{Include: []string{"no_such_plugin"}})
	if !errors.Is(err, registry.ErrUnknownPlugin) || out.Len() != 0 {
		t.Fatalf("unknown plugin: err=%v output=%q", err, out.String())
	}
	if err := checkSelection(&out, cats, registry.ModeStandard, registry.Selection{}); err != nil {
		t.Fatalf("default selection: %v", err)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeOff, "AUTO": uiModeAuto, " on ": uiModeOn} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Fatalf("invalid mode must be rejected")
	}
	if shouldUseTUI(uiModeOn, "-") {
		t.Fatalf("progress view must stay off while the dump goes to stdout")
	}
	if !shouldUseTUI(uiModeOn, "out.json") || shouldUseTUI(uiModeOff, "") {
		t.Fatalf("explicit on/off must be honoured")
	}
}

// TestLintCommand runs the root command once; cobra flag state is global.
func TestLintCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tabs.nasl"), "if(x)\n{\n\tdisplay(1);\n}\n")
	writeFile(t, filepath.Join(dir, "todo.nasl"), "# TODO: finish\nexit(0);\n")
	cfgPath := filepath.Join(dir, ".vtlint.toml")
	writeFile(t, cfgPath, "jobs = 2\n")
	dumpPath := filepath.Join(dir, "out.json")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{
		"--config", cfgPath,
		"--root", dir,
		"--include", "check_tabs,check_todo_tbd",
		"--color", "off",
		"--ui", "off",
		"--dump", dumpPath,
		dir,
	})
	err := rootCmd.ExecuteContext(context.Background())
	if !errors.Is(err, errSilent) {
		t.Fatalf("want silent failure, got %v\n%s", err, out.String())
	}

	f, err := os.Open(dumpPath)
	if err != nil {
		t.Fatalf("open dump: %v", err)
	}
	defer f.Close()
	doc, err := report.Decode(f, report.DumpJSON)
	if err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if doc.Errors != 1 || doc.Warnings != 1 || doc.Requested != 2 || doc.Success {
		t.Fatalf("unexpected dump verdict: %+v", doc)
	}
	if diff := cmp.Diff([]string{"check_todo_tbd", "check_tabs"}, doc.Plugins); diff != "" {
		t.Fatalf("plugins mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Contains(out.Bytes(), []byte("check_todo_tbd")) {
		t.Fatalf("statistics table missing:\n%s", out.String())
	}
}
