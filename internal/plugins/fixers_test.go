package plugins

import (
	"os"
	"testing"
	"time"

	"vtlint/internal/finding"
	"vtlint/internal/plugin"
)

// runFix builds a fresh context from disk, runs the check and its fixer,
// and returns the fix findings.
func runFix(t *testing.T, p plugin.FilePlugin, root, path string) []finding.Finding {
	t.Helper()
	check := p.NewCheck(diskCtx(t, root, path))
	check.Run()
	fixer, ok := check.(plugin.Fixer)
	if !ok {
		t.Fatalf("%s does not fix", p.Name())
	}
	fixes, err := fixer.Fix()
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	return fixes
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	return string(data)
}

func TestDoubleEndPoints(t *testing.T) {
	p := DoubleEndPoints{base{"check_double_end_points", ""}}
	content := "script_tag(name:\"cvss_base\", value:\"4.0\");\nscript_tag(name:\"summary\", value:\"Foo Bar...\");"

	got := p.NewCheck(contentCtx("some/file.nasl", content)).Run()
	wantSingle(t, got, finding.Error, "The script tag 'summary' is ending with two or more points: 'Foo Bar...'.")

	wantNone(t, p.NewCheck(contentCtx("some/file.nasl",
		"script_tag(name:\"summary\", value:\"Foo Bar.\");")).Run())
}

func TestDoubleEndPointsFixIsIdempotent(t *testing.T) {
	p := DoubleEndPoints{base{"check_double_end_points", ""}}
	root := t.TempDir()
	path := writeFile(t, root, "a.nasl",
		"script_tag(name:\"summary\", value:\"Foo..\");\nscript_tag(name:\"insight\", value:\"Bar...\");\n")

	fixes := runFix(t, p, root, path)
	if len(fixes) != 2 || fixes[0].Kind != finding.Fix {
		t.Fatalf("expected 2 fixes, got %q", messages(fixes))
	}
	want := "script_tag(name:\"summary\", value:\"Foo.\");\nscript_tag(name:\"insight\", value:\"Bar.\");\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("fixed content mismatch\nwant: %q\ngot:  %q", want, got)
	}

	wantNone(t, runFix(t, p, root, path))
	if got := readBack(t, path); got != want {
		t.Fatalf("second fix changed the file: %q", got)
	}
}

func TestNewlinesFixIsIdempotent(t *testing.T) {
	p := Newlines{base{"check_newlines", ""}}
	root := t.TempDir()
	path := writeFile(t, root, "a.nasl", "a\r\nb\rc\n")

	wantSingle(t, p.NewCheck(diskCtx(t, root, path)).Run(), finding.Error,
		"The VT is using CR or CRLF line endings, only LF is allowed.")

	wantSingle(t, runFix(t, p, root, path), finding.Fix, "Replaced CR/CRLF line endings with LF.")
	if got := readBack(t, path); got != "a\nb\nc\n" {
		t.Fatalf("fixed content = %q", got)
	}
	wantNone(t, runFix(t, p, root, path))
	wantNone(t, p.NewCheck(diskCtx(t, root, path)).Run())
}

func TestReadOnlyRunLeavesFileUntouched(t *testing.T) {
	p := Newlines{base{"check_newlines", ""}}
	root := t.TempDir()
	original := "a\r\nb\r\n"
	path := writeFile(t, root, "a.nasl", original)

	p.NewCheck(diskCtx(t, root, path)).Run()
	if got := readBack(t, path); got != original {
		t.Fatalf("Run modified the file: %q", got)
	}
}

func TestUpdateModificationDate(t *testing.T) {
	fixed := time.Date(2022, time.March, 4, 5, 6, 7, 0, time.UTC)
	p := UpdateModificationDate{
		base: base{"update_modification_date", ""},
		Now:  func() time.Time { return fixed },
	}
	root := t.TempDir()
	path := writeFile(t, root, "a.nasl",
		`script_version("2021-03-24T10:08:26+0000");`+"\n"+
			`script_tag(name:"last_modification", value:"2021-03-24 10:08:26 +0000 (Wed, 24 Mar 2021)");`+"\n")

	wantSingle(t, runFix(t, p, root, path), finding.Fix,
		"Successfully replaced modification date 2021-03-24 10:08:26 +0000 (Wed, 24 Mar 2021) with 2022-03-04 05:06:07 +0000 (Fri, 04 Mar 2022)")

	want := `script_version("2022-03-04T05:06:07+0000");` + "\n" +
		`script_tag(name:"last_modification", value:"2022-03-04 05:06:07 +0000 (Fri, 04 Mar 2022)");` + "\n"
	if got := readBack(t, path); got != want {
		t.Fatalf("updated content mismatch\nwant: %q\ngot:  %q", want, got)
	}

	// same clock: nothing left to change
	wantNone(t, runFix(t, p, root, path))

	missing := writeFile(t, root, "b.nasl", "script_category(ACT_INIT);\n")
	wantSingle(t, p.NewCheck(diskCtx(t, root, missing)).Run(), finding.Error,
		"File is not containing a modification day script tag.")
}
