package finding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCountsClassifiesByKind(t *testing.T) {
	c := NewCounts()
	c.Add("a", NewError("e1"))
	c.Add("a", NewError("e2"))
	c.Add("a", NewWarning("w"))
	c.Add("b", NewFix("f"))
	c.Add("b", NewInfo("ok"))
	c.Add("", NewWarning("generic"))

	if c.Errors != 2 || c.Warnings != 2 || c.Fixes != 1 {
		t.Fatalf("unexpected totals: errors=%d warnings=%d fixes=%d", c.Errors, c.Warnings, c.Fixes)
	}
	want := map[string]PluginCounts{
		"a":           {Errors: 2, Warnings: 1},
		"b":           {Fixes: 1},
		GenericBucket: {Warnings: 1},
	}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", GenericBucket}, c.Plugins()); diff != "" {
		t.Fatalf("plugins mismatch (-want +got):\n%s", diff)
	}
	if c.Success() {
		t.Fatalf("expected failure verdict with errors")
	}
}

func TestCountsInfoOnlyIsSuccess(t *testing.T) {
	c := NewCounts()
	c.AddAll("p", []Finding{NewInfo("fine"), NewInfo("still fine")})
	if !c.Success() {
		t.Fatalf("info findings must not fail the run")
	}
	if len(c.Plugins()) != 0 {
		t.Fatalf("info findings must not create buckets, got %v", c.Plugins())
	}
	if got := c.Plugin("p"); got != (PluginCounts{}) {
		t.Fatalf("expected zero counts, got %+v", got)
	}
}

func TestFindingStampKeepsExplicitValues(t *testing.T) {
	f := NewError("boom").WithPlugin("explicit").Stamp("a.nasl", "runner")
	if f.File != "a.nasl" || f.Plugin != "explicit" {
		t.Fatalf("unexpected stamp result: %+v", f)
	}
	if !HasErrors([]Finding{NewWarning("w"), f}) {
		t.Fatalf("HasErrors should see the error")
	}
	if CountKind([]Finding{f, f, NewFix("x")}, Error) != 2 {
		t.Fatalf("CountKind mismatch")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Info, "ok"},
		{Warning, "warning"},
		{Error, "error"},
		{Fix, "fix"},
		{Kind(42), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	for _, k := range []Kind{Info, Warning, Error, Fix} {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil || back != k {
			t.Fatalf("round trip of %v gave %v (%v)", k, back, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("fatal")); err == nil {
		t.Fatalf("unknown kind must be rejected")
	}
}
