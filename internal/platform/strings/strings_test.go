package strings

import (
	"testing"

	"dncsweep/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	def := []string{"a"}
	if got := IfEmpty(nil, def); len(got) != 1 || got[0] != "a" {
		t.Fatalf("IfEmpty(nil): got %v", got)
	}
	in := []string{"x", "y"}
	if got := IfEmpty(in, def); len(got) != 2 {
		t.Fatalf("IfEmpty(in): got %v", got)
	}
}

func TestMustPrefix(t *testing.T) {
	if got := MustPrefix(" runs/ "); got != "/runs" {
		t.Fatalf("MustPrefix: got %q", got)
	}
	testkit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestSQLNull(t *testing.T) {
	if SQLNull("  ") != nil {
		t.Fatalf("blank should map to nil")
	}
	if SQLNull("x") != "x" {
		t.Fatalf("non-blank should pass through")
	}
}
