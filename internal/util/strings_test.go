package util_test

import (
	"testing"

	"github.com/urlkit/urlobject/internal/util"
)

func TestStringBuilderPool(t *testing.T) {
	t.Parallel()

	sb := util.GetStringBuilder()
	sb.WriteString("http://example.com/")
	if got, want := sb.String(), "http://example.com/"; got != want {
		t.Errorf("sb.String() = %q, want %q", got, want)
	}
	util.FreeStringBuilder(sb)

	sb = util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	if sb.Len() != 0 {
		t.Errorf("pooled builder len = %d, want 0", sb.Len())
	}
}

func TestTrimSP(t *testing.T) {
	t.Parallel()

	if got, want := util.TrimSP("  host \t"), "host"; got != want {
		t.Errorf("util.TrimSP() = %q, want %q", got, want)
	}
}

func TestLCase(t *testing.T) {
	t.Parallel()

	if got, want := util.LCase("MatchHost"), "matchhost"; got != want {
		t.Errorf("util.LCase() = %q, want %q", got, want)
	}
}
