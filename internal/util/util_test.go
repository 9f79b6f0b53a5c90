// internal/util/util_test.go
package util

import (
	"strings"
	"testing"
)

// TestTruncateRunes verifies rune-safe truncation with the ellipsis marker.
func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("short", 10); got != "short" {
		t.Errorf("TruncateRunes(short, 10) = %q", got)
	}
	if got := TruncateRunes("exactly10!", 10); got != "exactly10!" {
		t.Errorf("string at the limit should be untouched, got %q", got)
	}

	got := TruncateRunes("a rather long description", 10)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated string should end in ellipsis, got %q", got)
	}
	if n := len([]rune(got)); n != 10 {
		t.Errorf("truncated to %d runes, want 10", n)
	}

	// Multibyte runes count as one.
	if got := TruncateRunes("héllo wörld", 20); got != "héllo wörld" {
		t.Errorf("multibyte string under the limit changed: %q", got)
	}

	if got := TruncateRunes("anything", 0); got != "anything" {
		t.Errorf("non-positive limit should be a no-op, got %q", got)
	}
}

// TestWrapToWidth verifies word wrapping, long-word breaking and blank-line
// preservation.
func TestWrapToWidth(t *testing.T) {
	got := WrapToWidth("the quick brown fox jumps", 10)
	for _, line := range strings.Split(got, "\n") {
		if n := len([]rune(line)); n > 10 {
			t.Errorf("line %q exceeds width: %d runes", line, n)
		}
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("text should have wrapped, got %q", got)
	}

	got = WrapToWidth("supercalifragilistic", 5)
	for _, line := range strings.Split(got, "\n") {
		if n := len([]rune(line)); n > 5 {
			t.Errorf("broken word line %q exceeds width", line)
		}
	}

	got = WrapToWidth("first\n\nsecond", 20)
	if got != "first\n\nsecond" {
		t.Errorf("blank lines should be preserved, got %q", got)
	}

	if got := WrapToWidth("untouched", 0); got != "untouched" {
		t.Errorf("zero width should be a no-op, got %q", got)
	}
}
