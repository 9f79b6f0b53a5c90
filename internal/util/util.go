// internal/util/util.go
// Package util holds small text-shaping helpers shared by the dashboard views.
package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes shortens text to at most maxRunes runes, marking the cut with
// an ellipsis. Rune-based so multibyte names survive intact.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes-1]) + "…"
}

// WrapToWidth re-flows text to the given width, breaking words longer than a
// whole line. Existing line breaks are preserved.
func WrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		var cur strings.Builder
		used := 0
		flush := func() {
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
				used = 0
			}
		}

		for _, w := range words {
			wlen := utf8.RuneCountInString(w)
			if wlen > width {
				flush()
				r := []rune(w)
				for start := 0; start < len(r); start += width {
					end := start + width
					if end > len(r) {
						end = len(r)
					}
					out = append(out, string(r[start:end]))
				}
				continue
			}
			sep := 0
			if used > 0 {
				sep = 1
			}
			if used+sep+wlen > width {
				flush()
				sep = 0
			}
			if sep == 1 {
				cur.WriteByte(' ')
				used++
			}
			cur.WriteString(w)
			used += wlen
		}
		flush()
	}
	return strings.Join(out, "\n")
}
