package meta

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanName prepares an artist, album or genre name for storage: Unicode
// NFC, control characters dropped, whitespace trimmed and collapsed.
// Case is kept; "AC/DC" and "ac/dc" are different names.
func CleanName(s string) string {
	if s == "" {
		return ""
	}

	s = norm.NFC.String(s)
	s = removeControlChars(s)
	return collapseWhitespace(s)
}

// CleanNames cleans every name and drops empties and repeats, keeping first-seen order
func CleanNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = CleanName(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// SplitMulti splits a multi-valued tag ("A; B", "A / B", or NUL separated
// ID3v2.4 frames) into cleaned names. A bare "/" is left alone so names
// like "AC/DC" survive.
func SplitMulti(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == 0
	})

	var names []string
	for _, p := range parts {
		names = append(names, strings.Split(p, " / ")...)
	}
	return CleanNames(names)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func removeControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
