package casing

import (
	"strings"
	"unicode"
)

// Ident is an identifier decomposed into lowercase words plus the
// underscore runs found at its edges. The edge runs are kept out of the
// word list so private (_name) and dunder (__name__) markers survive a
// re-render unchanged.
type Ident struct {
	Leading  int // leading underscores
	Trailing int // trailing underscores
	Words    []string
}

// SplitName decomposes an identifier, recording edge underscore runs
// separately from the words.
func SplitName(name string) Ident {
	var id Ident
	for id.Leading < len(name) && name[id.Leading] == '_' {
		id.Leading++
	}
	end := len(name)
	for end > id.Leading && name[end-1] == '_' {
		id.Trailing++
		end--
	}
	id.Words = Split(name[id.Leading:end])
	return id
}

// Split breaks an identifier into its lowercase constituent words,
// regardless of the identifier's current casing. Underscores separate
// words outright; within a segment, words break at lower-to-upper
// transitions, at letter/digit transitions, and before the last letter
// of an uppercase run that is followed by a lowercase letter, so
// "HTTPServer" yields ["http", "server"] rather than one letter per
// word. A run of uppercase with nothing lowercase after it stays one
// word (an acronym). The result is non-empty for any input containing
// at least one non-underscore character.
func Split(name string) []string {
	var words []string
	for _, seg := range strings.Split(name, "_") {
		if seg == "" {
			continue
		}
		words = append(words, splitSegment(seg)...)
	}
	return words
}

func splitSegment(seg string) []string {
	runes := []rune(seg)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if boundaryAt(runes, i) {
			words = append(words, strings.ToLower(string(runes[start:i])))
			start = i
		}
	}
	words = append(words, strings.ToLower(string(runes[start:])))
	return words
}

// boundaryAt reports whether a word boundary sits immediately before
// runes[i].
func boundaryAt(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]

	// aB -> a|B
	if unicode.IsLower(prev) && unicode.IsUpper(cur) {
		return true
	}

	// a1 / 1a -> a|1 / 1|a
	if unicode.IsDigit(prev) != unicode.IsDigit(cur) {
		return true
	}

	// ABc -> A|Bc: break an uppercase run before its last letter when a
	// lowercase letter follows.
	if unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
		return true
	}

	return false
}
