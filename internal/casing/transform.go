package casing

import (
	"strings"
	"unicode"
)

// Render joins a word sequence in the target style. Words are assumed
// lowercase, as produced by Split. Words that start with a digit are
// emitted as-is in every style; digits carry no case.
func Render(words []string, style Style) string {
	switch style {
	case Snake:
		return strings.Join(words, "_")
	case ScreamingSnake:
		upper := make([]string, len(words))
		for i, w := range words {
			upper[i] = strings.ToUpper(w)
		}
		return strings.Join(upper, "_")
	case Camel:
		var b strings.Builder
		for i, w := range words {
			if i == 0 {
				b.WriteString(w)
				continue
			}
			b.WriteString(capitalize(w))
		}
		return b.String()
	case Pascal:
		var b strings.Builder
		for _, w := range words {
			b.WriteString(capitalize(w))
		}
		return b.String()
	}
	return strings.Join(words, "_")
}

// Convert re-renders an identifier in the target style, preserving any
// leading or trailing underscore runs. Convert is idempotent: a name
// already in the target style maps to itself.
func Convert(name string, style Style) string {
	id := SplitName(name)
	if len(id.Words) == 0 {
		return name
	}
	return strings.Repeat("_", id.Leading) + Render(id.Words, style) + strings.Repeat("_", id.Trailing)
}

// Matches reports whether a name is already rendered in the given style.
func Matches(name string, style Style) bool {
	return Convert(name, style) == name
}

func capitalize(w string) string {
	r := []rune(w)
	if len(r) == 0 || !unicode.IsLetter(r[0]) {
		return w
	}
	return string(unicode.ToUpper(r[0])) + string(r[1:])
}
