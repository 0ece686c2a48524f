// Package casing splits identifiers into words and renders them in a
// target naming style.
package casing

import "fmt"

// Style identifies a naming convention for rendered identifiers.
type Style string

const (
	// Snake renders lower_case_with_underscores.
	Snake Style = "snake_case"
	// Camel renders lowerCamelCase.
	Camel Style = "camelCase"
	// Pascal renders UpperCamelCase.
	Pascal Style = "PascalCase"
	// ScreamingSnake renders UPPER_CASE_WITH_UNDERSCORES.
	ScreamingSnake Style = "SCREAMING_SNAKE_CASE"
)

// Styles lists every supported style in a stable order.
var Styles = []Style{Snake, Camel, Pascal, ScreamingSnake}

// ParseStyle validates a style string from configuration.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case Snake, Camel, Pascal, ScreamingSnake:
		return Style(s), nil
	}
	return "", fmt.Errorf("unknown naming style %q (must be one of snake_case, camelCase, PascalCase, SCREAMING_SNAKE_CASE)", s)
}
