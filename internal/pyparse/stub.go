//go:build !cgo

// Package pyparse wraps tree-sitter parsing of Python sources.
// This stub is used when CGO is not available.
package pyparse

import (
	"context"
	stderrors "errors"
)

// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
var ErrNoCGO = stderrors.New("python parsing requires CGO (tree-sitter)")

// Tree is a parsed Python source file.
// Stub for non-CGO builds.
type Tree struct {
	Source []byte
}

// Close releases the underlying tree.
func (t *Tree) Close() {}

// Parser wraps a tree-sitter parser configured for Python.
// Stub for non-CGO builds.
type Parser struct{}

// NewParser creates a new Python parser.
// Returns nil when CGO is disabled.
func NewParser() *Parser {
	return nil
}

// Close releases the underlying parser.
func (p *Parser) Close() {}

// Parse parses source text.
// Stub implementation returns an error.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Tree, error) {
	return nil, ErrNoCGO
}

// IsAvailable returns whether Python parsing is available.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}
