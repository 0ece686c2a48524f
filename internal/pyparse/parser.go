//go:build cgo

// Package pyparse wraps tree-sitter parsing of Python sources.
package pyparse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"recase/internal/errors"
)

// Tree is a parsed Python source file.
type Tree struct {
	tree   *sitter.Tree
	Source []byte
}

// Root returns the root node of the parse tree.
func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
	}
}

// Parser wraps a tree-sitter parser configured for Python.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new Python parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// Close releases the underlying parser.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// Parse parses source text. A source that produces error nodes is a
// ParseFailure; the position of the first error node is surfaced.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.New(errors.ParseFailure, fmt.Sprintf("parse error: %v", err), err)
	}

	root := tree.RootNode()
	if root.HasError() {
		pos := errorPosition(root)
		tree.Close()
		return nil, errors.NewFileError(errors.ParseFailure, "source contains syntax errors", "", pos, nil)
	}

	return &Tree{tree: tree, Source: source}, nil
}

// IsAvailable returns whether Python parsing is available.
func IsAvailable() bool {
	return true
}

// errorPosition locates the first ERROR or MISSING node.
func errorPosition(node *sitter.Node) *errors.Position {
	if node.IsError() || node.IsMissing() {
		p := node.StartPoint()
		return &errors.Position{Line: int(p.Row) + 1, Column: int(p.Column)}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.HasError() && !child.IsMissing() {
			continue
		}
		if pos := errorPosition(child); pos != nil {
			return pos
		}
	}
	return nil
}

// NodeText returns the source text a node spans.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
