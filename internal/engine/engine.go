// Package engine runs the per-file rename pipeline: parse, classify,
// plan, rewrite. A file either rewrites completely or not at all; the
// caller never sees a partially-rewritten buffer.
package engine

import (
	"context"

	"recase/internal/analyze"
	"recase/internal/errors"
	"recase/internal/plan"
	"recase/internal/policy"
	"recase/internal/pyparse"
	"recase/internal/rewrite"
)

// Result is the outcome of rewriting one file's text.
type Result struct {
	// Text is the rewritten source; equal to the input when nothing
	// changed.
	Text []byte
	// Changed reports whether Text differs from the input.
	Changed bool
	// Renames lists the applied plan entries.
	Renames []plan.Entry
	// Collisions lists identifier pairs left unrenamed because they
	// would have mapped to the same spelling.
	Collisions []plan.Collision
	// Unresolved counts occurrences that could not be bound to any
	// declaration and were left untouched.
	Unresolved int
}

// Engine rewrites one file at a time. An Engine owns a parser and is
// not safe for concurrent use; run one per worker.
type Engine struct {
	parser *pyparse.Parser
}

// New creates an engine. Returns an error when tree-sitter parsing is
// unavailable in this build.
func New() (*Engine, error) {
	if !pyparse.IsAvailable() {
		return nil, errors.New(errors.InternalError, "python parsing requires a CGO-enabled build", nil)
	}
	return &Engine{parser: pyparse.NewParser()}, nil
}

// Close releases the engine's parser.
func (e *Engine) Close() {
	e.parser.Close()
}

// Rewrite runs classify, plan, and rewrite over one file's source text
// under the given policy.
func (e *Engine) Rewrite(ctx context.Context, source []byte, pol policy.Policy) (*Result, error) {
	if err := pol.Validate(); err != nil {
		return nil, errors.New(errors.PolicyInvalid, err.Error(), err)
	}

	tree, err := e.parser.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	fa := analyze.Analyze(tree)
	p := plan.Build(fa, pol)

	text, err := rewrite.Apply(source, p)
	if err != nil {
		return nil, err
	}

	return &Result{
		Text:       text,
		Changed:    !p.Empty(),
		Renames:    p.Entries,
		Collisions: p.Collisions,
		Unresolved: fa.Unresolved,
	}, nil
}
