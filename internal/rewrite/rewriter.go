// Package rewrite applies a rename plan to source text. Only the spans
// the planner enumerated are touched; there is no pattern matching over
// the file, so an unrelated identifier that happens to share a spelling
// is never altered.
package rewrite

import (
	"fmt"
	"sort"

	"recase/internal/analyze"
	"recase/internal/errors"
	"recase/internal/plan"
)

type edit struct {
	span   analyze.Span
	old    string
	target string
}

// Apply rewrites every planned occurrence, returning the new text.
// Edits are applied in descending source order so earlier replacements
// never invalidate the offsets of later ones. Every span is verified to
// still hold the original spelling first; a mismatch means the plan and
// the text disagree, and the file is failed atomically rather than
// half-rewritten.
func Apply(source []byte, p *plan.Plan) ([]byte, error) {
	if p.Empty() {
		return source, nil
	}

	var edits []edit
	for _, e := range p.Entries {
		for _, s := range e.Spans {
			edits = append(edits, edit{span: s, old: e.Original, target: e.Target})
		}
	}

	sort.Slice(edits, func(i, j int) bool {
		return edits[i].span.Start > edits[j].span.Start
	})

	out := make([]byte, len(source))
	copy(out, source)

	prevStart := len(out) + 1
	for _, e := range edits {
		if e.span.Start < 0 || e.span.End > len(source) || e.span.Start >= e.span.End {
			return nil, errors.New(errors.InternalError,
				fmt.Sprintf("edit span [%d,%d) out of range", e.span.Start, e.span.End), nil)
		}
		if e.span.End > prevStart {
			return nil, errors.New(errors.InternalError,
				fmt.Sprintf("overlapping edit spans at offset %d", e.span.Start), nil)
		}
		prevStart = e.span.Start

		if got := string(source[e.span.Start:e.span.End]); got != e.old {
			return nil, errors.New(errors.InternalError,
				fmt.Sprintf("span [%d,%d) holds %q, expected %q", e.span.Start, e.span.End, got, e.old), nil)
		}

		out = append(out[:e.span.Start], append([]byte(e.target), out[e.span.End:]...)...)
	}

	return out, nil
}
