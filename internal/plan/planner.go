// Package plan aggregates classified declarations into a per-file
// rename plan: one canonical target spelling per (role, original name)
// pair, with colliding pairs excluded rather than merged.
package plan

import (
	"fmt"
	"sort"

	"recase/internal/analyze"
	"recase/internal/policy"
)

// Entry maps one original name to its target spelling for a role,
// carrying the source spans of every occurrence to rewrite.
type Entry struct {
	Role     policy.Role    `json:"role"`
	Original string         `json:"original"`
	Target   string         `json:"target"`
	Spans    []analyze.Span `json:"-"`
}

// Collision reports two or more original names of one role that would
// render to the same target. All of them are left unrenamed; a silent
// no-op is preferred over introducing ambiguity.
type Collision struct {
	Role      policy.Role `json:"role"`
	Target    string      `json:"target"`
	Originals []string    `json:"originals"`
}

// String renders a collision note for reports.
func (c Collision) String() string {
	return fmt.Sprintf("%s names %v all map to %q; left unrenamed", c.Role, c.Originals, c.Target)
}

// Plan is the rename plan for one file.
type Plan struct {
	Entries    []Entry
	Collisions []Collision
}

// Empty reports whether the plan changes anything.
func (p *Plan) Empty() bool {
	return len(p.Entries) == 0
}

type pairKey struct {
	role policy.Role
	name string
}

// Build computes the plan from a file's declarations under a policy.
// Declarations sharing a role and original name (same-named locals in
// sibling scopes) merge into one entry; determinism of the transform
// guarantees they share a target. Names already in their target style
// still participate in collision detection: a rename may not steal the
// spelling of a name that legitimately holds it.
func Build(fa *analyze.FileAnalysis, pol policy.Policy) *Plan {
	type pending struct {
		role     policy.Role
		original string
		target   string
		spans    []analyze.Span
		dropped  bool
	}

	var order []*pending
	byPair := make(map[pairKey]*pending)

	for _, d := range fa.Decls {
		if !analyze.Eligible(d, pol) {
			continue
		}
		target := analyze.Target(d, pol)
		k := pairKey{d.Role, d.Name}
		p, ok := byPair[k]
		if !ok {
			p = &pending{role: d.Role, original: d.Name, target: target}
			byPair[k] = p
			order = append(order, p)
		}
		p.spans = append(p.spans, d.Spans...)
	}

	// Collision detection over (role, target).
	byTarget := make(map[pairKey][]*pending)
	for _, p := range order {
		k := pairKey{p.role, p.target}
		byTarget[k] = append(byTarget[k], p)
	}

	plan := &Plan{}
	for _, p := range order {
		group := byTarget[pairKey{p.role, p.target}]
		if len(group) < 2 || p.dropped {
			continue
		}
		originals := make([]string, 0, len(group))
		for _, g := range group {
			g.dropped = true
			originals = append(originals, g.original)
		}
		sort.Strings(originals)
		plan.Collisions = append(plan.Collisions, Collision{
			Role:      p.role,
			Target:    p.target,
			Originals: originals,
		})
	}

	for _, p := range order {
		if p.dropped || p.target == p.original || len(p.spans) == 0 {
			continue
		}
		plan.Entries = append(plan.Entries, Entry{
			Role:     p.role,
			Original: p.original,
			Target:   p.target,
			Spans:    p.spans,
		})
	}

	return plan
}
