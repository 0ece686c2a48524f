// Package analyze builds the per-file declaration and occurrence model
// the rename planner consumes: every identifier declaration, its
// syntactic role, and the source spans of every occurrence resolvable to
// it through the lexical scope chain.
package analyze

import (
	"recase/internal/policy"
)

// Span is a half-open byte range in the source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ScopeKind distinguishes the binding behavior of a scope.
type ScopeKind int

const (
	// ModuleScope is the file's top level.
	ModuleScope ScopeKind = iota
	// ClassScope is a class body. Class scopes are invisible to the
	// scopes nested inside them, matching Python's lookup rules.
	ClassScope
	// FunctionScope is a function, method, or lambda body.
	FunctionScope
)

// Scope is one level of the lexical scope chain.
type Scope struct {
	Kind   ScopeKind
	Name   string
	Parent *Scope

	decls map[string]*Decl
	// skip holds names declared global/nonlocal here; their binding
	// lives in another scope the engine does not track, so they are
	// never declared or resolved locally.
	skip map[string]bool
}

func newScope(kind ScopeKind, name string, parent *Scope) *Scope {
	return &Scope{
		Kind:   kind,
		Name:   name,
		Parent: parent,
		decls:  make(map[string]*Decl),
		skip:   make(map[string]bool),
	}
}

// declare registers a declaration in this scope, returning the existing
// one on repeat assignment.
func (s *Scope) declare(d *Decl) *Decl {
	if existing, ok := s.decls[d.Name]; ok {
		existing.Assignments++
		return existing
	}
	d.Assignments = 1
	s.decls[d.Name] = d
	return d
}

// resolve walks the scope chain outward. Class scopes other than the
// starting scope are skipped: a method body does not see its class's
// attributes by bare name.
func (s *Scope) resolve(name string) *Decl {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == ClassScope && cur != s {
			continue
		}
		if cur.skip[name] {
			// Declared global/nonlocal here; the binding lives further
			// out on the chain.
			continue
		}
		if d, ok := cur.decls[name]; ok {
			return d
		}
	}
	return nil
}

// enclosingClass finds the nearest class scope on the chain, for
// resolving self-attribute occurrences.
func (s *Scope) enclosingClass() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == ClassScope {
			return cur
		}
	}
	return nil
}

// Decl is one identifier declaration site. All occurrences of the
// identifier within its scope inherit the declaration's role.
type Decl struct {
	Name string
	Role policy.Role
	// Line and Column locate the declaration (1-based line).
	Line   int
	Column int
	// Spans are the source positions of every occurrence resolvable to
	// this declaration, declaration site included.
	Spans []Span
	// Assignments counts assignment sites in the declaring scope; the
	// preserve-constants rule applies to names assigned exactly once.
	Assignments int
	// ShadowsImport is set when the name also refers to an imported
	// symbol; such declarations are never safe to rename.
	ShadowsImport bool

	scope *Scope
}

// FileAnalysis is the classified declaration model of one file.
type FileAnalysis struct {
	// Decls holds every declaration found, in discovery order.
	Decls []*Decl
	// Unresolved counts occurrences that could not be bound to any
	// known declaration. They are left untouched.
	Unresolved int
}
