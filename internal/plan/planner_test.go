package plan

import (
	"testing"

	"recase/internal/analyze"
	"recase/internal/casing"
	"recase/internal/policy"
)

func decl(name string, role policy.Role, spans ...analyze.Span) *analyze.Decl {
	return &analyze.Decl{Name: name, Role: role, Assignments: 1, Spans: spans}
}

func TestBuild_Basic(t *testing.T) {
	pol := policy.Default()
	fa := &analyze.FileAnalysis{
		Decls: []*analyze.Decl{
			decl("user_manager", policy.RoleClass, analyze.Span{Start: 6, End: 18}),
			decl("user_name", policy.RoleVariable, analyze.Span{Start: 30, End: 39}),
		},
	}

	p := Build(fa, pol)
	if len(p.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(p.Entries))
	}
	e := p.Entries[0]
	if e.Original != "user_manager" || e.Target != "UserManager" {
		t.Errorf("unexpected entry: %+v", e)
	}
	// user_name is already snake_case: a no-op, not an entry.
}

func TestBuild_Collision(t *testing.T) {
	pol := policy.Default()
	pol.Variables = casing.Camel
	fa := &analyze.FileAnalysis{
		Decls: []*analyze.Decl{
			decl("user_name", policy.RoleVariable, analyze.Span{Start: 0, End: 9}),
			decl("user__name", policy.RoleVariable, analyze.Span{Start: 20, End: 30}),
		},
	}

	p := Build(fa, pol)
	if len(p.Entries) != 0 {
		t.Fatalf("colliding entries must both be dropped, got %d entries", len(p.Entries))
	}
	if len(p.Collisions) != 1 {
		t.Fatalf("expected 1 collision, got %d", len(p.Collisions))
	}
	c := p.Collisions[0]
	if c.Target != "userName" || len(c.Originals) != 2 {
		t.Errorf("unexpected collision: %+v", c)
	}
}

func TestBuild_CollisionWithIdentity(t *testing.T) {
	// A rename may not steal the spelling of a name that already holds
	// it: renaming User_Name to user_name collides with the existing
	// user_name.
	pol := policy.Default()
	fa := &analyze.FileAnalysis{
		Decls: []*analyze.Decl{
			decl("user_name", policy.RoleVariable, analyze.Span{Start: 0, End: 9}),
			decl("User_Name", policy.RoleVariable, analyze.Span{Start: 20, End: 29}),
		},
	}

	p := Build(fa, pol)
	if len(p.Entries) != 0 {
		t.Fatalf("expected no entries, got %+v", p.Entries)
	}
	if len(p.Collisions) != 1 {
		t.Fatalf("expected 1 collision, got %d", len(p.Collisions))
	}
}

func TestBuild_SiblingScopesMerge(t *testing.T) {
	// Two locals named value_x in sibling functions share one entry.
	pol := policy.Default()
	pol.Arguments = casing.Camel
	fa := &analyze.FileAnalysis{
		Decls: []*analyze.Decl{
			decl("value_x", policy.RoleArgument, analyze.Span{Start: 9, End: 16}, analyze.Span{Start: 30, End: 37}),
			decl("value_x", policy.RoleArgument, analyze.Span{Start: 50, End: 57}, analyze.Span{Start: 70, End: 77}),
		},
	}

	p := Build(fa, pol)
	if len(p.Entries) != 1 {
		t.Fatalf("expected 1 merged entry, got %d", len(p.Entries))
	}
	if got := p.Entries[0]; got.Target != "valueX" || len(got.Spans) != 4 {
		t.Errorf("unexpected entry: target=%s spans=%d", got.Target, len(got.Spans))
	}
}

func TestBuild_RolesDoNotCollide(t *testing.T) {
	// Same target under different roles is not a collision.
	pol := policy.Default()
	pol.Functions = casing.Snake
	fa := &analyze.FileAnalysis{
		Decls: []*analyze.Decl{
			decl("getData", policy.RoleFunction, analyze.Span{Start: 4, End: 11}),
			decl("GetData", policy.RoleVariable, analyze.Span{Start: 30, End: 37}),
		},
	}

	p := Build(fa, pol)
	if len(p.Collisions) != 0 {
		t.Errorf("cross-role targets should not collide: %+v", p.Collisions)
	}
	if len(p.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(p.Entries))
	}
}

func TestBuild_IneligibleSkipped(t *testing.T) {
	pol := policy.Default()
	fa := &analyze.FileAnalysis{
		Decls: []*analyze.Decl{
			decl("__init__", policy.RoleMethod, analyze.Span{Start: 0, End: 8}),
			decl("_private", policy.RoleVariable, analyze.Span{Start: 10, End: 18}),
			decl("MAX_SIZE", policy.RoleConstant, analyze.Span{Start: 20, End: 28}),
		},
	}

	p := Build(fa, pol)
	if !p.Empty() {
		t.Errorf("expected empty plan, got %+v", p.Entries)
	}
}
