package rewrite

import (
	"testing"

	"recase/internal/analyze"
	"recase/internal/plan"
	"recase/internal/policy"
)

func entry(original, target string, spans ...analyze.Span) plan.Entry {
	return plan.Entry{Role: policy.RoleVariable, Original: original, Target: target, Spans: spans}
}

func TestApply_Basic(t *testing.T) {
	source := []byte("old_name = 1\nprint(old_name)\n")
	p := &plan.Plan{Entries: []plan.Entry{
		entry("old_name", "oldName",
			analyze.Span{Start: 0, End: 8},
			analyze.Span{Start: 19, End: 27},
		),
	}}

	got, err := Apply(source, p)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := "oldName = 1\nprint(oldName)\n"
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApply_LongerAndShorterTargets(t *testing.T) {
	source := []byte("a_b = c_d_e\n")
	p := &plan.Plan{Entries: []plan.Entry{
		entry("a_b", "aVeryLongName", analyze.Span{Start: 0, End: 3}),
		entry("c_d_e", "cd", analyze.Span{Start: 6, End: 11}),
	}}

	got, err := Apply(source, p)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if string(got) != "aVeryLongName = cd\n" {
		t.Errorf("got %q", got)
	}
}

func TestApply_UntouchedLookalike(t *testing.T) {
	// Only enumerated spans change; the second old_name is a different
	// binding the planner did not include.
	source := []byte("old_name = 1\nother = old_name_tail\n")
	p := &plan.Plan{Entries: []plan.Entry{
		entry("old_name", "x", analyze.Span{Start: 0, End: 8}),
	}}

	got, err := Apply(source, p)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if string(got) != "x = 1\nother = old_name_tail\n" {
		t.Errorf("got %q", got)
	}
}

func TestApply_SpanMismatch(t *testing.T) {
	source := []byte("something = 1\n")
	p := &plan.Plan{Entries: []plan.Entry{
		entry("other", "x", analyze.Span{Start: 0, End: 5}),
	}}

	if _, err := Apply(source, p); err == nil {
		t.Fatal("expected error on span/text mismatch")
	}
}

func TestApply_OutOfRange(t *testing.T) {
	source := []byte("x = 1\n")
	p := &plan.Plan{Entries: []plan.Entry{
		entry("x", "y", analyze.Span{Start: 4, End: 99}),
	}}

	if _, err := Apply(source, p); err == nil {
		t.Fatal("expected error on out-of-range span")
	}
}

func TestApply_EmptyPlan(t *testing.T) {
	source := []byte("unchanged = True\n")
	got, err := Apply(source, &plan.Plan{})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if string(got) != string(source) {
		t.Error("empty plan must leave text unchanged")
	}
}
