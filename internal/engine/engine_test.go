//go:build cgo

package engine

import (
	"context"
	"strings"
	"testing"

	"recase/internal/casing"
	"recase/internal/errors"
	"recase/internal/policy"
)

func run(t *testing.T, source string, pol policy.Policy) *Result {
	t.Helper()
	e, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := e.Rewrite(context.Background(), []byte(source), pol)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	return res
}

func TestRewrite_MixedStyles(t *testing.T) {
	source := `class user_manager:
    def Get_User_Data(self, UserId):
        user_name = "John"
        return user_name
`
	pol := policy.Default()
	pol.Variables = casing.Snake
	pol.Functions = casing.Camel
	pol.Classes = casing.Pascal

	res := run(t, source, pol)

	want := `class UserManager:
    def getUserData(self, user_id):
        user_name = "John"
        return user_name
`
	if string(res.Text) != want {
		t.Errorf("got:\n%s\nwant:\n%s", res.Text, want)
	}
	if !res.Changed {
		t.Error("expected Changed")
	}
}

func TestRewrite_PreservesPrivateAndDunder(t *testing.T) {
	source := `class Cache:
    def __init__(self):
        self._internal_cache = {}

    def __repr__(self):
        return str(self._internal_cache)
`
	pol := policy.Default()
	pol.Attributes = casing.Camel

	res := run(t, source, pol)
	if string(res.Text) != source {
		t.Errorf("private and dunder names must survive:\n%s", res.Text)
	}
}

func TestRewrite_Constants(t *testing.T) {
	source := `MAX_RETRIES = 5

def attempts():
    return MAX_RETRIES
`
	pol := policy.Default()

	// Preserved by default.
	res := run(t, source, pol)
	if string(res.Text) != source {
		t.Errorf("constant should be preserved:\n%s", res.Text)
	}

	// Renamed with the flag off, all occurrences updated.
	pol.PreserveConstants = false
	pol.Constants = casing.Camel
	res = run(t, source, pol)
	want := `maxRetries = 5

def attempts():
    return maxRetries
`
	if string(res.Text) != want {
		t.Errorf("got:\n%s\nwant:\n%s", res.Text, want)
	}
}

func TestRewrite_ScopeIndependence(t *testing.T) {
	source := `def calc(value_x):
    return value_x

def calc2(value_x):
    return value_x * 2
`
	pol := policy.Default()
	pol.Arguments = casing.Camel

	res := run(t, source, pol)
	want := `def calc(valueX):
    return valueX

def calc2(valueX):
    return valueX * 2
`
	if string(res.Text) != want {
		t.Errorf("got:\n%s\nwant:\n%s", res.Text, want)
	}
}

func TestRewrite_NoCrossScopeLeakage(t *testing.T) {
	// Renaming f's local must not touch the same spelling where it is
	// not f's local: here an attribute of a foreign object.
	source := `def f(record):
    Index_Val = 1
    return Index_Val

def g(record):
    return record.Index_Val
`
	pol := policy.Default()

	res := run(t, source, pol)
	text := string(res.Text)
	if !strings.Contains(text, "record.Index_Val") {
		t.Errorf("foreign attribute must be untouched:\n%s", text)
	}
	if !strings.Contains(text, "index_val = 1") {
		t.Errorf("f's local should have been renamed:\n%s", text)
	}
}

func TestRewrite_RenameBlockedByExistingSpelling(t *testing.T) {
	// A rename whose target spelling is already held by another name of
	// the same role is dropped file-wide rather than merged.
	source := `def f():
    TempVal = 1
    return TempVal

def g():
    temp_val = 2
    return temp_val
`
	pol := policy.Default()

	res := run(t, source, pol)
	if string(res.Text) != source {
		t.Errorf("both sides of the collision must stay untouched:\n%s", res.Text)
	}
	if len(res.Collisions) != 1 {
		t.Errorf("expected a collision note, got %d", len(res.Collisions))
	}
}

func TestRewrite_LambdaInParameterDefault(t *testing.T) {
	// The default value evaluates in the enclosing scope, so the
	// reference inside the lambda must follow the rename.
	source := `def Do_Stuff():
    return 1

def f(cb=lambda: Do_Stuff()):
    return cb()
`
	pol := policy.Default()

	res := run(t, source, pol)
	text := string(res.Text)
	if !strings.Contains(text, "def doStuff():") {
		t.Errorf("definition should be renamed:\n%s", text)
	}
	if !strings.Contains(text, "cb=lambda: doStuff()") {
		t.Errorf("reference in the default lambda must follow the rename:\n%s", text)
	}
}

func TestRewrite_DecoratedAndAsyncDefinitions(t *testing.T) {
	source := `class report_builder:
    @staticmethod
    def Make_Table(rows):
        return rows

async def Fetch_Report(builder):
    return builder
`
	pol := policy.Default()

	res := run(t, source, pol)
	text := string(res.Text)
	if !strings.Contains(text, "class ReportBuilder:") {
		t.Errorf("class should be renamed:\n%s", text)
	}
	if !strings.Contains(text, "def makeTable(rows):") {
		t.Errorf("decorated method should be renamed:\n%s", text)
	}
	if !strings.Contains(text, "async def fetchReport(builder):") {
		t.Errorf("async function should be renamed:\n%s", text)
	}
	if !strings.Contains(text, "@staticmethod") {
		t.Errorf("decorator must be untouched:\n%s", text)
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	source := `class data_store:
    def Fetch_Item(self, ItemId):
        found_item = self.lookup(ItemId)
        return found_item

    def lookup(self, key_id):
        return key_id
`
	pol := policy.Default()

	once := run(t, source, pol)
	twice := run(t, string(once.Text), pol)

	if string(once.Text) != string(twice.Text) {
		t.Errorf("second run changed output:\n%s\nvs:\n%s", once.Text, twice.Text)
	}
	if twice.Changed {
		t.Error("second run should be a fixed point")
	}
}

func TestRewrite_CollisionSkipped(t *testing.T) {
	source := `def f():
    user_name = 1
    User_Name = 2
    return user_name + User_Name
`
	pol := policy.Default()

	res := run(t, source, pol)
	if string(res.Text) != source {
		t.Errorf("colliding names must stay untouched:\n%s", res.Text)
	}
	if len(res.Collisions) != 1 {
		t.Fatalf("expected 1 collision note, got %d", len(res.Collisions))
	}
	if res.Collisions[0].Target != "user_name" {
		t.Errorf("unexpected collision target %q", res.Collisions[0].Target)
	}
}

func TestRewrite_ImportedNamesUntouched(t *testing.T) {
	source := `import os
from json import dumps

def Save_Data(payload):
    return dumps(payload)
`
	pol := policy.Default()

	res := run(t, source, pol)
	if !strings.Contains(string(res.Text), "dumps(payload)") {
		t.Errorf("imported dumps must be untouched:\n%s", res.Text)
	}
	if !strings.Contains(string(res.Text), "def saveData(payload):") {
		t.Errorf("local function should be renamed:\n%s", res.Text)
	}
}

func TestRewrite_ParseFailure(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = e.Rewrite(context.Background(), []byte("def broken(:\n"), policy.Default())
	if err == nil {
		t.Fatal("expected parse failure")
	}
	if errors.CodeOf(err) != errors.ParseFailure {
		t.Errorf("expected PARSE_FAILURE, got %s", errors.CodeOf(err))
	}
}

func TestRewrite_InvalidPolicy(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	pol := policy.Default()
	pol.Classes = "SHOUTY"
	_, err = e.Rewrite(context.Background(), []byte("x = 1\n"), pol)
	if errors.CodeOf(err) != errors.PolicyInvalid {
		t.Errorf("expected POLICY_INVALID, got %v", err)
	}
}

func TestRewrite_StringsAndCommentsUntouched(t *testing.T) {
	source := `def Get_Value():
    note = "call Get_Value() later"
    return note  # Get_Value is documented
`
	pol := policy.Default()

	res := run(t, source, pol)
	text := string(res.Text)
	if !strings.Contains(text, `"call Get_Value() later"`) {
		t.Errorf("string literal must be untouched:\n%s", text)
	}
	if !strings.Contains(text, "# Get_Value is documented") {
		t.Errorf("comment must be untouched:\n%s", text)
	}
	if !strings.Contains(text, "def getValue():") {
		t.Errorf("definition should be renamed:\n%s", text)
	}
}
