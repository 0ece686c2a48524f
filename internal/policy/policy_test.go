package policy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recase/internal/casing"
)

func TestStyleFor(t *testing.T) {
	p := Default()
	if p.StyleFor(RoleClass) != casing.Pascal {
		t.Errorf("classes: got %s", p.StyleFor(RoleClass))
	}
	if p.StyleFor(RoleConstant) != casing.ScreamingSnake {
		t.Errorf("constants: got %s", p.StyleFor(RoleConstant))
	}
	if p.StyleFor(RoleVariable) != casing.Snake {
		t.Errorf("variables: got %s", p.StyleFor(RoleVariable))
	}
}

func TestValidate(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}

	p.Methods = "kebab-case"
	err := p.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := err.Error(); !strings.HasPrefix(got, "methods") {
		t.Errorf("error should name the offending key, got %q", got)
	}
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		p, ok := Preset(name)
		if !ok {
			t.Fatalf("preset %s missing", name)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}

	py, _ := Preset("python_standard")
	if py.Functions != casing.Snake {
		t.Errorf("python_standard functions: got %s", py.Functions)
	}
	java, _ := Preset("java_style")
	if java.Variables != casing.Camel {
		t.Errorf("java_style variables: got %s", java.Variables)
	}

	if _, ok := Preset("nope"); ok {
		t.Error("unknown preset should not resolve")
	}
}

func TestFingerprint(t *testing.T) {
	a := Default()
	b := Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical policies should share a fingerprint")
	}
	b.Classes = casing.Snake
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("differing policies should not share a fingerprint")
	}
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.toml")
	content := "functions = \"snake_case\"\npreserve_private = false\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Functions != casing.Snake {
		t.Errorf("functions: got %s", p.Functions)
	}
	if p.PreservePrivate {
		t.Error("preserve_private should be false")
	}
	// Unset fields keep defaults.
	if p.Classes != casing.Pascal {
		t.Errorf("classes should default to PascalCase, got %s", p.Classes)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := "variables: camelCase\nconstants: SCREAMING_SNAKE_CASE\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Variables != casing.Camel {
		t.Errorf("variables: got %s", p.Variables)
	}
}

func TestLoad_JSONWrapped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.json")
	content := `{"naming_preferences": {"classes": "snake_case"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Classes != casing.Snake {
		t.Errorf("classes: got %s", p.Classes)
	}
}

func TestLoad_InvalidStyle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.toml")
	if err := os.WriteFile(path, []byte("functions = \"SHOUTY\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid style")
	}
}

func TestWriteTOML_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.toml")
	want, _ := Preset("java_style")

	if err := WriteTOML(path, want); err != nil {
		t.Fatalf("WriteTOML failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestResolve(t *testing.T) {
	p, err := Resolve("", "python_standard")
	if err != nil {
		t.Fatalf("Resolve preset: %v", err)
	}
	if p.Methods != casing.Snake {
		t.Errorf("methods: got %s", p.Methods)
	}

	if _, err := Resolve("", "bogus"); err == nil {
		t.Error("expected error for unknown preset")
	}

	p, err = Resolve("", "")
	if err != nil || p != Default() {
		t.Errorf("empty resolve should yield default, got %+v, %v", p, err)
	}
}
