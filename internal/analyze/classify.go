package analyze

import (
	"strings"

	"recase/internal/casing"
	"recase/internal/policy"
)

// reserved holds Python keywords and common builtins. These are never
// renamed under any policy; no configuration makes renaming `print`
// safe.
var reserved = map[string]bool{}

func init() {
	names := []string{
		"False", "None", "True", "and", "as", "assert", "async", "await",
		"break", "class", "continue", "def", "del", "elif", "else", "except",
		"finally", "for", "from", "global", "if", "import", "in", "is",
		"lambda", "match", "nonlocal", "not", "or", "pass", "raise", "return",
		"try", "while", "with", "yield", "self", "cls",
		"print", "len", "range", "str", "int", "float", "list", "dict", "set",
		"tuple", "bool", "type", "object", "super", "isinstance", "issubclass",
		"hasattr", "getattr", "setattr", "delattr", "open", "input",
		"enumerate", "zip", "map", "filter", "sorted", "reversed", "sum",
		"min", "max", "abs", "round", "pow", "divmod", "hex", "oct", "bin",
		"format", "repr", "hash", "id", "dir", "vars", "locals", "globals",
		"staticmethod", "classmethod", "property", "callable", "iter", "next",
		"slice", "frozenset", "bytes", "bytearray", "memoryview", "complex",
		"Exception", "BaseException", "ValueError", "TypeError", "KeyError",
		"IndexError", "AttributeError", "ImportError", "RuntimeError",
		"StopIteration", "GeneratorExit", "SystemExit", "KeyboardInterrupt",
	}
	for _, n := range names {
		reserved[n] = true
	}
}

// IsReserved reports whether a name is a Python keyword or builtin.
func IsReserved(name string) bool {
	return reserved[name]
}

// isDunder matches __name__ style identifiers.
func isDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// isConstantShaped matches ALL_CAPS names: an uppercase letter followed
// by uppercase letters, digits, and underscores.
func isConstantShaped(name string) bool {
	if name == "" || name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}

// Eligible decides whether a declaration may be renamed under the
// policy. Rules apply in priority order: dunder names are always kept;
// private names are kept when preserve_private is set; single-assignment
// constants are kept when preserve_constants is set; reserved names and
// names shadowing imports are always kept.
func Eligible(d *Decl, pol policy.Policy) bool {
	name := d.Name
	if len(name) < 2 {
		return false
	}
	if IsReserved(name) {
		return false
	}
	if isDunder(name) {
		return false
	}
	if pol.PreservePrivate && strings.HasPrefix(name, "_") && !isConstantShaped(strings.TrimLeft(name, "_")) {
		return false
	}
	if d.Role == policy.RoleConstant && pol.PreserveConstants && d.Assignments == 1 {
		return false
	}
	if d.ShadowsImport {
		return false
	}
	return true
}

// Target computes the policy-mandated spelling for a declaration.
func Target(d *Decl, pol policy.Policy) string {
	return casing.Convert(d.Name, pol.StyleFor(d.Role))
}
