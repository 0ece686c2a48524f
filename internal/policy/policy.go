// Package policy defines the per-role naming configuration consumed by
// the classifier and the rename planner.
package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"recase/internal/casing"
)

// Role is the syntactic category of an identifier declaration.
type Role string

const (
	RoleClass     Role = "class"
	RoleFunction  Role = "function"
	RoleMethod    Role = "method"
	RoleArgument  Role = "argument"
	RoleVariable  Role = "variable"
	RoleAttribute Role = "attribute"
	RoleConstant  Role = "constant"
)

// Roles lists every role in a stable order.
var Roles = []Role{
	RoleClass, RoleFunction, RoleMethod, RoleArgument,
	RoleVariable, RoleAttribute, RoleConstant,
}

// Policy maps each identifier role to a target naming style. A Policy is
// immutable for the duration of a run and is passed by value into every
// classification and transform call; per-file pipelines can therefore
// run concurrently without synchronization.
type Policy struct {
	Variables  casing.Style `json:"variables" yaml:"variables" toml:"variables" mapstructure:"variables"`
	Functions  casing.Style `json:"functions" yaml:"functions" toml:"functions" mapstructure:"functions"`
	Classes    casing.Style `json:"classes" yaml:"classes" toml:"classes" mapstructure:"classes"`
	Methods    casing.Style `json:"methods" yaml:"methods" toml:"methods" mapstructure:"methods"`
	Arguments  casing.Style `json:"arguments" yaml:"arguments" toml:"arguments" mapstructure:"arguments"`
	Attributes casing.Style `json:"attributes" yaml:"attributes" toml:"attributes" mapstructure:"attributes"`
	Constants  casing.Style `json:"constants" yaml:"constants" toml:"constants" mapstructure:"constants"`

	// PreservePrivate keeps single-leading-underscore names untouched.
	PreservePrivate bool `json:"preserve_private" yaml:"preserve_private" toml:"preserve_private" mapstructure:"preserve_private"`
	// PreserveConstants keeps ALL_CAPS module/class-level names untouched.
	PreserveConstants bool `json:"preserve_constants" yaml:"preserve_constants" toml:"preserve_constants" mapstructure:"preserve_constants"`
}

// Default returns the default policy: snake_case data, camelCase
// callables, PascalCase classes, both preserve flags on.
func Default() Policy {
	return Policy{
		Variables:         casing.Snake,
		Functions:         casing.Camel,
		Classes:           casing.Pascal,
		Methods:           casing.Camel,
		Arguments:         casing.Snake,
		Attributes:        casing.Snake,
		Constants:         casing.ScreamingSnake,
		PreservePrivate:   true,
		PreserveConstants: true,
	}
}

// StyleFor returns the configured style for a role.
func (p Policy) StyleFor(role Role) casing.Style {
	switch role {
	case RoleClass:
		return p.Classes
	case RoleFunction:
		return p.Functions
	case RoleMethod:
		return p.Methods
	case RoleArgument:
		return p.Arguments
	case RoleAttribute:
		return p.Attributes
	case RoleConstant:
		return p.Constants
	}
	return p.Variables
}

// Validate checks that every configured style is one of the supported
// conventions, naming the offending key in the error.
func (p Policy) Validate() error {
	fields := []struct {
		key   string
		style casing.Style
	}{
		{"variables", p.Variables},
		{"functions", p.Functions},
		{"classes", p.Classes},
		{"methods", p.Methods},
		{"arguments", p.Arguments},
		{"attributes", p.Attributes},
		{"constants", p.Constants},
	}
	for _, f := range fields {
		if _, err := casing.ParseStyle(string(f.style)); err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
	}
	return nil
}

// Fingerprint returns a stable hash of the policy, used to tag history
// records so runs under different policies are distinguishable.
func (p Policy) Fingerprint() string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// Preset returns one of the named built-in policies.
func Preset(name string) (Policy, bool) {
	switch name {
	case "python_standard":
		return Policy{
			Variables:         casing.Snake,
			Functions:         casing.Snake,
			Classes:           casing.Pascal,
			Methods:           casing.Snake,
			Arguments:         casing.Snake,
			Attributes:        casing.Snake,
			Constants:         casing.ScreamingSnake,
			PreservePrivate:   true,
			PreserveConstants: true,
		}, true
	case "java_style":
		return Policy{
			Variables:         casing.Camel,
			Functions:         casing.Camel,
			Classes:           casing.Pascal,
			Methods:           casing.Camel,
			Arguments:         casing.Camel,
			Attributes:        casing.Camel,
			Constants:         casing.ScreamingSnake,
			PreservePrivate:   true,
			PreserveConstants: true,
		}, true
	case "mixed_style":
		return Default(), true
	}
	return Policy{}, false
}

// PresetNames lists the built-in preset names.
func PresetNames() []string {
	return []string{"python_standard", "java_style", "mixed_style"}
}
