package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// jsonFile mirrors the JSON layout older configurations used, where the
// policy sits under a "naming_preferences" key. A flat document is also
// accepted.
type jsonFile struct {
	NamingPreferences json.RawMessage `json:"naming_preferences"`
}

// Load reads a policy file, dispatching on extension: .toml, .yaml/.yml,
// or .json. Fields not present keep their defaults. The loaded policy is
// validated before being returned.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}

	p := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &p); err != nil {
			return Policy{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Policy{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	case ".json":
		var wrapped jsonFile
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return Policy{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		doc := data
		if len(wrapped.NamingPreferences) > 0 {
			doc = wrapped.NamingPreferences
		}
		if err := json.Unmarshal(doc, &p); err != nil {
			return Policy{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	default:
		return Policy{}, fmt.Errorf("unsupported policy file extension %q (want .toml, .yaml, or .json)", filepath.Ext(path))
	}

	if err := p.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid policy in %s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// WriteTOML writes the policy as a TOML document, the format `recase
// policy init` emits as a starting point.
func WriteTOML(path string, p Policy) error {
	data, err := gotoml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode policy: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write policy file: %w", err)
	}
	return nil
}

// Resolve picks the effective policy for a run: an explicit file wins,
// then a named preset, then the default.
func Resolve(file, preset string) (Policy, error) {
	if file != "" {
		return Load(file)
	}
	if preset != "" {
		p, ok := Preset(preset)
		if !ok {
			return Policy{}, fmt.Errorf("unknown preset %q (have: %s)", preset, strings.Join(PresetNames(), ", "))
		}
		return p, nil
	}
	return Default(), nil
}
