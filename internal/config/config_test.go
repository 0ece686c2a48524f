package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Policy.Preset != "python_standard" {
		t.Errorf("Policy.Preset = %q, want %q", cfg.Policy.Preset, "python_standard")
	}
	if len(cfg.Files.Include) == 0 {
		t.Error("Files.Include should have defaults")
	}
	if len(cfg.Files.Ignore) == 0 {
		t.Error("Files.Ignore should have defaults")
	}

	hasPycache := false
	for _, d := range cfg.Files.Ignore {
		if d == "__pycache__" {
			hasPycache = true
		}
	}
	if !hasPycache {
		t.Error("Files.Ignore should include __pycache__")
	}

	if cfg.Run.Workers <= 0 {
		t.Error("Run.Workers should be positive")
	}
	if cfg.Run.MaxFileSizeBytes <= 0 {
		t.Error("Run.MaxFileSizeBytes should be positive")
	}
	if !cfg.History.Enabled {
		t.Error("History should be enabled by default")
	}
	if cfg.Logging.Format != "human" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "human")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default is valid", func(c *Config) {}, false},
		{"version 0 unsupported", func(c *Config) { c.Version = 0 }, true},
		{"version 2 unsupported", func(c *Config) { c.Version = 2 }, true},
		{"zero workers", func(c *Config) { c.Run.Workers = 0 }, true},
		{"negative workers", func(c *Config) { c.Run.Workers = -1 }, true},
		{"policy file alone ok", func(c *Config) {
			c.Policy.Preset = ""
			c.Policy.File = "naming.toml"
		}, false},
		{"policy file and preset conflict", func(c *Config) {
			c.Policy.File = "naming.toml"
		}, true},
		{"json log format", func(c *Config) { c.Logging.Format = "json" }, false},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr && err == nil {
				t.Error("Validate() should return error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() returned unexpected error: %v", err)
			}

			if err != nil {
				if _, ok := err.(*ConfigError); !ok {
					t.Errorf("Validate() error type = %T, want *ConfigError", err)
				}
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{
		Field:   "run.workers",
		Message: "must be at least 1",
	}

	got := err.Error()
	want := "config error in field 'run.workers': must be at least 1"

	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLoadConfig_Default(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	// Should return default config when no config file exists
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1 (default)", cfg.Version)
	}
	if cfg.Run.Workers != 4 {
		t.Errorf("Run.Workers = %d, want 4 (default)", cfg.Run.Workers)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	recaseDir := filepath.Join(tmpDir, ".recase")
	if err := os.MkdirAll(recaseDir, 0755); err != nil {
		t.Fatalf("Failed to create .recase dir: %v", err)
	}

	configContent := `{
		"version": 1,
		"policy": {"file": "naming.toml", "preset": ""},
		"run": {"workers": 8},
		"history": {"enabled": false}
	}`

	configPath := filepath.Join(recaseDir, "config.json")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Policy.File != "naming.toml" {
		t.Errorf("Policy.File = %q, want %q", cfg.Policy.File, "naming.toml")
	}
	if cfg.Run.Workers != 8 {
		t.Errorf("Run.Workers = %d, want 8", cfg.Run.Workers)
	}
	if cfg.History.Enabled {
		t.Error("History should be disabled per config")
	}
	// Absent sections keep defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q (default)", cfg.Logging.Level, "info")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()

	os.Setenv("RECASE_RUN_WORKERS", "16")
	defer os.Unsetenv("RECASE_RUN_WORKERS")

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Run.Workers != 16 {
		t.Errorf("Run.Workers = %d, want 16 (from env override)", cfg.Run.Workers)
	}
}

func TestLoadConfigFrom_ExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.yaml")

	content := "version: 1\nrun:\n  workers: 3\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfigFrom(tmpDir, configPath)
	if err != nil {
		t.Fatalf("LoadConfigFrom() error = %v", err)
	}
	if cfg.Run.Workers != 3 {
		t.Errorf("Run.Workers = %d, want 3", cfg.Run.Workers)
	}
}

func TestLoadConfigFrom_MissingExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadConfigFrom(tmpDir, filepath.Join(tmpDir, "absent.json")); err == nil {
		t.Error("LoadConfigFrom() should fail for a missing explicit path")
	}
}

func TestConfig_Save(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Run.Workers = 2

	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	configPath := filepath.Join(tmpDir, ".recase", "config.json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() after save error = %v", err)
	}

	if loaded.Run.Workers != 2 {
		t.Errorf("Loaded Run.Workers = %d, want 2", loaded.Run.Workers)
	}
}
