package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the per-repository recase configuration (v1 schema)
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Policy  PolicyConfig  `json:"policy" mapstructure:"policy"`
	Files   FilesConfig   `json:"files" mapstructure:"files"`
	Run     RunConfig     `json:"run" mapstructure:"run"`
	History HistoryConfig `json:"history" mapstructure:"history"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// PolicyConfig points at the naming policy to apply
type PolicyConfig struct {
	File   string `json:"file" mapstructure:"file"`
	Preset string `json:"preset" mapstructure:"preset"`
}

// FilesConfig controls which files a run visits
type FilesConfig struct {
	Include []string `json:"include" mapstructure:"include"`
	Exclude []string `json:"exclude" mapstructure:"exclude"`
	Ignore  []string `json:"ignore" mapstructure:"ignore"`
}

// RunConfig controls run execution
type RunConfig struct {
	Workers          int `json:"workers" mapstructure:"workers"`
	MaxFileSizeBytes int `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
}

// HistoryConfig controls the rename history store
type HistoryConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Policy: PolicyConfig{
			Preset: "python_standard",
		},
		Files: FilesConfig{
			Include: []string{"**/*.py"},
			Exclude: []string{},
			Ignore:  []string{"__pycache__", ".git", "node_modules", "vendor", ".venv", "venv"},
		},
		Run: RunConfig{
			Workers:          4,
			MaxFileSizeBytes: 1000000,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <repoRoot>/.recase/config.{json,
// yaml,toml}, falling back to defaults when no file exists. Environment
// variables prefixed RECASE_ override file values (RECASE_RUN_WORKERS
// and so on).
func LoadConfig(repoRoot string) (*Config, error) {
	return LoadConfigFrom(repoRoot, "")
}

// LoadConfigFrom is LoadConfig with an explicit config file path. When
// configPath is set the file must exist and parse.
func LoadConfigFrom(repoRoot, configPath string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("repoRoot", def.RepoRoot)
	v.SetDefault("policy.preset", def.Policy.Preset)
	v.SetDefault("files.include", def.Files.Include)
	v.SetDefault("files.ignore", def.Files.Ignore)
	v.SetDefault("run.workers", def.Run.Workers)
	v.SetDefault("run.maxFileSizeBytes", def.Run.MaxFileSizeBytes)
	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.level", def.Logging.Level)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(repoRoot, ".recase"))
	}

	v.SetEnvPrefix("RECASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if configPath != "" {
			return nil, err
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to <repoRoot>/.recase/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".recase")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Run.Workers < 1 {
		return &ConfigError{Field: "run.workers", Message: "must be at least 1"}
	}
	if c.Policy.File != "" && c.Policy.Preset != "" {
		return &ConfigError{Field: "policy", Message: "file and preset are mutually exclusive"}
	}
	switch c.Logging.Format {
	case "", "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be 'human' or 'json'"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
