package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"recase/internal/config"
	"recase/internal/policy"
	"recase/internal/slogutil"
	"recase/internal/version"
)

var (
	rootFlag      string
	configFlag    string
	logLevelFlag  string
	logFormatFlag string
	policyFlag    string
	presetFlag    string
	workersFlag   int
)

var rootCmd = &cobra.Command{
	Use:   "recase",
	Short: "recase - identifier naming retrofit for Python codebases",
	Long: `recase parses Python sources, classifies every identifier by role
(class, function, method, argument, variable, attribute, constant), and
rewrites declarations and all their in-file references to match a naming
policy. Strings, comments, imports, and dunder names are never touched.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("recase version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "Repository root to operate on")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default <root>/.recase/config.{json,yaml,toml})")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format: human or json")
	rootCmd.PersistentFlags().StringVar(&policyFlag, "policy", "", "Path to a naming policy file (toml, yaml, or json)")
	rootCmd.PersistentFlags().StringVar(&presetFlag, "preset", "", "Built-in policy preset name")
}

// mustGetRepoRoot resolves --root to an absolute path.
func mustGetRepoRoot() string {
	abs, err := filepath.Abs(rootFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot resolve root %q: %v\n", rootFlag, err)
		os.Exit(1)
	}
	return abs
}

// mustLoadConfig loads the repository config and applies CLI overrides.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.LoadConfigFrom(repoRoot, configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	if logFormatFlag != "" {
		cfg.Logging.Format = logFormatFlag
	}
	if policyFlag != "" {
		cfg.Policy.File = policyFlag
		cfg.Policy.Preset = ""
	}
	if presetFlag != "" {
		cfg.Policy.Preset = presetFlag
		cfg.Policy.File = ""
	}
	if workersFlag > 0 {
		cfg.Run.Workers = workersFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slogutil.Default(cfg.Logging.Level, cfg.Logging.Format)
}

// mustResolvePolicy builds the effective policy from config and flags.
// Relative policy file paths resolve against the repository root.
func mustResolvePolicy(repoRoot string, cfg *config.Config) policy.Policy {
	file := cfg.Policy.File
	if file != "" && !filepath.IsAbs(file) {
		file = filepath.Join(repoRoot, file)
	}
	pol, err := policy.Resolve(file, cfg.Policy.Preset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return pol
}
