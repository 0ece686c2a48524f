package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"recase/internal/policy"
)

var (
	policyShowFormat string
	policyInitPath   string
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and scaffold naming policies",
}

var policyShowCmd = &cobra.Command{
	Use:   "show [preset]",
	Short: "Print the effective naming policy",
	Long: `Show resolves the policy the same way check and apply do: the
--policy flag, then the --preset flag, then the repository config, then
the python_standard defaults. Naming a preset prints that preset
directly.

Examples:
  recase policy show
  recase policy show java_style
  recase policy show --format=json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPolicyShow,
}

var policyInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a naming policy file to edit",
	Long: `Init writes the effective policy as a TOML file, ready to tweak and
point at with --policy or the repository config.

Examples:
  recase policy init
  recase policy init --preset mixed_style --out naming.toml`,
	Args: cobra.NoArgs,
	Run:  runPolicyInit,
}

func init() {
	policyShowCmd.Flags().StringVar(&policyShowFormat, "format", "toml", "Output format (toml, json)")
	policyInitCmd.Flags().StringVar(&policyInitPath, "out", ".recase-policy.toml", "Destination file")
	policyCmd.AddCommand(policyShowCmd)
	policyCmd.AddCommand(policyInitCmd)
	rootCmd.AddCommand(policyCmd)
}

func resolveEffectivePolicy() policy.Policy {
	repoRoot := mustGetRepoRoot()
	cfg := mustLoadConfig(repoRoot)
	return mustResolvePolicy(repoRoot, cfg)
}

func runPolicyShow(cmd *cobra.Command, args []string) {
	var pol policy.Policy
	if len(args) == 1 {
		var ok bool
		pol, ok = policy.Preset(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown preset %q (available: %s)\n",
				args[0], strings.Join(policy.PresetNames(), ", "))
			os.Exit(1)
		}
	} else {
		pol = resolveEffectivePolicy()
	}

	switch policyShowFormat {
	case "json":
		data, err := json.MarshalIndent(pol, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	case "toml":
		data, err := gotoml.Marshal(pol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", policyShowFormat)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "fingerprint: %s\n", pol.Fingerprint())
}

func runPolicyInit(cmd *cobra.Command, args []string) {
	pol := resolveEffectivePolicy()

	out := policyInitPath
	if !filepath.IsAbs(out) {
		out = filepath.Join(mustGetRepoRoot(), out)
	}

	if _, err := os.Stat(out); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", out)
		os.Exit(1)
	}

	if err := policy.WriteTOML(out, pol); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s\n", out)
	fmt.Printf("presets available: %s\n", strings.Join(policy.PresetNames(), ", "))
}
