package main

import (
	"github.com/spf13/cobra"

	"recase/internal/runner"
)

var (
	applyFormat    string
	applyExport    string
	applyNoHistory bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [path]",
	Short: "Rewrite files to conform to the naming policy",
	Long: `Apply runs the same analysis as check and writes the rewritten files
back in place. Writes are atomic per file; a file either rewrites
completely or keeps its original text. Applied renames are recorded in
the run history unless disabled.

Examples:
  recase apply
  recase apply ./service --policy naming.toml
  recase apply --no-history --format=json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyFormat, "format", "human", "Output format (human, json)")
	applyCmd.Flags().StringVar(&applyExport, "export", "", "Write the JSON report to a file (.zst compresses)")
	applyCmd.Flags().BoolVar(&applyNoHistory, "no-history", false, "Skip recording this run in history")
	applyCmd.Flags().IntVar(&workersFlag, "workers", 0, "Worker count (0 uses the configured value)")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) {
	if len(args) == 1 {
		rootFlag = args[0]
	}
	executeRun(runner.ModeApply, applyFormat, applyExport, applyNoHistory)
}
