package main

import (
	"github.com/spf13/cobra"

	"recase/internal/runner"
)

var (
	checkFormat string
	checkExport string
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Report naming violations without modifying any file",
	Long: `Check parses every Python file under the root, plans renames against
the active naming policy, and reports what an apply would change.

Exit codes: 0 when everything conforms, 2 when renames are pending,
1 on failures.

Examples:
  recase check
  recase check ./service --preset java_style
  recase check --format=json --export report.json.zst`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "human", "Output format (human, json)")
	checkCmd.Flags().StringVar(&checkExport, "export", "", "Write the JSON report to a file (.zst compresses)")
	checkCmd.Flags().IntVar(&workersFlag, "workers", 0, "Worker count (0 uses the configured value)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	if len(args) == 1 {
		rootFlag = args[0]
	}
	executeRun(runner.ModeCheck, checkFormat, checkExport, false)
}
