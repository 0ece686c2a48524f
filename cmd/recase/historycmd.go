package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"recase/internal/history"
	"recase/internal/slogutil"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List past runs or show one run's renames",
	Long: `History reads the per-repository run database at .recase/history.db.
Without arguments it lists recent runs, newest first. With a run id it
prints every rename that run applied.

Examples:
  recase history
  recase history --limit 5
  recase history 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	repoRoot := mustGetRepoRoot()

	store, err := history.Open(filepath.Join(repoRoot, ".recase"), slogutil.NewDiscardLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: history unavailable: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	if len(args) == 1 {
		showRun(store, args[0])
		return
	}

	runs, err := store.ListRuns(historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return
	}

	for _, run := range runs {
		fmt.Printf("%s  %s  %-5s  %d files changed, %d renames, %d collisions\n",
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Mode,
			run.FilesChanged,
			run.Renames,
			run.Collisions,
		)
	}
}

func showRun(store *history.Store, id string) {
	run, err := store.GetRun(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "Error: run not found: %s\n", id)
		os.Exit(1)
	}

	fmt.Printf("run %s (%s) on %s\n", run.ID, run.Mode, run.Root)
	fmt.Printf("started %s, policy %s\n", run.StartedAt.Local().Format(time.DateTime), run.PolicyFingerprint)
	fmt.Printf("%d files scanned, %d changed, %d renames, %d collisions, %d failures\n\n",
		run.FilesScanned, run.FilesChanged, run.Renames, run.Collisions, run.Failures)

	renames, err := store.ListRenames(run.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, r := range renames {
		fmt.Printf("  %s: %s %s -> %s (%d occurrences)\n",
			r.File, r.Role, r.Original, r.Target, r.Occurrences)
	}
}
