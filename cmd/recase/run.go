package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"recase/internal/history"
	"recase/internal/report"
	"recase/internal/runner"
)

// executeRun is the shared body of the check and apply commands.
func executeRun(mode, format, output string, noHistory bool) {
	repoRoot := mustGetRepoRoot()
	cfg := mustLoadConfig(repoRoot)
	logger := newLogger(cfg)
	pol := mustResolvePolicy(repoRoot, cfg)

	r, err := runner.New(runner.Options{
		Root:             repoRoot,
		Mode:             mode,
		Workers:          cfg.Run.Workers,
		Include:          cfg.Files.Include,
		Exclude:          cfg.Files.Exclude,
		Ignore:           cfg.Files.Ignore,
		MaxFileSizeBytes: cfg.Run.MaxFileSizeBytes,
		Policy:           pol,
		Logger:           logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	summary, err := r.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.History.Enabled && !noHistory {
		recordRun(repoRoot, mode, logger, summary)
	}

	switch format {
	case "json":
		if err := report.WriteJSON(os.Stdout, summary); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Print(report.FormatText(summary))
	}

	if output != "" {
		if err := report.Export(output, summary); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("exported report", "path", output)
	}

	if summary.Failures > 0 {
		os.Exit(1)
	}
	if mode == runner.ModeCheck && summary.FilesChanged > 0 {
		os.Exit(2)
	}
}

// recordRun persists the run and, for applies, its renames. History
// failures are logged and do not fail the run itself.
func recordRun(repoRoot, mode string, logger *slog.Logger, summary *report.Summary) {
	store, err := history.Open(filepath.Join(repoRoot, ".recase"), logger)
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	run, err := store.BeginRun(repoRoot, mode, summary.PolicyFingerprint)
	if err != nil {
		logger.Warn("failed to record run", "error", err)
		return
	}
	summary.RunID = run.ID

	if mode == runner.ModeApply {
		var renames []history.Rename
		for _, fr := range summary.Files {
			for _, item := range fr.Renames {
				renames = append(renames, history.Rename{
					RunID:       run.ID,
					File:        fr.Path,
					Role:        item.Role,
					Original:    item.Original,
					Target:      item.Target,
					Occurrences: item.Occurrences,
				})
			}
		}
		if err := store.RecordRenames(renames); err != nil {
			logger.Warn("failed to record renames", "error", err)
		}
	}

	run.FilesScanned = summary.FilesScanned
	run.FilesChanged = summary.FilesChanged
	run.Renames = summary.TotalRenames
	run.Collisions = summary.TotalCollisions
	run.Unresolved = summary.TotalUnresolved
	run.Failures = summary.Failures
	if err := store.FinishRun(run); err != nil {
		logger.Warn("failed to finish run", "error", err)
	}
}
