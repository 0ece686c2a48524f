// Package runner drives the rename pipeline across a repository:
// discovery, a bounded worker pool, and atomic write-back.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"recase/internal/engine"
	recaseerrors "recase/internal/errors"
	"recase/internal/policy"
	"recase/internal/report"
)

// Mode selects whether a run writes files back.
const (
	ModeCheck = "check"
	ModeApply = "apply"
)

// Options configures a run.
type Options struct {
	Root             string
	Mode             string
	Workers          int
	Include          []string
	Exclude          []string
	Ignore           []string
	MaxFileSizeBytes int
	Policy           policy.Policy
	Logger           *slog.Logger
}

// Runner executes check and apply runs.
type Runner struct {
	opts Options
}

// New validates options and returns a runner.
func New(opts Options) (*Runner, error) {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Mode != ModeCheck && opts.Mode != ModeApply {
		return nil, fmt.Errorf("unknown run mode %q", opts.Mode)
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}
	return &Runner{opts: opts}, nil
}

// Run discovers files and processes them with a pool of workers. Each
// worker owns one engine instance since parsers are not safe for
// concurrent use. Per-file failures are recorded in the summary, not
// returned; only setup errors abort the run.
func (r *Runner) Run(ctx context.Context) (*report.Summary, error) {
	files, err := Discover(r.opts.Root, r.opts.Include, r.opts.Exclude, r.opts.Ignore)
	if err != nil {
		return nil, err
	}

	r.opts.Logger.Info("starting run",
		"mode", r.opts.Mode,
		"root", r.opts.Root,
		"files", len(files),
		"workers", r.opts.Workers,
	)

	summary := &report.Summary{
		Root:              r.opts.Root,
		Mode:              r.opts.Mode,
		PolicyFingerprint: r.opts.Policy.Fingerprint(),
		Generated:         time.Now().UTC(),
	}

	jobs := make(chan string)
	results := make(chan report.FileReport)

	workers := r.opts.Workers
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eng, err := engine.New()
			if err != nil {
				for rel := range jobs {
					results <- report.FileReport{Path: rel, Error: err.Error()}
				}
				return
			}
			defer eng.Close()
			for rel := range jobs {
				results <- r.processFile(ctx, eng, rel)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, rel := range files {
			select {
			case jobs <- rel:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for fr := range results {
		summary.Add(fr)
	}
	summary.Sort()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.opts.Logger.Info("run finished",
		"scanned", summary.FilesScanned,
		"changed", summary.FilesChanged,
		"renames", summary.TotalRenames,
		"collisions", summary.TotalCollisions,
		"failures", summary.Failures,
	)

	return summary, nil
}

func (r *Runner) processFile(ctx context.Context, eng *engine.Engine, rel string) report.FileReport {
	fr := report.FileReport{Path: rel}
	abs := filepath.Join(r.opts.Root, rel)

	info, err := os.Stat(abs)
	if err != nil {
		fr.Error = err.Error()
		return fr
	}
	if r.opts.MaxFileSizeBytes > 0 && info.Size() > int64(r.opts.MaxFileSizeBytes) {
		r.opts.Logger.Debug("skipping oversized file", "path", rel, "size", info.Size())
		return fr
	}

	source, err := os.ReadFile(abs)
	if err != nil {
		fr.Error = err.Error()
		return fr
	}

	res, err := eng.Rewrite(ctx, source, r.opts.Policy)
	if err != nil {
		fr.Error = err.Error()
		return fr
	}

	fr.Changed = res.Changed
	fr.Unresolved = res.Unresolved
	for _, e := range res.Renames {
		fr.Renames = append(fr.Renames, report.RenameItem{
			Role:        string(e.Role),
			Original:    e.Original,
			Target:      e.Target,
			Occurrences: len(e.Spans),
		})
	}
	for _, c := range res.Collisions {
		fr.Collisions = append(fr.Collisions, c.String())
	}

	if r.opts.Mode == ModeApply && res.Changed {
		if err := writeAtomic(abs, res.Text, info.Mode()); err != nil {
			fr.Error = recaseerrors.NewFileError(recaseerrors.WriteFailed, err.Error(), rel, nil, err).Error()
			fr.Changed = false
			fr.Renames = nil
			return fr
		}
		r.opts.Logger.Debug("rewrote file", "path", rel, "renames", len(fr.Renames))
	}

	return fr
}

// writeAtomic writes via a temp file in the same directory followed by
// a rename, so a crash never leaves a half-written source file.
func writeAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".recase-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
