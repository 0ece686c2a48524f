// Package report renders the outcome of a run for terminals, JSON
// consumers, and compressed archive export.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// RenameItem is one applied (or planned) rename in a file.
type RenameItem struct {
	Role        string `json:"role"`
	Original    string `json:"original"`
	Target      string `json:"target"`
	Occurrences int    `json:"occurrences"`
}

// FileReport is the outcome for a single file.
type FileReport struct {
	Path       string       `json:"path"`
	Changed    bool         `json:"changed"`
	Renames    []RenameItem `json:"renames,omitempty"`
	Collisions []string     `json:"collisions,omitempty"`
	Unresolved int          `json:"unresolved,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// Summary aggregates a whole run.
type Summary struct {
	Root              string       `json:"root"`
	Mode              string       `json:"mode"`
	RunID             string       `json:"runId,omitempty"`
	PolicyFingerprint string       `json:"policyFingerprint"`
	Generated         time.Time    `json:"generated"`
	FilesScanned      int          `json:"filesScanned"`
	FilesChanged      int          `json:"filesChanged"`
	TotalRenames      int          `json:"totalRenames"`
	TotalCollisions   int          `json:"totalCollisions"`
	TotalUnresolved   int          `json:"totalUnresolved"`
	Failures          int          `json:"failures"`
	Files             []FileReport `json:"files"`
}

// Add folds one file outcome into the summary counters.
func (s *Summary) Add(fr FileReport) {
	s.Files = append(s.Files, fr)
	s.FilesScanned++
	if fr.Changed {
		s.FilesChanged++
	}
	s.TotalRenames += len(fr.Renames)
	s.TotalCollisions += len(fr.Collisions)
	s.TotalUnresolved += fr.Unresolved
	if fr.Error != "" {
		s.Failures++
	}
}

// Sort orders file reports by path for stable output regardless of
// worker completion order.
func (s *Summary) Sort() {
	sort.Slice(s.Files, func(i, j int) bool {
		return s.Files[i].Path < s.Files[j].Path
	})
}

// FormatText renders a human-readable run report.
func FormatText(s *Summary) string {
	var sb strings.Builder

	verb := "would rename"
	if s.Mode == "apply" {
		verb = "renamed"
	}

	for _, fr := range s.Files {
		if fr.Error != "" {
			sb.WriteString(fmt.Sprintf("%s: error: %s\n", fr.Path, fr.Error))
			continue
		}
		if !fr.Changed && len(fr.Collisions) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s:\n", fr.Path))
		for _, r := range fr.Renames {
			sb.WriteString(fmt.Sprintf("  %s %s %s -> %s (%d occurrences)\n",
				verb, r.Role, r.Original, r.Target, r.Occurrences))
		}
		for _, c := range fr.Collisions {
			sb.WriteString(fmt.Sprintf("  collision: %s\n", c))
		}
	}

	sb.WriteString(fmt.Sprintf("\n%d files scanned, %d changed, %d renames, %d collisions",
		s.FilesScanned, s.FilesChanged, s.TotalRenames, s.TotalCollisions))
	if s.TotalUnresolved > 0 {
		sb.WriteString(fmt.Sprintf(", %d unresolved references", s.TotalUnresolved))
	}
	if s.Failures > 0 {
		sb.WriteString(fmt.Sprintf(", %d failures", s.Failures))
	}
	sb.WriteString("\n")

	return sb.String()
}

// WriteJSON writes the summary as indented JSON.
func WriteJSON(w io.Writer, s *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Export writes the JSON summary to a file. Paths ending in .zst are
// zstd-compressed on the way out.
func Export(path string, s *Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	var w io.Writer = f
	var enc *zstd.Encoder
	if filepath.Ext(path) == ".zst" {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		w = enc
	}

	if err := WriteJSON(w, s); err != nil {
		if enc != nil {
			_ = enc.Close()
		}
		_ = f.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}

	if enc != nil {
		if err := enc.Close(); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to finish zstd stream: %w", err)
		}
	}
	return f.Close()
}

// ReadExport loads a summary written by Export, transparently
// decompressing .zst files.
func ReadExport(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if filepath.Ext(path) == ".zst" {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var s Summary
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	return &s, nil
}
