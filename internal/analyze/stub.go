//go:build !cgo

package analyze

import "recase/internal/pyparse"

// Analyze builds the per-file declaration model.
// Stub for non-CGO builds; callers gate on pyparse.IsAvailable.
func Analyze(tree *pyparse.Tree) *FileAnalysis {
	return &FileAnalysis{}
}
