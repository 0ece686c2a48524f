package runner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// matcher compiles include and exclude globs once per run. Patterns
// match slash-separated paths relative to the root.
type matcher struct {
	include []glob.Glob
	exclude []glob.Glob
	ignore  map[string]bool
}

func newMatcher(include, exclude, ignore []string) (*matcher, error) {
	m := &matcher{ignore: make(map[string]bool, len(ignore))}

	for _, p := range include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		m.include = append(m.include, g)
	}
	for _, p := range exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		m.exclude = append(m.exclude, g)
	}
	for _, d := range ignore {
		m.ignore[d] = true
	}

	return m, nil
}

func (m *matcher) skipDir(name string) bool {
	if m.ignore[name] {
		return true
	}
	// Hidden directories are never descended into.
	return strings.HasPrefix(name, ".") && name != "."
}

func (m *matcher) matches(rel string) bool {
	for _, g := range m.exclude {
		if g.Match(rel) {
			return false
		}
	}
	if len(m.include) == 0 {
		return true
	}
	for _, g := range m.include {
		if g.Match(rel) {
			return true
		}
	}
	// "**/*.py" does not cover files directly under the root, so also
	// try the pattern against the bare file name.
	for _, g := range m.include {
		if g.Match("./" + rel) {
			return true
		}
	}
	return false
}

// Discover walks root and returns the relative paths of all Python
// files a run should visit, sorted for deterministic ordering.
func Discover(root string, include, exclude, ignore []string) ([]string, error) {
	m, err := newMatcher(include, exclude, ignore)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && m.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if m.matches(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}
