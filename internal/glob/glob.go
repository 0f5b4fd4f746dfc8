// Package glob matches source paths against gitignore-style patterns.
package glob

import (
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Matcher matches paths relative to a root directory
type Matcher struct {
	root     string
	patterns []string
	gi       *ignore.GitIgnore
}

// New compiles patterns. Paths given to Match are made relative to root
// when they are absolute.
func New(root string, patterns []string) *Matcher {
	m := &Matcher{root: root, patterns: patterns}
	if len(patterns) > 0 {
		m.gi = ignore.CompileIgnoreLines(patterns...)
	}
	if abs, err := filepath.Abs(root); err == nil {
		m.root = abs
	}
	return m
}

// Empty reports whether the matcher has no patterns
func (m *Matcher) Empty() bool {
	return m.gi == nil
}

// Patterns returns the patterns the matcher was built from
func (m *Matcher) Patterns() []string {
	return m.patterns
}

// Match reports whether path matches any pattern
func (m *Matcher) Match(path string) bool {
	if m.gi == nil || path == "" {
		return false
	}
	return m.gi.MatchesPath(m.Relative(path))
}

// Relative returns path relative to the matcher's root, using forward
// slashes. Paths outside the root are returned cleaned but unchanged.
func (m *Matcher) Relative(path string) string {
	if filepath.IsAbs(path) && m.root != "" {
		if rel, err := filepath.Rel(m.root, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}
