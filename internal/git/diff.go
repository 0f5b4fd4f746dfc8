package git

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// LineRange is an inclusive range of 1-based line numbers
type LineRange struct {
	Start int
	End   int
}

// ChangeSet holds the added or modified lines of each changed file, keyed
// by path relative to Root. Prefix is the working directory relative to
// Root; relative paths given to Contains are resolved against it.
type ChangeSet struct {
	Root   string
	Prefix string
	Files  map[string][]LineRange
}

// ParseChangedLines extracts the new-side line ranges touched by a unified
// diff. Deleted files contribute nothing; pure deletions inside a file
// contribute nothing either, since no current line carries them.
func ParseChangedLines(root string, diffText []byte) (*ChangeSet, error) {
	fileDiffs, err := diff.NewMultiFileDiffReader(bytes.NewReader(diffText)).ReadAllFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	cs := &ChangeSet{Root: root, Files: make(map[string][]LineRange)}
	for _, fd := range fileDiffs {
		name := diffPath(fd.NewName)
		if name == "" {
			continue
		}
		var lines []int
		for _, h := range fd.Hunks {
			lines = append(lines, addedLines(h)...)
		}
		if len(lines) > 0 {
			cs.Files[name] = append(cs.Files[name], collapse(lines)...)
		}
	}
	return cs, nil
}

// diffPath strips the b/ prefix git puts on new-side names. /dev/null means
// the file was deleted.
func diffPath(name string) string {
	if name == "" || name == "/dev/null" {
		return ""
	}
	return strings.TrimPrefix(name, "b/")
}

func addedLines(h *diff.Hunk) []int {
	var out []int
	line := int(h.NewStartLine)
	for _, l := range strings.Split(strings.TrimSuffix(string(h.Body), "\n"), "\n") {
		if l == "" {
			line++
			continue
		}
		switch l[0] {
		case '+':
			out = append(out, line)
			line++
		case ' ':
			line++
		}
	}
	return out
}

func collapse(lines []int) []LineRange {
	sort.Ints(lines)
	var out []LineRange
	for _, l := range lines {
		if n := len(out); n > 0 && l <= out[n-1].End+1 {
			if l > out[n-1].End {
				out[n-1].End = l
			}
			continue
		}
		out = append(out, LineRange{Start: l, End: l})
	}
	return out
}

// Contains reports whether line of file was added or modified. Absolute
// paths are made relative to the repository root, relative paths are taken
// to be relative to the working directory.
func (c *ChangeSet) Contains(file string, line int) bool {
	for _, r := range c.Files[c.relative(file)] {
		if line >= r.Start && line <= r.End {
			return true
		}
	}
	return false
}

// ChangedFiles returns the changed paths in sorted order
func (c *ChangeSet) ChangedFiles() []string {
	out := make([]string, 0, len(c.Files))
	for f := range c.Files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (c *ChangeSet) relative(file string) string {
	switch {
	case filepath.IsAbs(file):
		if c.Root != "" {
			if rel, err := filepath.Rel(c.Root, file); err == nil && !strings.HasPrefix(rel, "..") {
				file = rel
			}
		}
	case c.Prefix != "":
		file = filepath.Join(filepath.FromSlash(c.Prefix), file)
	}
	return filepath.ToSlash(filepath.Clean(file))
}
