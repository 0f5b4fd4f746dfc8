// Package baseline reads and writes the set of accepted result identifiers.
package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/peripheryapp/periphery-sub003/internal/errors"
	"github.com/peripheryapp/periphery-sub003/internal/results"
)

// Baseline is an immutable set of result identifiers to suppress
type Baseline struct {
	usrs map[string]struct{}
}

type fileV1 struct {
	USRs []string `json:"usrs"`
}

type file struct {
	V1 *fileV1 `json:"v1"`
}

// New builds a baseline from identifiers
func New(usrs []string) *Baseline {
	b := &Baseline{usrs: make(map[string]struct{}, len(usrs))}
	for _, u := range usrs {
		b.usrs[u] = struct{}{}
	}
	return b
}

// FromResults builds a baseline accepting every given result
func FromResults(rs []results.ScanResult) *Baseline {
	var usrs []string
	for _, r := range rs {
		usrs = append(usrs, r.USRs...)
	}
	return New(usrs)
}

// Load reads a baseline file
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileSystemErrorf(err, "failed to read baseline %s", path).
			WithHint("create one with --write-baseline")
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.ConfigErrorf("malformed baseline %s: %v", path, err)
	}
	if f.V1 == nil {
		return nil, errors.ConfigErrorf("unsupported baseline version in %s", path).
			WithHint("regenerate the baseline with --write-baseline")
	}
	return New(f.V1.USRs), nil
}

// Write saves the baseline with identifiers in sorted order
func (b *Baseline) Write(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.FileSystemErrorf(err, "failed to create baseline directory %s", dir)
		}
	}

	data, err := json.MarshalIndent(file{V1: &fileV1{USRs: b.USRs()}}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode baseline: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.FileSystemErrorf(err, "failed to write baseline %s", path)
	}
	return nil
}

// USRs returns the identifiers in sorted order
func (b *Baseline) USRs() []string {
	out := make([]string, 0, len(b.usrs))
	for u := range b.usrs {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of identifiers
func (b *Baseline) Len() int {
	return len(b.usrs)
}

// Contains reports whether any of the result's identifiers is accepted
func (b *Baseline) Contains(r results.ScanResult) bool {
	for _, u := range r.USRs {
		if _, ok := b.usrs[u]; ok {
			return true
		}
	}
	return false
}
