package indexstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// JSONStore is a directory of *.json files, one unit per file
type JSONStore struct {
	dir string
}

// NewJSONStore returns a store reading units from dir
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

// Path returns the store directory
func (s *JSONStore) Path() string {
	return s.dir
}

// Units lists the unit files in the directory
func (s *JSONStore) Units(ctx context.Context) ([]UnitInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read index store %s: %w", s.dir, err)
	}

	var units []UnitInfo
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat unit %s: %w", e.Name(), err)
		}
		units = append(units, UnitInfo{Name: e.Name(), ModTime: info.ModTime()})
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
	return units, nil
}

// ReadUnit decodes one unit file
func (s *JSONStore) ReadUnit(ctx context.Context, info UnitInfo) (*Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, info.Name))
	if err != nil {
		return nil, fmt.Errorf("read unit %s: %w", info.Name, err)
	}

	var unit Unit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("decode unit %s: %w", info.Name, err)
	}
	if err := validateUnit(&unit); err != nil {
		return nil, fmt.Errorf("unit %s: %w", info.Name, err)
	}
	return &unit, nil
}

// WriteUnit encodes a unit into the directory under name
func (s *JSONStore) WriteUnit(name string, unit *Unit) error {
	data, err := json.MarshalIndent(unit, "", "  ")
	if err != nil {
		return fmt.Errorf("encode unit %s: %w", name, err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create index store %s: %w", s.dir, err)
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0644)
}

// Close is a no-op for directory stores
func (s *JSONStore) Close() error {
	return nil
}
