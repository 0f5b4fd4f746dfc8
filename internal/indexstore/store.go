package indexstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store lists and decodes index units
type Store interface {
	// Path is the location the store was opened from
	Path() string
	// Units lists the units in the store, sorted by name
	Units(ctx context.Context) ([]UnitInfo, error)
	// ReadUnit decodes a single unit
	ReadUnit(ctx context.Context, info UnitInfo) (*Unit, error)
	Close() error
}

var sqliteExtensions = map[string]bool{
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
}

// Open picks the store implementation from the path: a directory is a JSON
// unit store, a .db/.sqlite/.sqlite3 file is a SQLite store.
func Open(path string) (Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("index store %s: %w", path, err)
	}

	if info.IsDir() {
		return NewJSONStore(path), nil
	}
	if sqliteExtensions[strings.ToLower(filepath.Ext(path))] {
		return OpenSQLiteStore(path)
	}
	return nil, fmt.Errorf("index store %s: not a directory or SQLite database", path)
}

func validateUnit(u *Unit) error {
	if u.File == "" {
		return fmt.Errorf("unit has no file")
	}
	if u.Module == "" {
		return fmt.Errorf("unit for %s has no module", u.File)
	}
	for i, d := range u.Declarations {
		if d.USR == "" || d.Kind == "" {
			return fmt.Errorf("declaration %d in %s is missing usr or kind", i, u.File)
		}
	}
	return nil
}
