package indexstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/peripheryapp/periphery-sub003/internal/syntax"
)

// SQLiteStore reads units from a SQLite database. List-valued columns hold
// JSON arrays.
type SQLiteStore struct {
	path string
	db   *sqlx.DB
}

// OpenSQLiteStore opens an existing SQLite index store read-only. The
// database is never modified.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open sqlite index %s: %w", path, err)
	}

	db, err := sqlx.Connect("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}
	return &SQLiteStore{path: path, db: db}, nil
}

// CreateSQLiteStore opens a SQLite index store for writing, creating the
// database and its schema when missing. Used by index producers.
func CreateSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	store := &SQLiteStore{path: path, db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS units (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		module TEXT NOT NULL,
		file TEXT NOT NULL,
		comment_commands TEXT NOT NULL DEFAULT '[]',
		modified_at INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS declarations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		unit_id INTEGER NOT NULL,
		usr TEXT NOT NULL,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		line INTEGER NOT NULL,
		col INTEGER NOT NULL,
		accessibility TEXT NOT NULL DEFAULT '',
		explicit_accessibility INTEGER NOT NULL DEFAULT 0,
		parent_usr TEXT NOT NULL DEFAULT '',
		attributes TEXT NOT NULL DEFAULT '[]',
		modifiers TEXT NOT NULL DEFAULT '[]',
		inherited_types TEXT NOT NULL DEFAULT '[]',
		extended_usr TEXT NOT NULL DEFAULT '',
		declared_type TEXT NOT NULL DEFAULT '',
		implicit INTEGER NOT NULL DEFAULT 0,
		comment_commands TEXT NOT NULL DEFAULT '[]',
		FOREIGN KEY (unit_id) REFERENCES units(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS references_ (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		unit_id INTEGER NOT NULL,
		usr TEXT NOT NULL,
		kind TEXT NOT NULL,
		line INTEGER NOT NULL,
		col INTEGER NOT NULL,
		parent_usr TEXT NOT NULL DEFAULT '',
		related INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (unit_id) REFERENCES units(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS imports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		unit_id INTEGER NOT NULL,
		module TEXT NOT NULL,
		line INTEGER NOT NULL,
		col INTEGER NOT NULL,
		testable INTEGER NOT NULL DEFAULT 0,
		exported INTEGER NOT NULL DEFAULT 0,
		referenced INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (unit_id) REFERENCES units(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS functions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		unit_id INTEGER NOT NULL,
		usr TEXT NOT NULL,
		syntax TEXT NOT NULL,
		FOREIGN KEY (unit_id) REFERENCES units(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_declarations_unit ON declarations(unit_id);
	CREATE INDEX IF NOT EXISTS idx_references_unit ON references_(unit_id);
	CREATE INDEX IF NOT EXISTS idx_imports_unit ON imports(unit_id);
	CREATE INDEX IF NOT EXISTS idx_functions_unit ON functions(unit_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type unitRow struct {
	ID              int64  `db:"id"`
	Name            string `db:"name"`
	Module          string `db:"module"`
	File            string `db:"file"`
	CommentCommands string `db:"comment_commands"`
	ModifiedAt      int64  `db:"modified_at"`
}

type declarationRow struct {
	DeclarationRecord
	AttributesJSON      string `db:"attributes"`
	ModifiersJSON       string `db:"modifiers"`
	InheritedTypesJSON  string `db:"inherited_types"`
	CommentCommandsJSON string `db:"comment_commands"`
}

type functionRow struct {
	USR    string `db:"usr"`
	Syntax string `db:"syntax"`
}

// Units lists every unit, sorted by name
func (s *SQLiteStore) Units(ctx context.Context) ([]UnitInfo, error) {
	var rows []unitRow
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM units ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}

	units := make([]UnitInfo, len(rows))
	for i, r := range rows {
		units[i] = UnitInfo{Name: r.Name, ModTime: time.Unix(0, r.ModifiedAt)}
	}
	return units, nil
}

// ReadUnit loads one unit and all of its records
func (s *SQLiteStore) ReadUnit(ctx context.Context, info UnitInfo) (*Unit, error) {
	var row unitRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM units WHERE name = ?`, info.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("unit %s not found", info.Name)
		}
		return nil, fmt.Errorf("read unit %s: %w", info.Name, err)
	}

	unit := &Unit{Module: row.Module, File: row.File}
	if err := decodeList(row.CommentCommands, &unit.CommentCommands); err != nil {
		return nil, fmt.Errorf("unit %s comment commands: %w", info.Name, err)
	}

	var decls []declarationRow
	err = s.db.SelectContext(ctx, &decls, `
		SELECT usr, kind, name, line, col, accessibility, explicit_accessibility,
		       parent_usr, attributes, modifiers, inherited_types, extended_usr,
		       declared_type, implicit, comment_commands
		FROM declarations WHERE unit_id = ? ORDER BY id`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("read declarations of %s: %w", info.Name, err)
	}
	for _, d := range decls {
		rec := d.DeclarationRecord
		for _, col := range []struct {
			raw  string
			into *[]string
		}{
			{d.AttributesJSON, &rec.Attributes},
			{d.ModifiersJSON, &rec.Modifiers},
			{d.InheritedTypesJSON, &rec.InheritedTypes},
			{d.CommentCommandsJSON, &rec.CommentCommands},
		} {
			if err := decodeList(col.raw, col.into); err != nil {
				return nil, fmt.Errorf("declaration %s in %s: %w", rec.USR, info.Name, err)
			}
		}
		unit.Declarations = append(unit.Declarations, rec)
	}

	err = s.db.SelectContext(ctx, &unit.References, `
		SELECT usr, kind, line, col, parent_usr, related
		FROM references_ WHERE unit_id = ? ORDER BY id`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("read references of %s: %w", info.Name, err)
	}

	err = s.db.SelectContext(ctx, &unit.Imports, `
		SELECT module, line, col, testable, exported, referenced
		FROM imports WHERE unit_id = ? ORDER BY id`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("read imports of %s: %w", info.Name, err)
	}

	var fns []functionRow
	err = s.db.SelectContext(ctx, &fns, `SELECT usr, syntax FROM functions WHERE unit_id = ? ORDER BY id`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("read functions of %s: %w", info.Name, err)
	}
	for _, f := range fns {
		var fn syntax.Function
		if err := json.Unmarshal([]byte(f.Syntax), &fn); err != nil {
			return nil, fmt.Errorf("decode syntax of %s in %s: %w", f.USR, info.Name, err)
		}
		if fn.USR == "" {
			fn.USR = f.USR
		}
		unit.Functions = append(unit.Functions, fn)
	}

	if err := validateUnit(unit); err != nil {
		return nil, fmt.Errorf("unit %s: %w", info.Name, err)
	}
	return unit, nil
}

// WriteUnit stores a unit, replacing any unit with the same name
func (s *SQLiteStore) WriteUnit(ctx context.Context, name string, unit *Unit, modTime time.Time) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM units WHERE name = ?`, name); err != nil {
		return fmt.Errorf("replace unit %s: %w", name, err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO units (name, module, file, comment_commands, modified_at) VALUES (?, ?, ?, ?, ?)`,
		name, unit.Module, unit.File, encodeList(unit.CommentCommands), modTime.UnixNano())
	if err != nil {
		return fmt.Errorf("insert unit %s: %w", name, err)
	}
	unitID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, d := range unit.Declarations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO declarations
			(unit_id, usr, kind, name, line, col, accessibility, explicit_accessibility,
			 parent_usr, attributes, modifiers, inherited_types, extended_usr,
			 declared_type, implicit, comment_commands)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			unitID, d.USR, d.Kind, d.Name, d.Line, d.Column, d.Accessibility, d.ExplicitAccessibility,
			d.ParentUSR, encodeList(d.Attributes), encodeList(d.Modifiers), encodeList(d.InheritedTypes),
			d.ExtendedUSR, d.DeclaredType, d.Implicit, encodeList(d.CommentCommands))
		if err != nil {
			return fmt.Errorf("insert declaration %s: %w", d.USR, err)
		}
	}

	for _, r := range unit.References {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO references_ (unit_id, usr, kind, line, col, parent_usr, related)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			unitID, r.USR, r.Kind, r.Line, r.Column, r.ParentUSR, r.Related)
		if err != nil {
			return fmt.Errorf("insert reference %s: %w", r.USR, err)
		}
	}

	for _, imp := range unit.Imports {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO imports (unit_id, module, line, col, testable, exported, referenced)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			unitID, imp.Module, imp.Line, imp.Column, imp.Testable, imp.Exported, imp.Referenced)
		if err != nil {
			return fmt.Errorf("insert import %s: %w", imp.Module, err)
		}
	}

	for _, fn := range unit.Functions {
		data, err := json.Marshal(fn)
		if err != nil {
			return fmt.Errorf("encode syntax of %s: %w", fn.USR, err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO functions (unit_id, usr, syntax) VALUES (?, ?, ?)`,
			unitID, fn.USR, string(data))
		if err != nil {
			return fmt.Errorf("insert function %s: %w", fn.USR, err)
		}
	}

	return tx.Commit()
}

func encodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(values)
	return string(data)
}

func decodeList(raw string, into *[]string) error {
	if raw == "" || raw == "[]" {
		*into = nil
		return nil
	}
	return json.Unmarshal([]byte(raw), into)
}
