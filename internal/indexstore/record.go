// Package indexstore reads the per-file index units produced by the
// external indexer. A unit describes one source file of one module.
package indexstore

import (
	"time"

	"github.com/peripheryapp/periphery-sub003/internal/syntax"
)

// UnitInfo identifies a unit within a store
type UnitInfo struct {
	Name    string
	ModTime time.Time
}

// Unit is everything the indexer recorded for one source file
type Unit struct {
	Module          string              `json:"module"`
	File            string              `json:"file"`
	CommentCommands []string            `json:"comment_commands,omitempty"`
	Declarations    []DeclarationRecord `json:"declarations"`
	References      []ReferenceRecord   `json:"references"`
	Imports         []ImportRecord      `json:"imports"`
	Functions       []syntax.Function   `json:"functions"`
}

// DeclarationRecord is one declaration occurrence
type DeclarationRecord struct {
	USR                   string   `json:"usr" db:"usr"`
	Kind                  string   `json:"kind" db:"kind"`
	Name                  string   `json:"name" db:"name"`
	Line                  int      `json:"line" db:"line"`
	Column                int      `json:"column" db:"col"`
	Accessibility         string   `json:"accessibility,omitempty" db:"accessibility"`
	ExplicitAccessibility bool     `json:"explicit_accessibility,omitempty" db:"explicit_accessibility"`
	ParentUSR             string   `json:"parent_usr,omitempty" db:"parent_usr"`
	Attributes            []string `json:"attributes,omitempty" db:"-"`
	Modifiers             []string `json:"modifiers,omitempty" db:"-"`
	InheritedTypes        []string `json:"inherited_types,omitempty" db:"-"`
	ExtendedUSR           string   `json:"extended_usr,omitempty" db:"extended_usr"`
	DeclaredType          string   `json:"declared_type,omitempty" db:"declared_type"`
	Implicit              bool     `json:"implicit,omitempty" db:"implicit"`
	CommentCommands       []string `json:"comment_commands,omitempty" db:"-"`
}

// ReferenceRecord is one use of a symbol. An empty ParentUSR means the use
// sits in top-level code.
type ReferenceRecord struct {
	USR       string `json:"usr" db:"usr"`
	Kind      string `json:"kind" db:"kind"`
	Line      int    `json:"line" db:"line"`
	Column    int    `json:"column" db:"col"`
	ParentUSR string `json:"parent_usr,omitempty" db:"parent_usr"`
	Related   bool   `json:"related,omitempty" db:"related"`
}

// ImportRecord is one import statement
type ImportRecord struct {
	Module     string `json:"module" db:"module"`
	Line       int    `json:"line" db:"line"`
	Column     int    `json:"column" db:"col"`
	Testable   bool   `json:"testable,omitempty" db:"testable"`
	Exported   bool   `json:"exported,omitempty" db:"exported"`
	Referenced bool   `json:"referenced,omitempty" db:"referenced"`
}
