// Package graphtest builds small source graphs for tests.
package graphtest

import (
	"testing"

	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
	"github.com/peripheryapp/periphery-sub003/internal/syntax"
)

// DefaultFile is the file declarations are placed in unless File is given
const DefaultFile = "Sources/App/main.swift"

// Builder assembles a graph declaration by declaration. Declarations get
// increasing line numbers in declaration order.
type Builder struct {
	t    testing.TB
	g    *graph.Graph
	line int
}

// New returns an empty builder
func New(t testing.TB) *Builder {
	return &Builder{t: t, g: graph.New()}
}

// DeclOption customizes a declaration
type DeclOption func(*declSpec)

type declSpec struct {
	decl   *source.Declaration
	parent string
}

// Parent nests the declaration in the declaration with the given USR
func Parent(usr string) DeclOption {
	return func(s *declSpec) { s.parent = usr }
}

// File places the declaration in file
func File(file string) DeclOption {
	return func(s *declSpec) { s.decl.Location.File = file }
}

// At sets the declaration's line and column
func At(line, column int) DeclOption {
	return func(s *declSpec) {
		s.decl.Location.Line = line
		s.decl.Location.Column = column
	}
}

// Module sets the declaring module
func Module(name string) DeclOption {
	return func(s *declSpec) { s.decl.Modules = []string{name} }
}

// Access sets an explicit accessibility
func Access(a source.Accessibility) DeclOption {
	return func(s *declSpec) {
		s.decl.Accessibility = a
		s.decl.DeclaredAccessibility = a
		s.decl.ExplicitAccessibility = true
	}
}

// Attrs adds attributes
func Attrs(attrs ...string) DeclOption {
	return func(s *declSpec) { s.decl.Attributes = append(s.decl.Attributes, attrs...) }
}

// Mods adds modifiers
func Mods(mods ...string) DeclOption {
	return func(s *declSpec) { s.decl.Modifiers = append(s.decl.Modifiers, mods...) }
}

// Inherits lists inherited type names, including ones outside the graph
func Inherits(names ...string) DeclOption {
	return func(s *declSpec) { s.decl.InheritedTypes = append(s.decl.InheritedTypes, names...) }
}

// Extends sets the extended type of an extension
func Extends(usr string) DeclOption {
	return func(s *declSpec) { s.decl.ExtendedUSR = usr }
}

// DeclaredType sets the declared type name of a property
func DeclaredType(name string) DeclOption {
	return func(s *declSpec) { s.decl.DeclaredType = name }
}

// Implicit marks the declaration as compiler synthesized
func Implicit() DeclOption {
	return func(s *declSpec) { s.decl.Implicit = true }
}

// Syntax attaches a function body
func Syntax(params []syntax.Param, body *syntax.Node) DeclOption {
	return func(s *declSpec) {
		s.decl.Syntax = &syntax.Function{USR: s.decl.USR(), Params: params, Body: body}
	}
}

// Commands attaches comment commands
func Commands(comments ...string) DeclOption {
	return func(s *declSpec) {
		s.decl.Commands = append(s.decl.Commands, source.ParseCommentCommands(comments)...)
	}
}

// Decl adds a declaration and returns its handle
func (b *Builder) Decl(usr string, kind source.Kind, name string, opts ...DeclOption) source.DeclID {
	b.t.Helper()

	b.line++
	spec := &declSpec{decl: &source.Declaration{
		USRs:                  []string{usr},
		Kind:                  kind,
		Name:                  name,
		Modules:               []string{"App"},
		Location:              source.Location{File: DefaultFile, Line: b.line, Column: 1},
		Accessibility:         source.AccessInternal,
		DeclaredAccessibility: source.AccessInternal,
	}}
	for _, opt := range opts {
		opt(spec)
	}

	id, _, err := b.g.AddDeclaration(spec.decl)
	if err != nil {
		b.t.Fatalf("add declaration %s: %v", usr, err)
	}
	if spec.parent != "" {
		if err := b.g.SetParent(id, b.ID(spec.parent)); err != nil {
			b.t.Fatalf("set parent of %s: %v", usr, err)
		}
	}
	return id
}

// RefOption customizes a reference
type RefOption func(*source.Reference)

// Related makes the reference structural rather than a real use
func Related() RefOption {
	return func(r *source.Reference) { r.Related = true }
}

// RefAt sets the reference location within the default file
func RefAt(line, column int) RefOption {
	return func(r *source.Reference) {
		r.Location = source.Location{File: DefaultFile, Line: line, Column: column}
	}
}

// Ref adds a reference from the declaration with USR from to the one with
// USR to. An empty from makes a root reference.
func (b *Builder) Ref(from, to string, kind source.ReferenceKind, opts ...RefOption) source.RefID {
	b.t.Helper()

	b.line++
	r := source.Reference{
		Kind:     kind,
		From:     source.NoDecl,
		To:       b.ID(to),
		USR:      to,
		Location: source.Location{File: DefaultFile, Line: b.line, Column: 1},
	}
	if from != "" {
		r.From = b.ID(from)
	}
	for _, opt := range opts {
		opt(&r)
	}

	id, ok := b.g.AddReference(r)
	if !ok {
		b.t.Fatalf("reference %s -> %s was not added", from, to)
	}
	return id
}

// Import records an import of module in file
func (b *Builder) Import(file, module string, referenced bool) {
	b.t.Helper()

	b.line++
	err := b.g.AddImport(source.Import{
		File:       file,
		Module:     module,
		Location:   source.Location{File: file, Line: b.line, Column: 1},
		Referenced: referenced,
	})
	if err != nil {
		b.t.Fatalf("add import %s: %v", module, err)
	}
}

// ID returns the handle of the declaration with the given USR
func (b *Builder) ID(usr string) source.DeclID {
	b.t.Helper()

	d, ok := b.g.Lookup(usr)
	if !ok {
		b.t.Fatalf("unknown declaration %s", usr)
	}
	return d.ID
}

// Graph returns the graph under construction without freezing it
func (b *Builder) Graph() *graph.Graph {
	return b.g
}

// Build completes indexing and returns the graph
func (b *Builder) Build() *graph.Graph {
	b.g.IndexingComplete()
	return b.g
}
