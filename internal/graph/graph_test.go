package graph_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/graph/graphtest"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

func decl(usr string, kind source.Kind, name, file string, line int) *source.Declaration {
	return &source.Declaration{
		USRs:     []string{usr},
		Kind:     kind,
		Name:     name,
		Modules:  []string{"App"},
		Location: source.Location{File: file, Line: line, Column: 1},
	}
}

func TestCanonicalUSR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "s:3App3BoxV", want: "s:3App3BoxV"},
		{in: "s:3App3BoxV<Int>", want: "s:3App3BoxV"},
		{in: "s:3App3BoxV<Array<Int>>4sizeSivp", want: "s:3App3BoxV4sizeSivp"},
		{in: "s:3App3BoxV<Int", want: "s:3App3BoxV<Int"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, graph.CanonicalUSR(tt.in))
		})
	}
}

func TestAddDeclarationMergesByIdentifier(t *testing.T) {
	g := graph.New()

	first := decl("s:3App1fyyF", source.KindFunctionFree, "f()", "a.swift", 1)
	id, merged, err := g.AddDeclaration(first)
	require.NoError(t, err)
	assert.False(t, merged)

	second := decl("s:3App1fyyF", source.KindFunctionFree, "f()", "a.swift", 1)
	second.USRs = append(second.USRs, "s:7AppTest1fyyF")
	second.Modules = []string{"AppTests"}
	second.Attributes = []string{"objc"}
	id2, merged, err := g.AddDeclaration(second)
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, id, id2)

	d := g.Decl(id)
	assert.Equal(t, []string{"s:3App1fyyF", "s:7AppTest1fyyF"}, d.USRs)
	assert.Equal(t, []string{"App", "AppTests"}, d.Modules)
	assert.True(t, d.HasAttribute("objc"))

	// Either identifier resolves to the merged declaration
	got, ok := g.Lookup("s:7AppTest1fyyF")
	require.True(t, ok)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, 1, g.Len())
}

func TestAddDeclarationCollapsesGenericSpecializations(t *testing.T) {
	g := graph.New()

	_, _, err := g.AddDeclaration(decl("s:3App3BoxV<Int>", source.KindStruct, "Box", "box.swift", 3))
	require.NoError(t, err)
	_, merged, err := g.AddDeclaration(decl("s:3App3BoxV<String>", source.KindStruct, "Box", "box.swift", 3))
	require.NoError(t, err)
	assert.True(t, merged)

	// Same position, different identifier scheme
	_, merged, err = g.AddDeclaration(decl("c:objc(cs)Box", source.KindStruct, "Box", "box.swift", 3))
	require.NoError(t, err)
	assert.True(t, merged)

	assert.Equal(t, 1, g.Len())
	d, ok := g.Lookup("s:3App3BoxV")
	require.True(t, ok)
	assert.True(t, d.HasUSR("c:objc(cs)Box"))
}

func TestFrozenAfterIndexingComplete(t *testing.T) {
	g := graph.New()
	id, _, err := g.AddDeclaration(decl("s:1a", source.KindClass, "A", "a.swift", 1))
	require.NoError(t, err)
	g.IndexingComplete()

	_, _, err = g.AddDeclaration(decl("s:1b", source.KindClass, "B", "a.swift", 2))
	assert.ErrorIs(t, err, graph.ErrFrozen)
	assert.ErrorIs(t, g.AddImport(source.Import{File: "a.swift", Module: "UIKit"}), graph.ErrFrozen)

	// Edges and dispositions may still change
	_, added := g.AddReference(source.Reference{From: source.NoDecl, To: id, Kind: source.RefCall})
	assert.True(t, added)
	g.Mark(id, source.DispositionUnused)
	assert.Equal(t, source.DispositionUnused, g.Decl(id).Disposition)
}

func TestAddImportMergesDuplicates(t *testing.T) {
	g := graph.New()
	at := func(file string, line int) source.Location {
		return source.Location{File: file, Line: line, Column: 8}
	}
	require.NoError(t, g.AddImport(source.Import{File: "b.swift", Module: "UIKit", Location: at("b.swift", 2)}))
	require.NoError(t, g.AddImport(source.Import{File: "a.swift", Module: "Foundation", Location: at("a.swift", 1)}))
	require.NoError(t, g.AddImport(source.Import{File: "b.swift", Module: "Foundation", Location: at("b.swift", 1)}))
	// Same module seen again through another target
	require.NoError(t, g.AddImport(source.Import{File: "b.swift", Module: "UIKit", Location: at("b.swift", 2), Referenced: true}))
	g.IndexingComplete()

	all := g.Imports()
	require.Len(t, all, 3)
	assert.Equal(t, "a.swift", all[0].File)

	inB := g.ImportsInFile("b.swift")
	require.Len(t, inB, 2)
	assert.Equal(t, "Foundation", inB[0].Module)
	assert.Equal(t, "UIKit", inB[1].Module)
	assert.True(t, inB[1].Referenced)
	assert.Same(t, all[2], inB[1])
	assert.Empty(t, g.ImportsInFile("c.swift"))
}

func TestAddImportManyFiles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large graph test in short mode")
	}
	g := graph.New()
	const n = 50000
	for i := 0; i < n; i++ {
		file := fmt.Sprintf("f%d.swift", i)
		require.NoError(t, g.AddImport(source.Import{File: file, Module: "Foundation"}))
		require.NoError(t, g.AddImport(source.Import{File: file, Module: "Foundation"}))
	}
	g.IndexingComplete()
	assert.Len(t, g.Imports(), n)
	assert.Len(t, g.ImportsInFile("f42.swift"), 1)
}

func TestReferences(t *testing.T) {
	b := graphtest.New(t)
	b.Decl("s:A", source.KindClass, "A")
	b.Decl("s:B", source.KindClass, "B")
	b.Decl("s:C", source.KindClass, "C")
	b.Ref("s:C", "s:A", source.RefType, graphtest.RefAt(30, 1))
	b.Ref("s:B", "s:A", source.RefType, graphtest.RefAt(20, 4))
	b.Ref("", "s:B", source.RefCall)
	g := b.Build()

	to := g.ReferencesTo(b.ID("s:A"))
	require.Len(t, to, 2)
	assert.Equal(t, b.ID("s:B"), to[0].From, "ordered by location")
	assert.Equal(t, b.ID("s:C"), to[1].From)

	assert.Len(t, g.ReferencesFrom(b.ID("s:B")), 1)
	require.Len(t, g.RootReferences(), 1)
	assert.True(t, g.RootReferences()[0].IsRoot())
	assert.True(t, g.IsReferenced(b.ID("s:A")))
	assert.False(t, g.IsReferenced(b.ID("s:C")))
}

func TestAddReferenceDropsDanglingAndDuplicates(t *testing.T) {
	g := graph.New()
	id, _, err := g.AddDeclaration(decl("s:1a", source.KindClass, "A", "a.swift", 1))
	require.NoError(t, err)

	_, added := g.AddReference(source.Reference{From: id, To: 99, Kind: source.RefCall})
	assert.False(t, added)

	r := source.Reference{From: source.NoDecl, To: id, Kind: source.RefCall, Location: source.Location{File: "a.swift", Line: 5}}
	first, added := g.AddReference(r)
	assert.True(t, added)
	second, added := g.AddReference(r)
	assert.False(t, added)
	assert.Equal(t, first, second)

	// Same pair, different kind coexists
	r.Kind = source.RefRead
	_, added = g.AddReference(r)
	assert.True(t, added)
	assert.Len(t, g.ReferencesTo(id), 2)
}

func TestStructure(t *testing.T) {
	b := graphtest.New(t)
	b.Decl("s:T", source.KindClass, "T")
	b.Decl("s:T.m", source.KindFunctionMethodInstance, "m()", graphtest.Parent("s:T"))
	b.Decl("s:T.m.x", source.KindVarLocal, "x", graphtest.Parent("s:T.m"))
	b.Decl("s:T.p", source.KindVarInstance, "p", graphtest.Parent("s:T"))
	g := b.Build()

	children := g.Children(b.ID("s:T"))
	require.Len(t, children, 2)
	assert.Equal(t, "m()", children[0].Name)
	assert.Equal(t, "p", children[1].Name)

	assert.Len(t, g.Descendants(b.ID("s:T")), 3)

	ancestors := g.Ancestors(b.ID("s:T.m.x"))
	require.Len(t, ancestors, 2)
	assert.Equal(t, "m()", ancestors[0].Name)
	assert.Equal(t, "T", ancestors[1].Name)
}

func TestSetParentIgnoresCyclesAndReparenting(t *testing.T) {
	b := graphtest.New(t)
	a := b.Decl("s:A", source.KindClass, "A")
	c := b.Decl("s:B", source.KindClass, "B", graphtest.Parent("s:A"))
	g := b.Graph()

	require.NoError(t, g.SetParent(a, c))
	assert.True(t, g.Decl(a).IsRoot())

	other := b.Decl("s:C", source.KindClass, "C")
	require.NoError(t, g.SetParent(c, other))
	assert.Equal(t, a, g.Decl(c).Parent)
}

func TestExtensionsAndInheritance(t *testing.T) {
	b := graphtest.New(t)
	b.Decl("s:P1", source.KindProtocol, "P1")
	b.Decl("s:P2", source.KindProtocol, "P2")
	b.Decl("s:Base", source.KindClass, "Base")
	b.Decl("s:T", source.KindClass, "T")
	b.Decl("s:ext", source.KindExtensionClass, "T", graphtest.Extends("s:T"))
	b.Decl("s:extUnknown", source.KindExtensionStruct, "String", graphtest.Extends("s:Swift.String"))
	b.Ref("s:P2", "s:P1", source.RefConformance)
	b.Ref("s:P1", "s:P2", source.RefConformance) // refinement cycle
	b.Ref("s:T", "s:Base", source.RefInheritance)
	b.Ref("s:ext", "s:P2", source.RefConformance)
	g := b.Build()

	extended, ok := g.ExtendedDeclaration(b.ID("s:ext"))
	require.True(t, ok)
	assert.Equal(t, "T", extended.Name)
	_, ok = g.ExtendedDeclaration(b.ID("s:extUnknown"))
	assert.False(t, ok)
	assert.Len(t, g.Extensions(b.ID("s:T")), 1)

	supers := g.Supertypes(b.ID("s:T"))
	require.Len(t, supers, 2)
	super, ok := g.Superclass(b.ID("s:T"))
	require.True(t, ok)
	assert.Equal(t, "Base", super.Name)

	closure := g.InheritanceClosure(b.ID("s:T"))
	assert.Len(t, closure, 3)
	assert.True(t, g.Inherits(b.ID("s:T"), b.ID("s:P1")))
	assert.Len(t, g.InheritanceClosure(b.ID("s:P1")), 1, "a type is never its own supertype")
	assert.Len(t, g.Subtypes(b.ID("s:Base")), 1)
}

func TestRemove(t *testing.T) {
	b := graphtest.New(t)
	b.Decl("s:T", source.KindStruct, "T")
	b.Decl("s:ext", source.KindExtensionStruct, "T", graphtest.Extends("s:T"))
	b.Decl("s:ext.f", source.KindFunctionMethodInstance, "f()", graphtest.Parent("s:ext"))
	b.Ref("s:ext.f", "s:T", source.RefType)
	b.Ref("s:ext", "s:T", source.RefExtends, graphtest.Related())
	g := b.Build()

	extID, fID, typeID := b.ID("s:ext"), b.ID("s:ext.f"), b.ID("s:T")
	g.Remove(extID)

	assert.Nil(t, g.Decl(extID))
	assert.Nil(t, g.Decl(fID))
	assert.Empty(t, g.ReferencesTo(typeID))
	assert.Empty(t, g.Extensions(typeID))
	assert.Equal(t, 1, g.Len())
	_, ok := g.Lookup("s:ext")
	assert.False(t, ok)
}

func TestWithinFileScopeAndKinds(t *testing.T) {
	b := graphtest.New(t)
	b.Decl("s:b", source.KindStruct, "B", graphtest.File("b.swift"))
	b.Decl("s:a2", source.KindClass, "A2", graphtest.File("a.swift"), graphtest.At(9, 1))
	b.Decl("s:a1", source.KindStruct, "A1", graphtest.File("a.swift"), graphtest.At(2, 1))
	g := b.Build()

	inA := g.WithinFileScope("a.swift")
	require.Len(t, inA, 2)
	assert.Equal(t, "A1", inA[0].Name)
	assert.Equal(t, []string{"a.swift", "b.swift"}, g.Files())

	structs := g.DeclarationsOfKind(source.KindStruct)
	require.Len(t, structs, 2)
	assert.Equal(t, "A1", structs[0].Name)
	assert.Len(t, g.DeclarationsOfKind(source.KindStruct, source.KindClass), 3)
}

func TestRedundantConformanceIsKept(t *testing.T) {
	b := graphtest.New(t)
	b.Decl("s:P", source.KindProtocol, "P")
	b.Decl("s:Q", source.KindProtocol, "Q")
	b.Decl("s:T", source.KindStruct, "T")
	ref := b.Ref("s:T", "s:P", source.RefConformance)
	g := b.Build()

	g.MarkRedundantConformance(ref, b.ID("s:Q"))

	require.Len(t, g.RedundantConformances(), 1)
	assert.Equal(t, b.ID("s:Q"), g.Ref(ref).ImpliedBy)
	assert.Len(t, g.ReferencesTo(b.ID("s:P")), 1)
}
