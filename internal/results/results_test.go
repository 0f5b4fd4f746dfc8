package results_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peripheryapp/periphery-sub003/internal/graph/graphtest"
	"github.com/peripheryapp/periphery-sub003/internal/results"
	"github.com/peripheryapp/periphery-sub003/internal/source"
	"github.com/peripheryapp/periphery-sub003/internal/syntax"
)

func TestExtractSuppressesMembersOfUnusedDeclarations(t *testing.T) {
	b := graphtest.New(t)
	b.Decl("s:C", source.KindClass, "C")
	b.Decl("s:C.m", source.KindFunctionMethodInstance, "m()", graphtest.Parent("s:C"))
	b.Decl("s:ext", source.KindExtensionClass, "C", graphtest.Extends("s:C"))
	b.Decl("s:ext.n", source.KindFunctionMethodInstance, "n()", graphtest.Parent("s:ext"))
	b.Decl("s:D", source.KindClass, "D")
	b.Decl("s:D.get", source.KindFunctionAccessorGetter, "get", graphtest.Parent("s:D"))
	b.Decl("s:D.init", source.KindFunctionConstructor, "init()", graphtest.Parent("s:D"), graphtest.Implicit())
	g := b.Build()

	for _, usr := range []string{"s:C", "s:C.m", "s:ext", "s:ext.n", "s:D.get", "s:D.init"} {
		g.Mark(b.ID(usr), source.DispositionUnused)
	}

	got := results.Extract(g)
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0].Name)
	assert.Equal(t, results.AnnotationUnused, got[0].Annotation)
	assert.Equal(t, "Class 'C' is unused", got[0].Message())
}

func TestExtractAnnotations(t *testing.T) {
	b := graphtest.New(t)
	b.Decl("s:P", source.KindProtocol, "P")
	b.Decl("s:P1", source.KindProtocol, "P1")
	b.Decl("s:P2", source.KindProtocol, "P2")
	b.Decl("s:T", source.KindStruct, "T")
	b.Decl("s:T.v", source.KindVarInstance, "v", graphtest.Parent("s:T"))
	b.Ref("s:T", "s:P", source.RefConformance)
	conf := b.Ref("s:T", "s:P1", source.RefConformance)
	b.Ref("s:T", "s:P2", source.RefConformance)
	b.Ref("s:P2", "s:P1", source.RefConformance)
	b.Import(graphtest.DefaultFile, "Foundation", false)
	g := b.Build()

	g.Mark(b.ID("s:P"), source.DispositionRedundant)
	g.Mark(b.ID("s:T.v"), source.DispositionUnused)
	g.MarkAssignOnly(b.ID("s:T.v"))
	g.MarkRedundantConformance(conf, b.ID("s:P2"))
	for _, imp := range g.Imports() {
		g.MarkImportUnused(imp)
	}

	byAnnotation := map[results.Annotation]results.ScanResult{}
	for _, r := range results.Extract(g) {
		byAnnotation[r.Annotation] = r
	}
	require.Len(t, byAnnotation, 4)

	redundant := byAnnotation[results.AnnotationRedundantProtocol]
	assert.Equal(t, "P", redundant.Name)
	assert.Len(t, redundant.References, 1)

	assign := byAnnotation[results.AnnotationAssignOnlyProperty]
	assert.Equal(t, "Property 'v' is assigned, but never used", assign.Message())
	assert.Equal(t, "T", assign.Parent)

	conformance := byAnnotation[results.AnnotationRedundantConformance]
	assert.Equal(t, "P1", conformance.Name)
	assert.Equal(t, "P2", conformance.ImpliedBy)
	assert.Equal(t, "Redundant protocol conformance 'P1' (already provided by 'P2')", conformance.Message())

	imp := byAnnotation[results.AnnotationUnusedImport]
	assert.Equal(t, "Imported module 'Foundation' is unused", imp.Message())
}

func TestExtractUnusedParametersOfUnusedFunction(t *testing.T) {
	b := graphtest.New(t)
	b.Decl("s:f", source.KindFunctionFree, "f(x:)", graphtest.At(3, 6))
	b.Decl("s:g", source.KindFunctionFree, "g(y:)", graphtest.At(9, 6), graphtest.Commands("// periphery:ignore"))
	g := b.Build()

	f := g.Decl(b.ID("s:f"))
	f.Disposition = source.DispositionUnused
	f.UnusedParameters = []syntax.Param{{Label: "x", Name: "x", Position: syntax.Position{Line: 3, Column: 8}}}
	gd := g.Decl(b.ID("s:g"))
	gd.Ignored = true
	gd.UnusedParameters = []syntax.Param{{Name: "y"}}

	got := results.Extract(g)
	require.Len(t, got, 2)

	assert.Equal(t, results.AnnotationUnused, got[0].Annotation)
	assert.Equal(t, source.Location{File: graphtest.DefaultFile, Line: 3, Column: 6}, got[0].Location)

	assert.Equal(t, results.AnnotationUnusedParameter, got[1].Annotation)
	assert.Equal(t, "x", got[1].Name)
	assert.Equal(t, "f(x:)", got[1].Parent)
	assert.Equal(t, source.Location{File: graphtest.DefaultFile, Line: 3, Column: 8}, got[1].Location)
	assert.Equal(t, []string{"s:f/param:x"}, got[1].USRs)
}

func TestSort(t *testing.T) {
	rs := []results.ScanResult{
		{Name: "b", Location: source.Location{File: "b.swift", Line: 1}},
		{Name: "z", Annotation: results.AnnotationUnusedParameter, Location: source.Location{File: "a.swift", Line: 2}},
		{Name: "a", Annotation: results.AnnotationUnused, Location: source.Location{File: "a.swift", Line: 2}},
		{Name: "c", Location: source.Location{File: "a.swift", Line: 1, Column: 4}},
	}
	results.Sort(rs)

	var names []string
	for _, r := range rs {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"c", "a", "z", "b"}, names)
}
