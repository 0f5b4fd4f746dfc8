// Package results turns an analyzed graph into the sorted list of findings.
package results

import (
	"sort"

	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// Extract collects one result per unused or redundant declaration, unused
// parameter, redundant conformance and unused import. Members of an unused
// or redundant declaration are not reported separately; unused parameters
// are reported even when their function is unused.
func Extract(g *graph.Graph) []ScanResult {
	var out []ScanResult

	for _, d := range g.Declarations() {
		if reportable(d) && !suppressed(g, d) {
			switch d.Disposition {
			case source.DispositionUnused:
				out = append(out, declarationResult(g, d))
			case source.DispositionRedundant:
				r := declarationResult(g, d)
				r.Annotation = AnnotationRedundantProtocol
				r.References = conformanceLocations(g, d)
				out = append(out, r)
			}
		}

		if len(d.UnusedParameters) > 0 && !d.Ignored && !ignoredAncestor(g, d) {
			out = append(out, parameterResults(d)...)
		}
	}

	for _, ref := range g.RedundantConformances() {
		if r, ok := conformanceResult(g, ref); ok {
			out = append(out, r)
		}
	}

	for _, imp := range g.Imports() {
		if imp.Unused {
			out = append(out, ScanResult{
				Annotation:      AnnotationUnusedImport,
				DeclarationKind: source.KindModule,
				Name:            imp.Module,
				Module:          imp.Module,
				Location:        imp.Location,
				USRs:            []string{"import:" + imp.File + ":" + imp.Module},
			})
		}
	}

	Sort(out)
	return out
}

// Sort orders results by location, then annotation, then name
func Sort(results []ScanResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if c := a.Location.Compare(b.Location); c != 0 {
			return c < 0
		}
		if a.Annotation != b.Annotation {
			return a.Annotation < b.Annotation
		}
		return a.Name < b.Name
	})
}

func declarationResult(g *graph.Graph, d *source.Declaration) ScanResult {
	annotation := AnnotationUnused
	if d.AssignOnly {
		annotation = AnnotationAssignOnlyProperty
	}

	r := ScanResult{
		Annotation:      annotation,
		DeclarationKind: d.Kind,
		Name:            d.Name,
		Module:          d.Module(),
		Location:        d.Location,
		Accessibility:   d.Accessibility,
		USRs:            append([]string(nil), d.USRs...),
	}
	if parent := g.Parent(d.ID); parent != nil {
		r.Parent = parent.Name
	}
	for _, ref := range g.ReferencesTo(d.ID) {
		if !ref.Related {
			r.References = append(r.References, ref.Location)
		}
	}
	return r
}

func parameterResults(fn *source.Declaration) []ScanResult {
	out := make([]ScanResult, 0, len(fn.UnusedParameters))
	for _, p := range fn.UnusedParameters {
		loc := fn.Location
		if p.Line > 0 {
			loc = source.Location{File: fn.Location.File, Line: p.Line, Column: p.Column}
		}
		out = append(out, ScanResult{
			Annotation:      AnnotationUnusedParameter,
			DeclarationKind: source.KindVarParameter,
			Name:            p.Name,
			Module:          fn.Module(),
			Location:        loc,
			Accessibility:   fn.Accessibility,
			USRs:            []string{fn.USR() + "/param:" + p.Name},
			Parent:          fn.Name,
		})
	}
	return out
}

func conformanceResult(g *graph.Graph, ref *source.Reference) (ScanResult, bool) {
	from, proto := g.Decl(ref.From), g.Decl(ref.To)
	if from == nil || proto == nil {
		return ScanResult{}, false
	}

	// An unused or ignored type reports nothing about its conformances
	owner := from
	if from.Kind.IsExtension() {
		if ext, ok := g.ExtendedDeclaration(from.ID); ok {
			owner = ext
		}
	}
	if owner.Ignored || from.Ignored || owner.Disposition == source.DispositionUnused || suppressed(g, from) {
		return ScanResult{}, false
	}

	r := ScanResult{
		Annotation:      AnnotationRedundantConformance,
		DeclarationKind: proto.Kind,
		Name:            proto.Name,
		Module:          owner.Module(),
		Location:        ref.Location,
		Accessibility:   owner.Accessibility,
		USRs:            []string{owner.USR() + ":" + proto.USR()},
		Parent:          owner.Name,
	}
	if implied := g.Decl(ref.ImpliedBy); implied != nil {
		r.ImpliedBy = implied.Name
	}
	return r, true
}

func conformanceLocations(g *graph.Graph, proto *source.Declaration) []source.Location {
	var out []source.Location
	for _, ref := range g.ReferencesTo(proto.ID) {
		if ref.Kind == source.RefConformance && !ref.Related {
			out = append(out, ref.Location)
		}
	}
	return out
}

// reportable filters kinds that are never reported on their own
func reportable(d *source.Declaration) bool {
	switch {
	case d.Ignored, d.Implicit:
		return false
	case d.Kind.IsExtension(), d.Kind.IsAccessor():
		return false
	case d.Kind == source.KindGenericTypeParam, d.Kind == source.KindVarLocal, d.Kind == source.KindVarParameter:
		return false
	case d.Kind == source.KindModule:
		return false
	}
	return true
}

// suppressed reports whether an ancestor is already reported as unused or
// redundant, or is ignored. An extension stands in for the type it
// extends.
func suppressed(g *graph.Graph, d *source.Declaration) bool {
	for _, anc := range g.Ancestors(d.ID) {
		if hidden(anc) {
			return true
		}
		if anc.Kind.IsExtension() {
			if ext, ok := g.ExtendedDeclaration(anc.ID); ok && hidden(ext) {
				return true
			}
		}
	}
	return false
}

func hidden(d *source.Declaration) bool {
	return d.Ignored ||
		d.Disposition == source.DispositionUnused ||
		d.Disposition == source.DispositionRedundant
}

func ignoredAncestor(g *graph.Graph, d *source.Declaration) bool {
	for _, anc := range g.Ancestors(d.ID) {
		if anc.Ignored {
			return true
		}
	}
	return false
}
