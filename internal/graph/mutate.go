package graph

import (
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// Mark sets a declaration's disposition. Marking is idempotent and a later
// mark replaces an earlier one.
func (g *Graph) Mark(id source.DeclID, disposition source.Disposition) {
	if d := g.Decl(id); d != nil {
		d.Disposition = disposition
	}
}

// MarkRetained flags a declaration as used from outside the graph
func (g *Graph) MarkRetained(id source.DeclID) {
	g.Mark(id, source.DispositionRetained)
}

// IsRetained reports whether a pass flagged id as externally used
func (g *Graph) IsRetained(id source.DeclID) bool {
	d := g.Decl(id)
	return d != nil && d.IsRetained()
}

// MarkIgnored retains a declaration and hides it from results
func (g *Graph) MarkIgnored(id source.DeclID) {
	if d := g.Decl(id); d != nil {
		d.Ignored = true
		d.Disposition = source.DispositionRetained
	}
}

// MarkAssignOnly flags a property that is written but never read
func (g *Graph) MarkAssignOnly(id source.DeclID) {
	if d := g.Decl(id); d != nil {
		d.AssignOnly = true
	}
}

// MarkRedundantConformance flags a conformance reference as implied by
// impliedBy. The edge stays in the graph.
func (g *Graph) MarkRedundantConformance(ref source.RefID, impliedBy source.DeclID) {
	if r := g.Ref(ref); r != nil {
		r.Redundant = true
		r.ImpliedBy = impliedBy
	}
}

// MarkRelated turns an ordinary reference into a structural one
func (g *Graph) MarkRelated(id source.RefID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id < 0 || int(id) >= len(g.refs) || g.refRemoved[id] {
		return
	}
	r := g.refs[id]
	if r.Related {
		return
	}
	delete(g.refIndex, refKey{from: r.From, to: r.To, kind: r.Kind, location: r.Location, related: false})
	r.Related = true
	g.refIndex[refKey{from: r.From, to: r.To, kind: r.Kind, location: r.Location, related: true}] = id
}

// RedundantConformances returns every conformance flagged as redundant
func (g *Graph) RedundantConformances() []*source.Reference {
	var out []*source.Reference
	for _, r := range g.References() {
		if r.Redundant {
			out = append(out, r)
		}
	}
	return out
}

// MarkImportUnused flags an import as unused
func (g *Graph) MarkImportUnused(imp *source.Import) {
	imp.Unused = true
}

// RemoveReference deletes one edge
func (g *Graph) RemoveReference(id source.RefID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeRef(id)
}

func (g *Graph) removeRef(id source.RefID) {
	if id < 0 || int(id) >= len(g.refs) || g.refRemoved[id] {
		return
	}
	g.refRemoved[id] = true
	r := g.refs[id]
	if r.From == source.NoDecl {
		g.rootRefs = dropRef(g.rootRefs, id)
	} else {
		g.out[r.From] = dropRef(g.out[r.From], id)
	}
	g.in[r.To] = dropRef(g.in[r.To], id)
}

// Remove deletes a declaration, its descendants and every incident edge
func (g *Graph) Remove(id source.DeclID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.live(id) {
		return
	}
	d := g.decls[id]
	if p := d.Parent; g.live(p) {
		g.decls[p].Children = dropDecl(g.decls[p].Children, id)
	}
	g.removeTree(id)
}

func (g *Graph) removeTree(id source.DeclID) {
	d := g.decls[id]
	for _, c := range d.Children {
		if g.live(c) {
			g.removeTree(c)
		}
	}
	for _, rid := range append([]source.RefID(nil), g.out[id]...) {
		g.removeRef(rid)
	}
	for _, rid := range append([]source.RefID(nil), g.in[id]...) {
		g.removeRef(rid)
	}
	g.removed[id] = true

	if target, ok := g.extended[id]; ok {
		g.extensions[target] = dropDecl(g.extensions[target], id)
		delete(g.extended, id)
	}
}

func dropRef(ids []source.RefID, id source.RefID) []source.RefID {
	out := ids[:0]
	for _, cur := range ids {
		if cur != id {
			out = append(out, cur)
		}
	}
	return out
}

func dropDecl(ids []source.DeclID, id source.DeclID) []source.DeclID {
	out := ids[:0]
	for _, cur := range ids {
		if cur != id {
			out = append(out, cur)
		}
	}
	return out
}
