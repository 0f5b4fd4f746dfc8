package graph

import (
	"sort"

	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// Every query returns results ordered by source location so that passes and
// reports see the same order on every run.

// Decl returns the declaration with the given handle, or nil if it does not
// exist or was removed.
func (g *Graph) Decl(id source.DeclID) *source.Declaration {
	if !g.live(id) {
		return nil
	}
	return g.decls[id]
}

// Ref returns the reference with the given handle, or nil if it was removed
func (g *Graph) Ref(id source.RefID) *source.Reference {
	if id < 0 || int(id) >= len(g.refs) || g.refRemoved[id] {
		return nil
	}
	return g.refs[id]
}

// Lookup resolves any identifier of a declaration, including generic
// specializations of it.
func (g *Graph) Lookup(usr string) (*source.Declaration, bool) {
	id, ok := g.ids.lookup(usr)
	if !ok || !g.live(id) {
		return nil, false
	}
	return g.decls[id], true
}

// Len returns the number of live declarations
func (g *Graph) Len() int {
	n := 0
	for _, r := range g.removed {
		if !r {
			n++
		}
	}
	return n
}

// Declarations returns every live declaration
func (g *Graph) Declarations() []*source.Declaration {
	ids := make([]source.DeclID, 0, len(g.decls))
	for i := range g.decls {
		if !g.removed[i] {
			ids = append(ids, source.DeclID(i))
		}
	}
	g.sortIDs(ids)
	return g.resolve(ids)
}

// DeclarationsOfKind returns the live declarations of any of the given kinds
func (g *Graph) DeclarationsOfKind(kinds ...source.Kind) []*source.Declaration {
	var ids []source.DeclID
	for _, k := range kinds {
		ids = append(ids, g.byKind[k]...)
	}
	g.sortIDs(ids)
	return g.resolve(ids)
}

// WithinFileScope returns the declarations located in file
func (g *Graph) WithinFileScope(file string) []*source.Declaration {
	ids := append([]source.DeclID(nil), g.byFile[file]...)
	g.sortIDs(ids)
	return g.resolve(ids)
}

// Files returns every file that holds at least one declaration, sorted
func (g *Graph) Files() []string {
	var files []string
	for file, ids := range g.byFile {
		if len(g.resolve(ids)) > 0 {
			files = append(files, file)
		}
	}
	sort.Strings(files)
	return files
}

// ReferencesTo returns the live references whose target is id
func (g *Graph) ReferencesTo(id source.DeclID) []*source.Reference {
	if !g.live(id) {
		return nil
	}
	return g.resolveRefs(g.in[id])
}

// ReferencesFrom returns the live references made by id
func (g *Graph) ReferencesFrom(id source.DeclID) []*source.Reference {
	if !g.live(id) {
		return nil
	}
	return g.resolveRefs(g.out[id])
}

// RootReferences returns references made from top-level code
func (g *Graph) RootReferences() []*source.Reference {
	return g.resolveRefs(g.rootRefs)
}

// References returns every live reference
func (g *Graph) References() []*source.Reference {
	ids := make([]source.RefID, 0, len(g.refs))
	for i := range g.refs {
		ids = append(ids, source.RefID(i))
	}
	return g.resolveRefs(ids)
}

// IsReferenced reports whether any ordinary reference targets id from a
// declaration other than id itself.
func (g *Graph) IsReferenced(id source.DeclID) bool {
	for _, r := range g.ReferencesTo(id) {
		if !r.Related && r.From != id {
			return true
		}
	}
	return false
}

// Children returns the declarations directly nested in id
func (g *Graph) Children(id source.DeclID) []*source.Declaration {
	d := g.Decl(id)
	if d == nil {
		return nil
	}
	ids := append([]source.DeclID(nil), d.Children...)
	g.sortIDs(ids)
	return g.resolve(ids)
}

// Parent returns the structural parent of id, or nil for root declarations
func (g *Graph) Parent(id source.DeclID) *source.Declaration {
	d := g.Decl(id)
	if d == nil {
		return nil
	}
	return g.Decl(d.Parent)
}

// Ancestors returns the parent chain of id, nearest first
func (g *Graph) Ancestors(id source.DeclID) []*source.Declaration {
	var out []*source.Declaration
	for p := g.Parent(id); p != nil; p = g.Parent(p.ID) {
		out = append(out, p)
	}
	return out
}

// Descendants returns every declaration nested under id, depth first
func (g *Graph) Descendants(id source.DeclID) []*source.Declaration {
	var out []*source.Declaration
	var walk func(source.DeclID)
	walk = func(cur source.DeclID) {
		for _, c := range g.Children(cur) {
			out = append(out, c)
			walk(c.ID)
		}
	}
	walk(id)
	return out
}

// Extensions returns the extensions of the type id
func (g *Graph) Extensions(id source.DeclID) []*source.Declaration {
	return g.resolve(g.extensions[id])
}

// ExtendedDeclaration returns the type an extension extends. The flag is
// false for extensions of types outside the graph.
func (g *Graph) ExtendedDeclaration(ext source.DeclID) (*source.Declaration, bool) {
	target, ok := g.extended[ext]
	if !ok || !g.live(target) {
		return nil, false
	}
	return g.decls[target], true
}

// Supertypes returns the classes and protocols id directly inherits from or
// conforms to, including conformances declared in its extensions.
func (g *Graph) Supertypes(id source.DeclID) []*source.Declaration {
	return g.resolve(g.supertypes[id])
}

// InheritanceClosure returns every transitive supertype of id. Cycles are
// tolerated and id itself is never included.
func (g *Graph) InheritanceClosure(id source.DeclID) []*source.Declaration {
	return g.resolve(g.closure[id])
}

// Inherits reports whether super is a transitive supertype of id
func (g *Graph) Inherits(id, super source.DeclID) bool {
	for _, s := range g.closure[id] {
		if s == super {
			return true
		}
	}
	return false
}

// Superclass returns the direct superclass of a class, if it is in the graph
func (g *Graph) Superclass(id source.DeclID) (*source.Declaration, bool) {
	for _, s := range g.Supertypes(id) {
		if s.Kind == source.KindClass {
			return s, true
		}
	}
	return nil, false
}

// Subtypes returns the declarations that directly inherit from or conform to id
func (g *Graph) Subtypes(id source.DeclID) []*source.Declaration {
	var ids []source.DeclID
	for sub, supers := range g.supertypes {
		for _, s := range supers {
			if s == id {
				ids = append(ids, sub)
				break
			}
		}
	}
	g.sortIDs(ids)
	return g.resolve(ids)
}

// Imports returns every recorded import ordered by location
func (g *Graph) Imports() []*source.Import {
	return append([]*source.Import(nil), g.imports...)
}

// ImportsInFile returns the imports recorded for file
func (g *Graph) ImportsInFile(file string) []*source.Import {
	return append([]*source.Import(nil), g.importsByFile[file]...)
}

func (g *Graph) resolve(ids []source.DeclID) []*source.Declaration {
	out := make([]*source.Declaration, 0, len(ids))
	for _, id := range ids {
		if g.live(id) {
			out = append(out, g.decls[id])
		}
	}
	return out
}

func (g *Graph) resolveRefs(ids []source.RefID) []*source.Reference {
	live := make([]source.RefID, 0, len(ids))
	for _, id := range ids {
		if !g.refRemoved[id] {
			live = append(live, id)
		}
	}
	g.sortRefs(live)
	out := make([]*source.Reference, len(live))
	for i, id := range live {
		out[i] = g.refs[id]
	}
	return out
}
