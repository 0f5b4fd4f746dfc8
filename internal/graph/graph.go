// Package graph is the whole-program source graph. Declarations and
// references live in dense arenas addressed by integer handles, so cyclic
// structures such as mutually refining protocols need no special handling.
package graph

import (
	"errors"
	"sort"
	"sync"

	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// ErrFrozen is returned by structural mutators once indexing is complete
var ErrFrozen = errors.New("graph: indexing complete, declarations and imports are frozen")

// locationKey identifies declarations that sit at the same place. Two
// records with equal keys are the same declaration regardless of their
// identifiers, which collapses generic specializations reported under
// different symbols.
type locationKey struct {
	file   string
	line   int
	column int
	kind   source.Kind
	name   string
}

type importKey struct {
	file   string
	module string
}

type refKey struct {
	from     source.DeclID
	to       source.DeclID
	kind     source.ReferenceKind
	location source.Location
	related  bool
}

// Graph is the mutable whole-program graph
type Graph struct {
	mu     sync.Mutex
	frozen bool

	decls      []*source.Declaration
	refs       []*source.Reference
	removed    []bool
	refRemoved []bool

	out      [][]source.RefID
	in       [][]source.RefID
	rootRefs []source.RefID
	refIndex map[refKey]source.RefID

	ids        *identity
	byFile     map[string][]source.DeclID
	byKind     map[source.Kind][]source.DeclID
	byLocation map[locationKey]source.DeclID

	imports       []*source.Import
	importIndex   map[importKey]*source.Import
	importsByFile map[string][]*source.Import

	// Computed by IndexingComplete
	extensions map[source.DeclID][]source.DeclID
	extended   map[source.DeclID]source.DeclID
	supertypes map[source.DeclID][]source.DeclID
	closure    map[source.DeclID][]source.DeclID
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		refIndex:   make(map[refKey]source.RefID),
		ids:        newIdentity(),
		byFile:     make(map[string][]source.DeclID),
		byKind:     make(map[source.Kind][]source.DeclID),
		byLocation: make(map[locationKey]source.DeclID),
		extensions: make(map[source.DeclID][]source.DeclID),
		extended:   make(map[source.DeclID]source.DeclID),
		supertypes: make(map[source.DeclID][]source.DeclID),
		closure:    make(map[source.DeclID][]source.DeclID),

		importIndex:   make(map[importKey]*source.Import),
		importsByFile: make(map[string][]*source.Import),
	}
}

// IsFrozen reports whether IndexingComplete has been called
func (g *Graph) IsFrozen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.frozen
}

// AddDeclaration inserts d, or merges it into an existing declaration that
// shares one of its identifiers or its exact position. The returned flag is
// true when a merge happened. d's ID, Parent and Children are assigned by
// the graph.
func (g *Graph) AddDeclaration(d *source.Declaration) (source.DeclID, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return source.NoDecl, false, ErrFrozen
	}

	if existing, ok := g.findExisting(d); ok {
		g.merge(existing, d)
		return existing.ID, true, nil
	}

	id := source.DeclID(len(g.decls))
	d.ID = id
	d.Parent = source.NoDecl
	d.Children = nil
	g.decls = append(g.decls, d)
	g.removed = append(g.removed, false)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)

	for _, usr := range d.USRs {
		g.ids.register(usr, id)
	}
	g.byFile[d.Location.File] = append(g.byFile[d.Location.File], id)
	g.byKind[d.Kind] = append(g.byKind[d.Kind], id)
	g.byLocation[keyOf(d)] = id

	return id, false, nil
}

func keyOf(d *source.Declaration) locationKey {
	return locationKey{
		file:   d.Location.File,
		line:   d.Location.Line,
		column: d.Location.Column,
		kind:   d.Kind,
		name:   d.Name,
	}
}

func (g *Graph) findExisting(d *source.Declaration) (*source.Declaration, bool) {
	for _, usr := range d.USRs {
		if id, ok := g.ids.lookup(usr); ok && !g.removed[id] {
			return g.decls[id], true
		}
	}
	if d.Location.File != "" {
		if id, ok := g.byLocation[keyOf(d)]; ok && !g.removed[id] {
			return g.decls[id], true
		}
	}
	return nil, false
}

func (g *Graph) merge(into, from *source.Declaration) {
	into.AddUSRs(from.USRs...)
	for _, usr := range from.USRs {
		g.ids.register(usr, into.ID)
	}
	for _, m := range from.Modules {
		into.AddModule(m)
	}

	into.Attributes = source.MergeSet(into.Attributes, from.Attributes)
	into.Modifiers = source.MergeSet(into.Modifiers, from.Modifiers)
	into.InheritedTypes = source.MergeSet(into.InheritedTypes, from.InheritedTypes)
	into.Commands = append(into.Commands, from.Commands...)
	into.Implicit = into.Implicit && from.Implicit
	into.ExternalOverride = into.ExternalOverride || from.ExternalOverride

	if from.DeclaredAccessibility > into.DeclaredAccessibility {
		into.DeclaredAccessibility = from.DeclaredAccessibility
		into.Accessibility = from.Accessibility
	}
	into.ExplicitAccessibility = into.ExplicitAccessibility || from.ExplicitAccessibility

	if into.ExtendedUSR == "" {
		into.ExtendedUSR = from.ExtendedUSR
	}
	if into.DeclaredType == "" {
		into.DeclaredType = from.DeclaredType
	}
	if into.Syntax == nil {
		into.Syntax = from.Syntax
	}
}

// SetParent records child as structurally nested in parent. A declaration
// has at most one parent; later calls for the same child are ignored, as
// are calls that would create a nesting cycle.
func (g *Graph) SetParent(child, parent source.DeclID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return ErrFrozen
	}
	if !g.live(child) || !g.live(parent) || child == parent {
		return nil
	}

	c := g.decls[child]
	if c.Parent != source.NoDecl {
		return nil
	}
	for cur := parent; cur != source.NoDecl; cur = g.decls[cur].Parent {
		if cur == child {
			return nil
		}
	}

	c.Parent = parent
	p := g.decls[parent]
	p.Children = append(p.Children, child)
	return nil
}

// AddReference inserts r unless an identical edge already exists. The
// target must be a live declaration. References may be added after
// indexing is complete. The returned flag is false when nothing was added.
func (g *Graph) AddReference(r source.Reference) (source.RefID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.live(r.To) {
		return 0, false
	}
	if r.From != source.NoDecl && !g.live(r.From) {
		return 0, false
	}

	key := refKey{from: r.From, to: r.To, kind: r.Kind, location: r.Location, related: r.Related}
	if existing, ok := g.refIndex[key]; ok && !g.refRemoved[existing] {
		return existing, false
	}

	id := source.RefID(len(g.refs))
	r.ID = id
	if !r.Redundant {
		r.ImpliedBy = source.NoDecl
	}
	ref := r
	g.refs = append(g.refs, &ref)
	g.refRemoved = append(g.refRemoved, false)
	g.refIndex[key] = id

	if r.From == source.NoDecl {
		g.rootRefs = append(g.rootRefs, id)
	} else {
		g.out[r.From] = append(g.out[r.From], id)
	}
	g.in[r.To] = append(g.in[r.To], id)

	return id, true
}

// AddImport records a module import. Duplicate imports of the same module
// in the same file are ignored.
func (g *Graph) AddImport(imp source.Import) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return ErrFrozen
	}
	key := importKey{file: imp.File, module: imp.Module}
	if existing, ok := g.importIndex[key]; ok {
		existing.Referenced = existing.Referenced || imp.Referenced
		existing.Testable = existing.Testable || imp.Testable
		existing.Exported = existing.Exported || imp.Exported
		return nil
	}
	i := &imp
	g.imports = append(g.imports, i)
	g.importIndex[key] = i
	g.importsByFile[imp.File] = append(g.importsByFile[imp.File], i)
	return nil
}

// IndexingComplete freezes declarations and imports and computes the
// extension and inheritance indices used by the analysis passes.
func (g *Graph) IndexingComplete() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return
	}
	g.frozen = true

	for file := range g.byFile {
		g.sortIDs(g.byFile[file])
	}
	for kind := range g.byKind {
		g.sortIDs(g.byKind[kind])
	}
	for _, d := range g.decls {
		g.sortIDs(d.Children)
	}
	sortImports(g.imports)
	for file := range g.importsByFile {
		sortImports(g.importsByFile[file])
	}

	g.computeExtensions()
	g.computeSupertypes()
	g.computeClosures()
}

func sortImports(imports []*source.Import) {
	sort.SliceStable(imports, func(i, j int) bool {
		a, b := imports[i], imports[j]
		if a.Location != b.Location {
			return a.Location.Less(b.Location)
		}
		return a.Module < b.Module
	})
}

func (g *Graph) computeExtensions() {
	for _, d := range g.decls {
		if !d.Kind.IsExtension() || d.ExtendedUSR == "" {
			continue
		}
		target, ok := g.ids.lookup(d.ExtendedUSR)
		if !ok || target == d.ID || g.removed[target] {
			continue
		}
		g.extended[d.ID] = target
		g.extensions[target] = append(g.extensions[target], d.ID)
	}
	for target := range g.extensions {
		g.sortIDs(g.extensions[target])
	}
}

// computeSupertypes collects direct conformance and inheritance edges. An
// extension's conformances belong to the type it extends.
func (g *Graph) computeSupertypes() {
	for _, d := range g.decls {
		owner := d.ID
		if ext, ok := g.extended[d.ID]; ok {
			owner = ext
		}
		for _, rid := range g.out[d.ID] {
			r := g.refs[rid]
			if !r.Kind.IsSupertypeEdge() || r.To == owner {
				continue
			}
			g.supertypes[owner] = appendUnique(g.supertypes[owner], r.To)
		}
	}
	for id := range g.supertypes {
		g.sortIDs(g.supertypes[id])
	}
}

func (g *Graph) computeClosures() {
	for id := range g.supertypes {
		seen := map[source.DeclID]bool{id: true}
		var all []source.DeclID
		stack := append([]source.DeclID(nil), g.supertypes[id]...)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[cur] {
				continue
			}
			seen[cur] = true
			all = append(all, cur)
			stack = append(stack, g.supertypes[cur]...)
		}
		g.sortIDs(all)
		g.closure[id] = all
	}
}

func appendUnique(ids []source.DeclID, id source.DeclID) []source.DeclID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func (g *Graph) live(id source.DeclID) bool {
	return id >= 0 && int(id) < len(g.decls) && !g.removed[id]
}

// sortIDs orders declarations by location, then by arena index
func (g *Graph) sortIDs(ids []source.DeclID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return g.declLess(ids[i], ids[j])
	})
}

func (g *Graph) declLess(a, b source.DeclID) bool {
	da, db := g.decls[a], g.decls[b]
	if da.Location != db.Location {
		return da.Location.Less(db.Location)
	}
	return a < b
}

func (g *Graph) sortRefs(ids []source.RefID) {
	sort.SliceStable(ids, func(i, j int) bool {
		ra, rb := g.refs[ids[i]], g.refs[ids[j]]
		if ra.Location != rb.Location {
			return ra.Location.Less(rb.Location)
		}
		return ids[i] < ids[j]
	})
}
