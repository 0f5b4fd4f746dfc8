// Package mutators holds the graph passes run by the analyzer. Each pass
// applies one retention or elimination rule to the whole graph.
package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/logging"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// Mutator is a single graph pass. A pass that finds an edge or declaration
// in an unexpected state skips it; returned errors are reserved for
// conditions that make the whole scan meaningless.
type Mutator interface {
	Name() string
	Mutate(g *graph.Graph) error
}

// Factory constructs a pass for one scan
type Factory func(cfg *config.Config, logger logrus.FieldLogger) Mutator

// pass carries the dependencies every mutator shares
type pass struct {
	cfg    *config.Config
	logger logrus.FieldLogger
}

func newPass(cfg *config.Config, logger logrus.FieldLogger) pass {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return pass{cfg: cfg, logger: logger}
}

// addSynthetic adds an ordinary edge that stands in for a use the indexer
// cannot see.
func addSynthetic(g *graph.Graph, from, to *source.Declaration, kind source.ReferenceKind) bool {
	_, added := g.AddReference(source.Reference{
		Kind:      kind,
		From:      from.ID,
		To:        to.ID,
		USR:       to.USR(),
		Location:  from.Location,
		Synthetic: true,
	})
	return added
}

// addRelated adds a structural edge that does not make its target reachable
func addRelated(g *graph.Graph, from, to *source.Declaration, kind source.ReferenceKind) bool {
	_, added := g.AddReference(source.Reference{
		Kind:      kind,
		From:      from.ID,
		To:        to.ID,
		USR:       to.USR(),
		Location:  from.Location,
		Related:   true,
		Synthetic: true,
	})
	return added
}

// retainTree retains d and everything nested in it
func retainTree(g *graph.Graph, d *source.Declaration) {
	g.MarkRetained(d.ID)
	for _, child := range g.Descendants(d.ID) {
		g.MarkRetained(child.ID)
	}
}

// members returns the members of a type, including those declared in its
// extensions.
func members(g *graph.Graph, typ *source.Declaration) []*source.Declaration {
	out := g.Children(typ.ID)
	for _, ext := range g.Extensions(typ.ID) {
		out = append(out, g.Children(ext.ID)...)
	}
	return out
}

// owningType returns the type a member belongs to, looking through
// extensions to the extended type.
func owningType(g *graph.Graph, d *source.Declaration) (*source.Declaration, bool) {
	parent := g.Parent(d.ID)
	if parent == nil {
		return nil, false
	}
	if parent.Kind.IsExtension() {
		return g.ExtendedDeclaration(parent.ID)
	}
	return parent, true
}

// inheritedNames collects the names of every supertype of d: names listed
// by d and its extensions, plus the names and listed supertypes of every
// in-graph supertype.
func inheritedNames(g *graph.Graph, d *source.Declaration) map[string]bool {
	names := make(map[string]bool)
	add := func(decl *source.Declaration) {
		for _, n := range decl.InheritedTypes {
			names[n] = true
		}
		for _, ext := range g.Extensions(decl.ID) {
			for _, n := range ext.InheritedTypes {
				names[n] = true
			}
		}
	}

	add(d)
	for _, super := range g.InheritanceClosure(d.ID) {
		names[super.Name] = true
		add(super)
	}
	return names
}

// inheritsAny reports whether d inherits from or conforms to any of names
func inheritsAny(g *graph.Graph, d *source.Declaration, names ...string) bool {
	inherited := inheritedNames(g, d)
	for _, n := range names {
		if inherited[n] {
			return true
		}
	}
	return false
}

// baseName strips the argument list from a function name: "save(to:)" is "save"
func baseName(name string) string {
	for i, r := range name {
		if r == '(' {
			return name[:i]
		}
	}
	return name
}

func isProtocolMember(g *graph.Graph, d *source.Declaration) bool {
	parent := g.Parent(d.ID)
	return parent != nil && parent.Kind == source.KindProtocol
}
