package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// DeclarationMarker is the terminal pass. It walks ordinary references from
// the root set (retained declarations and targets of root references) and
// disposes every declaration it does not reach as unused. Reaching a member
// reaches its ancestors, and reaching an extension reaches the extended
// type.
type DeclarationMarker struct {
	pass
}

// NewDeclarationMarker creates the pass
func NewDeclarationMarker(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &DeclarationMarker{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *DeclarationMarker) Name() string { return "DeclarationMarker" }

// Mutate implements Mutator
func (m *DeclarationMarker) Mutate(g *graph.Graph) error {
	reached := make(map[source.DeclID]bool)
	var queue []source.DeclID

	visit := func(id source.DeclID) {
		if !reached[id] {
			reached[id] = true
			queue = append(queue, id)
		}
	}

	decls := g.Declarations()
	for _, d := range decls {
		if d.IsRetained() {
			visit(d.ID)
		}
	}
	for _, ref := range g.RootReferences() {
		if !ref.Related {
			visit(ref.To)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, ref := range g.ReferencesFrom(id) {
			if !ref.Related {
				visit(ref.To)
			}
		}
		if parent := g.Parent(id); parent != nil {
			visit(parent.ID)
		}
		if d := g.Decl(id); d != nil && d.Kind.IsExtension() {
			if ext, ok := g.ExtendedDeclaration(id); ok {
				visit(ext.ID)
			}
		}
	}

	unused := 0
	for _, d := range decls {
		if reached[d.ID] {
			continue
		}
		g.Mark(d.ID, source.DispositionUnused)
		unused++
	}

	m.logger.WithFields(logrus.Fields{
		"reached": len(reached),
		"unused":  unused,
	}).Debug("marked declarations")
	return nil
}
