package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// AncestralReferenceEliminator removes references from a declaration to
// itself or to one of its ancestors. Recursion and a type naming itself
// inside its own body are not uses. An extension's ancestors include the
// type it extends.
type AncestralReferenceEliminator struct {
	pass
}

// NewAncestralReferenceEliminator creates the pass
func NewAncestralReferenceEliminator(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &AncestralReferenceEliminator{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *AncestralReferenceEliminator) Name() string { return "AncestralReferenceEliminator" }

// Mutate implements Mutator
func (m *AncestralReferenceEliminator) Mutate(g *graph.Graph) error {
	var doomed []source.RefID
	for _, ref := range g.References() {
		if ref.IsRoot() || ref.Related || ref.Synthetic {
			continue
		}
		if ref.To == ref.From || isAncestor(g, ref.From, ref.To) {
			doomed = append(doomed, ref.ID)
		}
	}
	for _, id := range doomed {
		g.RemoveReference(id)
	}
	return nil
}

func isAncestor(g *graph.Graph, id, candidate source.DeclID) bool {
	for _, anc := range g.Ancestors(id) {
		if anc.ID == candidate {
			return true
		}
		if anc.Kind.IsExtension() {
			if ext, ok := g.ExtendedDeclaration(anc.ID); ok && ext.ID == candidate {
				return true
			}
		}
	}
	return false
}
