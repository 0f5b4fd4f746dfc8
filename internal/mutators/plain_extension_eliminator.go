package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// PlainExtensionEliminator removes extensions that declare nothing: no
// members, no conformances, no comment commands. They carry no usage
// information.
type PlainExtensionEliminator struct {
	pass
}

// NewPlainExtensionEliminator creates the pass
func NewPlainExtensionEliminator(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &PlainExtensionEliminator{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *PlainExtensionEliminator) Name() string { return "PlainExtensionEliminator" }

// Mutate implements Mutator
func (m *PlainExtensionEliminator) Mutate(g *graph.Graph) error {
	var plain []source.DeclID
	for _, ext := range g.DeclarationsOfKind(source.ExtensionKinds...) {
		if isPlainExtension(g, ext) {
			plain = append(plain, ext.ID)
		}
	}
	for _, id := range plain {
		g.Remove(id)
	}
	if len(plain) > 0 {
		m.logger.WithField("extensions", len(plain)).Debug("removed plain extensions")
	}
	return nil
}

func isPlainExtension(g *graph.Graph, ext *source.Declaration) bool {
	if len(ext.Children) > 0 || len(ext.Commands) > 0 || len(ext.InheritedTypes) > 0 || ext.Ignored {
		return false
	}
	for _, ref := range g.ReferencesFrom(ext.ID) {
		if ref.Kind.IsSupertypeEdge() {
			return false
		}
	}
	return true
}
