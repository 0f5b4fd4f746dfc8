package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// UnknownTypeExtensionRetainer retains every member of an extension whose
// extended type is not in the graph, since uses through that type cannot be
// seen.
type UnknownTypeExtensionRetainer struct {
	pass
}

// NewUnknownTypeExtensionRetainer creates the pass
func NewUnknownTypeExtensionRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &UnknownTypeExtensionRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *UnknownTypeExtensionRetainer) Name() string { return "UnknownTypeExtensionRetainer" }

// Mutate implements Mutator
func (m *UnknownTypeExtensionRetainer) Mutate(g *graph.Graph) error {
	for _, ext := range g.DeclarationsOfKind(source.ExtensionKinds...) {
		if _, ok := g.ExtendedDeclaration(ext.ID); ok {
			continue
		}
		retainTree(g, ext)
		m.logger.WithFields(logrus.Fields{
			"extension": ext.Name,
			"file":      ext.Location.File,
		}).Debug("Retaining extension of unknown type")
	}
	return nil
}
