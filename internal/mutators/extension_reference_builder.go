package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// ExtensionReferenceBuilder links extensions to the types they extend. The
// extended type uses its extensions, so their conformances become
// reachable with it; the extension's edge back to the type is structural
// and does not keep the type alive.
type ExtensionReferenceBuilder struct {
	pass
}

// NewExtensionReferenceBuilder creates the pass
func NewExtensionReferenceBuilder(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &ExtensionReferenceBuilder{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *ExtensionReferenceBuilder) Name() string { return "ExtensionReferenceBuilder" }

// Mutate implements Mutator
func (m *ExtensionReferenceBuilder) Mutate(g *graph.Graph) error {
	for _, ext := range g.DeclarationsOfKind(source.ExtensionKinds...) {
		extended, ok := g.ExtendedDeclaration(ext.ID)
		if !ok {
			continue
		}
		addSynthetic(g, extended, ext, source.RefExtensionLink)
		addRelated(g, ext, extended, source.RefExtends)

		// The index reports the extended type name inside the extension
		// header as a use from the extension; that is structural too.
		for _, r := range g.ReferencesFrom(ext.ID) {
			if r.To == extended.ID && !r.Synthetic {
				g.MarkRelated(r.ID)
			}
		}
	}
	return nil
}
