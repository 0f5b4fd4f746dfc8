package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// ProtocolExtensionReferenceBuilder references default implementations in
// protocol extensions from the requirement they implement. A call through
// the requirement may dispatch to the default.
type ProtocolExtensionReferenceBuilder struct {
	pass
}

// NewProtocolExtensionReferenceBuilder creates the pass
func NewProtocolExtensionReferenceBuilder(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &ProtocolExtensionReferenceBuilder{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *ProtocolExtensionReferenceBuilder) Name() string { return "ProtocolExtensionReferenceBuilder" }

// Mutate implements Mutator
func (m *ProtocolExtensionReferenceBuilder) Mutate(g *graph.Graph) error {
	for _, ext := range g.DeclarationsOfKind(source.KindExtensionProto) {
		proto, ok := g.ExtendedDeclaration(ext.ID)
		if !ok {
			continue
		}

		requirements := make(map[string]*source.Declaration)
		for _, req := range g.Children(proto.ID) {
			requirements[string(req.Kind)+" "+req.Name] = req
		}

		for _, impl := range g.Children(ext.ID) {
			if req, ok := requirements[string(impl.Kind)+" "+impl.Name]; ok {
				addSynthetic(g, req, impl, source.RefProtocolImpl)
			}
		}
	}
	return nil
}
