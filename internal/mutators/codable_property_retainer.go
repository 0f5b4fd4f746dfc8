package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// CodablePropertyRetainer retains the stored properties of serializable
// types. retain_codable_properties covers every Codable, Decodable and
// Encodable type; retain_encodable_properties covers only Encodable ones.
type CodablePropertyRetainer struct {
	pass
}

// NewCodablePropertyRetainer creates the pass
func NewCodablePropertyRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &CodablePropertyRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *CodablePropertyRetainer) Name() string { return "CodablePropertyRetainer" }

// Mutate implements Mutator
func (m *CodablePropertyRetainer) Mutate(g *graph.Graph) error {
	var protocols []string
	switch {
	case m.cfg.RetainCodableProperties:
		protocols = codableProtocols(m.cfg, true)
	case m.cfg.RetainEncodableProperties:
		protocols = append([]string{"Encodable"}, m.cfg.ExternalEncodableProtocols...)
	default:
		return nil
	}

	for _, typ := range g.DeclarationsOfKind(source.ConcreteTypeKinds...) {
		if !inheritsAny(g, typ, protocols...) {
			continue
		}
		for _, member := range members(g, typ) {
			if member.Kind == source.KindVarInstance {
				g.MarkRetained(member.ID)
			}
		}
	}
	return nil
}
