package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// CodingKeyEnumReferenceBuilder links Codable types to their CodingKey
// enums. Synthesized encode(to:) and init(from:) use every key, so each
// case gets a synthetic reference from the enum and the enum one from its
// owning type.
type CodingKeyEnumReferenceBuilder struct {
	pass
}

// NewCodingKeyEnumReferenceBuilder creates the pass
func NewCodingKeyEnumReferenceBuilder(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &CodingKeyEnumReferenceBuilder{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *CodingKeyEnumReferenceBuilder) Name() string { return "CodingKeyEnumReferenceBuilder" }

// Mutate implements Mutator
func (m *CodingKeyEnumReferenceBuilder) Mutate(g *graph.Graph) error {
	codable := codableProtocols(m.cfg, true)

	for _, enum := range g.DeclarationsOfKind(source.KindEnum) {
		if !inheritsAny(g, enum, "CodingKey") {
			continue
		}
		owner, ok := owningType(g, enum)
		if !ok || !inheritsAny(g, owner, codable...) {
			continue
		}

		addSynthetic(g, owner, enum, source.RefType)
		for _, member := range members(g, enum) {
			if member.Kind == source.KindEnumElement {
				addSynthetic(g, enum, member, source.RefRead)
			}
		}
	}
	return nil
}

// codableProtocols lists the protocol names that make a type serializable.
// Decodable is included only when decoding counts.
func codableProtocols(cfg *config.Config, decodable bool) []string {
	names := []string{"Codable", "Encodable"}
	if decodable {
		names = append(names, "Decodable")
	}
	names = append(names, cfg.ExternalCodableProtocols...)
	return append(names, cfg.ExternalEncodableProtocols...)
}
