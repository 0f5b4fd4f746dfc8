package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// rawValueTypes are the raw types that make an enum constructible from a
// value, which reaches cases dynamically.
var rawValueTypes = []string{
	"CaseIterable", "RawRepresentable",
	"String", "Character", "Int", "Int8", "Int16", "Int32", "Int64",
	"UInt", "UInt8", "UInt16", "UInt32", "UInt64", "Float", "Double",
}

// EnumCaseReferenceBuilder references every case of enums whose cases can
// be reached without naming them: CaseIterable enums through allCases and
// raw-value enums through init(rawValue:).
type EnumCaseReferenceBuilder struct {
	pass
}

// NewEnumCaseReferenceBuilder creates the pass
func NewEnumCaseReferenceBuilder(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &EnumCaseReferenceBuilder{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *EnumCaseReferenceBuilder) Name() string { return "EnumCaseReferenceBuilder" }

// Mutate implements Mutator
func (m *EnumCaseReferenceBuilder) Mutate(g *graph.Graph) error {
	for _, enum := range g.DeclarationsOfKind(source.KindEnum) {
		if !inheritsAny(g, enum, rawValueTypes...) {
			continue
		}
		for _, member := range members(g, enum) {
			if member.Kind == source.KindEnumElement {
				addSynthetic(g, enum, member, source.RefRead)
			}
		}
	}
	return nil
}
