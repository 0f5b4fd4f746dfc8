package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// DynamicMemberRetainer retains subscript(dynamicMember:) on
// @dynamicMemberLookup types.
type DynamicMemberRetainer struct {
	pass
}

// NewDynamicMemberRetainer creates the pass
func NewDynamicMemberRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &DynamicMemberRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *DynamicMemberRetainer) Name() string { return "DynamicMemberRetainer" }

// Mutate implements Mutator
func (m *DynamicMemberRetainer) Mutate(g *graph.Graph) error {
	types := g.DeclarationsOfKind(append(source.ConcreteTypeKinds, source.KindProtocol)...)
	for _, typ := range types {
		if !typ.HasAttribute(source.AttrDynamicMemberLookup) {
			continue
		}
		for _, member := range members(g, typ) {
			if member.Kind == source.KindFunctionSubscript && member.Name == "subscript(dynamicMember:)" {
				g.MarkRetained(member.ID)
			}
		}
	}
	return nil
}
