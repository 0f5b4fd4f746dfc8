package mutators

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// PropertyWrapperRetainer retains the members of @propertyWrapper types the
// compiler calls on the wrapper's behalf.
type PropertyWrapperRetainer struct {
	pass
}

// NewPropertyWrapperRetainer creates the pass
func NewPropertyWrapperRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &PropertyWrapperRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *PropertyWrapperRetainer) Name() string { return "PropertyWrapperRetainer" }

// Mutate implements Mutator
func (m *PropertyWrapperRetainer) Mutate(g *graph.Graph) error {
	for _, typ := range g.DeclarationsOfKind(source.ConcreteTypeKinds...) {
		if !typ.HasAttribute(source.AttrPropertyWrapper) {
			continue
		}
		for _, member := range members(g, typ) {
			if isWrapperMember(member) {
				g.MarkRetained(member.ID)
			}
		}
	}
	return nil
}

func isWrapperMember(d *source.Declaration) bool {
	switch {
	case d.Kind == source.KindVarInstance:
		return d.Name == "wrappedValue" || d.Name == "projectedValue"
	case d.Kind == source.KindFunctionConstructor:
		return strings.HasPrefix(d.Name, "init(wrappedValue:") || strings.HasPrefix(d.Name, "init(projectedValue:")
	}
	return false
}
