package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// ComplexPropertyAccessorReferenceBuilder references explicit accessors
// (get, set, willSet, didSet) from their property, since any use of the
// property runs them.
type ComplexPropertyAccessorReferenceBuilder struct {
	pass
}

// NewComplexPropertyAccessorReferenceBuilder creates the pass
func NewComplexPropertyAccessorReferenceBuilder(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &ComplexPropertyAccessorReferenceBuilder{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *ComplexPropertyAccessorReferenceBuilder) Name() string {
	return "ComplexPropertyAccessorReferenceBuilder"
}

// Mutate implements Mutator
func (m *ComplexPropertyAccessorReferenceBuilder) Mutate(g *graph.Graph) error {
	for _, prop := range g.DeclarationsOfKind(source.VariableKinds...) {
		for _, child := range g.Children(prop.ID) {
			if child.Kind.IsAccessor() {
				addSynthetic(g, prop, child, source.RefCall)
			}
		}
	}
	return nil
}
