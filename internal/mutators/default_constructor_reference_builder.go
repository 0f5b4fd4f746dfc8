package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// DefaultConstructorReferenceBuilder references a type's parameterless
// initializer and its deinitializer from the type. Both run without the
// index recording a call: init() through type metadata, deinit on release.
type DefaultConstructorReferenceBuilder struct {
	pass
}

// NewDefaultConstructorReferenceBuilder creates the pass
func NewDefaultConstructorReferenceBuilder(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &DefaultConstructorReferenceBuilder{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *DefaultConstructorReferenceBuilder) Name() string { return "DefaultConstructorReferenceBuilder" }

// Mutate implements Mutator
func (m *DefaultConstructorReferenceBuilder) Mutate(g *graph.Graph) error {
	for _, typ := range g.DeclarationsOfKind(source.ConcreteTypeKinds...) {
		for _, member := range g.Children(typ.ID) {
			isDefault := member.Kind == source.KindFunctionConstructor && member.Name == "init()"
			if isDefault || member.Kind == source.KindFunctionDestructor {
				addSynthetic(g, typ, member, source.RefCall)
			}
		}
	}
	return nil
}
