package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// InheritedImplicitInitializerReferenceBuilder connects the implicit
// initializers a subclass inherits to the superclass initializers they
// forward to.
type InheritedImplicitInitializerReferenceBuilder struct {
	pass
}

// NewInheritedImplicitInitializerReferenceBuilder creates the pass
func NewInheritedImplicitInitializerReferenceBuilder(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &InheritedImplicitInitializerReferenceBuilder{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *InheritedImplicitInitializerReferenceBuilder) Name() string {
	return "InheritedImplicitInitializerReferenceBuilder"
}

// Mutate implements Mutator
func (m *InheritedImplicitInitializerReferenceBuilder) Mutate(g *graph.Graph) error {
	for _, class := range g.DeclarationsOfKind(source.KindClass) {
		super, ok := g.Superclass(class.ID)
		if !ok {
			continue
		}

		superInits := make(map[string]*source.Declaration)
		for _, member := range g.Children(super.ID) {
			if member.Kind == source.KindFunctionConstructor {
				superInits[member.Name] = member
			}
		}

		for _, ctor := range g.Children(class.ID) {
			if ctor.Kind != source.KindFunctionConstructor || !ctor.Implicit {
				continue
			}
			if target, ok := superInits[ctor.Name]; ok {
				addSynthetic(g, ctor, target, source.RefCall)
			}
		}
	}
	return nil
}
