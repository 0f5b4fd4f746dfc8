package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// GenericClassAndStructConstructorReferenceBuilder references every
// initializer of a generic class or struct from the type. The index
// attributes a construction of a specialized generic type to the type
// rather than to the initializer it called.
type GenericClassAndStructConstructorReferenceBuilder struct {
	pass
}

// NewGenericClassAndStructConstructorReferenceBuilder creates the pass
func NewGenericClassAndStructConstructorReferenceBuilder(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &GenericClassAndStructConstructorReferenceBuilder{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *GenericClassAndStructConstructorReferenceBuilder) Name() string {
	return "GenericClassAndStructConstructorReferenceBuilder"
}

// Mutate implements Mutator
func (m *GenericClassAndStructConstructorReferenceBuilder) Mutate(g *graph.Graph) error {
	for _, typ := range g.DeclarationsOfKind(source.KindClass, source.KindStruct) {
		children := g.Children(typ.ID)
		if !hasGenericParams(children) {
			continue
		}
		for _, child := range children {
			if child.Kind == source.KindFunctionConstructor {
				addSynthetic(g, typ, child, source.RefCall)
			}
		}
	}
	return nil
}

func hasGenericParams(children []*source.Declaration) bool {
	for _, child := range children {
		if child.Kind == source.KindGenericTypeParam {
			return true
		}
	}
	return false
}
