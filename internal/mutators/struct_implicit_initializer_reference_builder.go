package mutators

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// StructImplicitInitializerReferenceBuilder connects a struct's implicit
// memberwise initializer to the stored properties it assigns. The edges
// are writes, so a property only ever set through the initializer is still
// assign-only.
type StructImplicitInitializerReferenceBuilder struct {
	pass
}

// NewStructImplicitInitializerReferenceBuilder creates the pass
func NewStructImplicitInitializerReferenceBuilder(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &StructImplicitInitializerReferenceBuilder{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *StructImplicitInitializerReferenceBuilder) Name() string {
	return "StructImplicitInitializerReferenceBuilder"
}

// Mutate implements Mutator
func (m *StructImplicitInitializerReferenceBuilder) Mutate(g *graph.Graph) error {
	for _, typ := range g.DeclarationsOfKind(source.KindStruct) {
		children := g.Children(typ.ID)

		properties := make(map[string]*source.Declaration)
		for _, child := range children {
			if child.Kind == source.KindVarInstance {
				properties[child.Name] = child
			}
		}

		for _, ctor := range children {
			if ctor.Kind != source.KindFunctionConstructor || !ctor.Implicit {
				continue
			}
			for _, label := range argumentLabels(ctor.Name) {
				if prop, ok := properties[label]; ok {
					addSynthetic(g, ctor, prop, source.RefWrite)
				}
			}
		}
	}
	return nil
}

// argumentLabels splits "init(a:b:)" into ["a", "b"]
func argumentLabels(name string) []string {
	open := strings.IndexByte(name, '(')
	end := strings.LastIndexByte(name, ')')
	if open < 0 || end <= open {
		return nil
	}
	var labels []string
	for _, part := range strings.Split(name[open+1:end], ":") {
		if part != "" && part != "_" {
			labels = append(labels, part)
		}
	}
	return labels
}
