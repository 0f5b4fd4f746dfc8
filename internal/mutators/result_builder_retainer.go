package mutators

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// ResultBuilderRetainer retains the static build methods of @resultBuilder
// types. Calls to them are synthesized by the compiler and never indexed.
type ResultBuilderRetainer struct {
	pass
}

// NewResultBuilderRetainer creates the pass
func NewResultBuilderRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &ResultBuilderRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *ResultBuilderRetainer) Name() string { return "ResultBuilderRetainer" }

// Mutate implements Mutator
func (m *ResultBuilderRetainer) Mutate(g *graph.Graph) error {
	for _, typ := range g.DeclarationsOfKind(source.ConcreteTypeKinds...) {
		if !typ.HasAttribute(source.AttrResultBuilder) {
			continue
		}
		for _, member := range members(g, typ) {
			if member.Kind == source.KindFunctionMethodStatic && strings.HasPrefix(member.Name, "build") {
				g.MarkRetained(member.ID)
			}
		}
	}
	return nil
}
