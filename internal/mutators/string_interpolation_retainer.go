package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// StringInterpolationAppendInterpolationRetainer retains appendInterpolation
// overloads, which the index never records a reference to.
type StringInterpolationAppendInterpolationRetainer struct {
	pass
}

// NewStringInterpolationAppendInterpolationRetainer creates the pass
func NewStringInterpolationAppendInterpolationRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &StringInterpolationAppendInterpolationRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *StringInterpolationAppendInterpolationRetainer) Name() string {
	return "StringInterpolationAppendInterpolationRetainer"
}

// Mutate implements Mutator
func (m *StringInterpolationAppendInterpolationRetainer) Mutate(g *graph.Graph) error {
	for _, fn := range g.DeclarationsOfKind(source.KindFunctionMethodInstance) {
		if baseName(fn.Name) != "appendInterpolation" {
			continue
		}
		if parent := g.Parent(fn.ID); parent != nil && parent.Kind.IsExtension() {
			g.MarkRetained(fn.ID)
		}
	}
	return nil
}
