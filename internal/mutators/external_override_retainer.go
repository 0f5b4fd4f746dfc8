package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// ExternalOverrideRetainer retains overrides of declarations outside the
// graph, such as UIKit lifecycle methods. The framework calls them, so no
// in-graph reference ever will.
type ExternalOverrideRetainer struct {
	pass
}

// NewExternalOverrideRetainer creates the pass
func NewExternalOverrideRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &ExternalOverrideRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *ExternalOverrideRetainer) Name() string { return "ExternalOverrideRetainer" }

// Mutate implements Mutator
func (m *ExternalOverrideRetainer) Mutate(g *graph.Graph) error {
	for _, d := range g.Declarations() {
		if d.ExternalOverride || (d.IsOverride() && !overridesInGraph(g, d)) {
			g.MarkRetained(d.ID)
		}
	}
	return nil
}

func overridesInGraph(g *graph.Graph, d *source.Declaration) bool {
	for _, ref := range g.ReferencesFrom(d.ID) {
		if ref.Kind == source.RefOverride {
			return true
		}
	}
	return false
}
