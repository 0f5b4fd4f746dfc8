package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
)

// PubliclyAccessibleRetainer retains public and open declarations when the
// scanned code is a library. It relies on effective accessibility, so it
// runs after the AccessibilityCascader.
type PubliclyAccessibleRetainer struct {
	pass
}

// NewPubliclyAccessibleRetainer creates the pass
func NewPubliclyAccessibleRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &PubliclyAccessibleRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *PubliclyAccessibleRetainer) Name() string { return "PubliclyAccessibleRetainer" }

// Mutate implements Mutator
func (m *PubliclyAccessibleRetainer) Mutate(g *graph.Graph) error {
	if !m.cfg.RetainPublic {
		return nil
	}
	for _, d := range g.Declarations() {
		if d.Accessibility.IsPubliclyAccessible() {
			g.MarkRetained(d.ID)
		}
	}
	return nil
}
