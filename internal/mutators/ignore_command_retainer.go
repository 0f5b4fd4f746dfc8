package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// IgnoreCommandRetainer retains declarations annotated with
// `// periphery:ignore`, together with everything nested in them, and hides
// them from results.
type IgnoreCommandRetainer struct {
	pass
}

// NewIgnoreCommandRetainer creates the pass
func NewIgnoreCommandRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &IgnoreCommandRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *IgnoreCommandRetainer) Name() string { return "IgnoreCommandRetainer" }

// Mutate implements Mutator
func (m *IgnoreCommandRetainer) Mutate(g *graph.Graph) error {
	for _, d := range g.Declarations() {
		if _, ok := d.Command(source.CommandIgnore); !ok {
			continue
		}
		g.MarkIgnored(d.ID)
		for _, child := range g.Descendants(d.ID) {
			g.MarkIgnored(child.ID)
		}
	}
	return nil
}
