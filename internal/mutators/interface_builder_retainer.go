package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

var interfaceBuilderAttributes = []string{
	source.AttrIBOutlet,
	source.AttrIBAction,
	source.AttrIBInspectable,
	source.AttrIBSegueAction,
}

// InterfaceBuilderPropertyRetainer retains outlets and actions connected
// from storyboards and nibs, which the index does not cover.
type InterfaceBuilderPropertyRetainer struct {
	pass
}

// NewInterfaceBuilderPropertyRetainer creates the pass
func NewInterfaceBuilderPropertyRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &InterfaceBuilderPropertyRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *InterfaceBuilderPropertyRetainer) Name() string { return "InterfaceBuilderPropertyRetainer" }

// Mutate implements Mutator
func (m *InterfaceBuilderPropertyRetainer) Mutate(g *graph.Graph) error {
	for _, d := range g.Declarations() {
		for _, attr := range interfaceBuilderAttributes {
			if d.HasAttribute(attr) {
				g.MarkRetained(d.ID)
				break
			}
		}
	}
	return nil
}
