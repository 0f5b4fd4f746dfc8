package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// EntryPointAttributeRetainer retains program entry points: types marked
// @main, @UIApplicationMain or @NSApplicationMain and their static main().
type EntryPointAttributeRetainer struct {
	pass
}

// NewEntryPointAttributeRetainer creates the pass
func NewEntryPointAttributeRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &EntryPointAttributeRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *EntryPointAttributeRetainer) Name() string { return "EntryPointAttributeRetainer" }

// Mutate implements Mutator
func (m *EntryPointAttributeRetainer) Mutate(g *graph.Graph) error {
	for _, d := range g.Declarations() {
		if !d.HasAttribute(source.AttrMain) &&
			!d.HasAttribute(source.AttrUIApplicationMain) &&
			!d.HasAttribute(source.AttrNSApplicationMain) {
			continue
		}
		g.MarkRetained(d.ID)
		for _, member := range members(g, d) {
			if member.Kind == source.KindFunctionMethodStatic && baseName(member.Name) == "main" {
				g.MarkRetained(member.ID)
			}
		}
	}
	return nil
}
