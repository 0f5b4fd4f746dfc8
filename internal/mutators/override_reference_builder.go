package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// OverrideReferenceBuilder models dynamic dispatch. The indexed
// override -> base edge becomes related, since overriding a method is not a
// use of it, and a synthetic base -> override edge makes every override
// reachable from a call to the base.
type OverrideReferenceBuilder struct {
	pass
}

// NewOverrideReferenceBuilder creates the pass
func NewOverrideReferenceBuilder(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &OverrideReferenceBuilder{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *OverrideReferenceBuilder) Name() string { return "OverrideReferenceBuilder" }

// Mutate implements Mutator
func (m *OverrideReferenceBuilder) Mutate(g *graph.Graph) error {
	var overrides []*source.Reference
	for _, ref := range g.References() {
		if ref.Kind == source.RefOverride && !ref.Related && !ref.IsRoot() {
			overrides = append(overrides, ref)
		}
	}

	for _, ref := range overrides {
		override, base := g.Decl(ref.From), g.Decl(ref.To)
		if override == nil || base == nil {
			continue
		}
		g.MarkRelated(ref.ID)
		addSynthetic(g, base, override, source.RefOverride)
	}
	return nil
}
