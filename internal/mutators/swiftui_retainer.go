package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

var previewProviders = []string{"PreviewProvider", "LibraryContentProvider"}

// SwiftUIRetainer retains SwiftUI previews, which only Xcode instantiates.
type SwiftUIRetainer struct {
	pass
}

// NewSwiftUIRetainer creates the pass
func NewSwiftUIRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &SwiftUIRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *SwiftUIRetainer) Name() string { return "SwiftUIRetainer" }

// Mutate implements Mutator
func (m *SwiftUIRetainer) Mutate(g *graph.Graph) error {
	for _, typ := range g.DeclarationsOfKind(source.ConcreteTypeKinds...) {
		if !inheritsAny(g, typ, previewProviders...) {
			continue
		}
		g.MarkRetained(typ.ID)
		for _, member := range members(g, typ) {
			switch member.Name {
			case "previews", "views", "modifiers":
				g.MarkRetained(member.ID)
			}
		}
	}
	return nil
}
