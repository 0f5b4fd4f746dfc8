package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// AccessibilityCascader computes effective accessibility. A member is never
// more visible than its container; members of an extension with an
// explicit level default to that level; protocol members and enum cases
// share their container's level.
type AccessibilityCascader struct {
	pass
}

// NewAccessibilityCascader creates the pass
func NewAccessibilityCascader(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &AccessibilityCascader{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *AccessibilityCascader) Name() string { return "AccessibilityCascader" }

// Mutate implements Mutator
func (m *AccessibilityCascader) Mutate(g *graph.Graph) error {
	var extensions []*source.Declaration

	// Types first, so extensions can inherit their extended type's level
	for _, d := range g.Declarations() {
		if !d.IsRoot() {
			continue
		}
		if d.Kind.IsExtension() {
			extensions = append(extensions, d)
			continue
		}
		d.Accessibility = d.DeclaredAccessibility
		m.cascade(g, d)
	}

	for _, ext := range extensions {
		ext.Accessibility = ext.DeclaredAccessibility
		if extended, ok := g.ExtendedDeclaration(ext.ID); ok {
			if ext.ExplicitAccessibility {
				ext.Accessibility = source.MinAccessibility(ext.DeclaredAccessibility, extended.Accessibility)
			} else {
				ext.Accessibility = extended.Accessibility
			}
		}
		m.cascade(g, ext)
	}
	return nil
}

func (m *AccessibilityCascader) cascade(g *graph.Graph, parent *source.Declaration) {
	for _, child := range g.Children(parent.ID) {
		switch {
		case parent.Kind == source.KindProtocol, child.Kind == source.KindEnumElement:
			child.Accessibility = parent.Accessibility
		case parent.Kind.IsExtension() && parent.ExplicitAccessibility && !child.ExplicitAccessibility:
			child.Accessibility = source.MinAccessibility(parent.DeclaredAccessibility, parent.Accessibility)
		default:
			child.Accessibility = source.MinAccessibility(child.DeclaredAccessibility, parent.Accessibility)
		}
		m.cascade(g, child)
	}
}
