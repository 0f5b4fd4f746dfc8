package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// AssignOnlyPropertyReferenceEliminator finds stored properties that are
// written but never read. Their write references are removed so the
// Declaration Marker leaves them unreached, and they are reported as
// assign-only.
type AssignOnlyPropertyReferenceEliminator struct {
	pass
}

// NewAssignOnlyPropertyReferenceEliminator creates the pass
func NewAssignOnlyPropertyReferenceEliminator(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &AssignOnlyPropertyReferenceEliminator{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *AssignOnlyPropertyReferenceEliminator) Name() string {
	return "AssignOnlyPropertyReferenceEliminator"
}

// Mutate implements Mutator
func (m *AssignOnlyPropertyReferenceEliminator) Mutate(g *graph.Graph) error {
	if m.cfg.RetainAssignOnlyProperties {
		return nil
	}

	retainedTypes := make(map[string]bool, len(m.cfg.RetainAssignOnlyPropertyTypes))
	for _, t := range m.cfg.RetainAssignOnlyPropertyTypes {
		retainedTypes[t] = true
	}

	kinds := []source.Kind{source.KindVarInstance, source.KindVarStatic, source.KindVarClass, source.KindVarGlobal}
	for _, prop := range g.DeclarationsOfKind(kinds...) {
		if !m.candidate(g, prop, retainedTypes) {
			continue
		}

		var writes []source.RefID
		read := false
		for _, ref := range g.ReferencesTo(prop.ID) {
			if ref.Related {
				continue
			}
			if ref.Kind == source.RefWrite {
				writes = append(writes, ref.ID)
			} else {
				read = true
				break
			}
		}
		if read || len(writes) == 0 {
			continue
		}

		g.MarkAssignOnly(prop.ID)
		for _, id := range writes {
			g.RemoveReference(id)
		}
		m.logger.WithField("property", prop.Name).Debug("assign-only property")
	}
	return nil
}

func (m *AssignOnlyPropertyReferenceEliminator) candidate(g *graph.Graph, prop *source.Declaration, retainedTypes map[string]bool) bool {
	switch {
	case prop.IsRetained(), prop.Ignored, prop.IsOverride():
		return false
	case len(prop.Attributes) > 0:
		return false
	case prop.DeclaredType != "" && retainedTypes[prop.DeclaredType]:
		return false
	case isProtocolMember(g, prop):
		return false
	}
	for _, child := range g.Children(prop.ID) {
		if child.Kind.IsAccessor() {
			return false
		}
	}
	return true
}
