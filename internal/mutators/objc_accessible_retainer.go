package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// ObjCAccessibleRetainer retains declarations reachable through the
// Objective-C runtime, where uses are invisible to the index. With
// retain_objc_annotated only explicit @objc and @objcMembers count; with
// retain_objc_accessible members of NSObject subclasses count too.
type ObjCAccessibleRetainer struct {
	pass
}

// NewObjCAccessibleRetainer creates the pass
func NewObjCAccessibleRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &ObjCAccessibleRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *ObjCAccessibleRetainer) Name() string { return "ObjCAccessibleRetainer" }

// Mutate implements Mutator
func (m *ObjCAccessibleRetainer) Mutate(g *graph.Graph) error {
	if !m.cfg.RetainObjCAccessible && !m.cfg.RetainObjCAnnotated {
		return nil
	}

	for _, d := range g.Declarations() {
		if d.HasAttribute(source.AttrNonObjC) {
			continue
		}
		if d.HasAttribute(source.AttrObjC) || d.HasAttribute(source.AttrObjCMembers) {
			g.MarkRetained(d.ID)
		}

		if !d.Kind.IsConcreteType() && !d.Kind.IsExtension() {
			continue
		}
		exposesMembers := d.HasAttribute(source.AttrObjCMembers)
		if m.cfg.RetainObjCAccessible && d.Kind == source.KindClass && inheritsAny(g, d, "NSObject") {
			exposesMembers = true
		}
		if !exposesMembers {
			continue
		}
		for _, member := range g.Children(d.ID) {
			if member.HasAttribute(source.AttrNonObjC) || member.Accessibility < source.AccessInternal {
				continue
			}
			g.MarkRetained(member.ID)
		}
	}
	return nil
}
