package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// ConformanceOnlyProtocolMarker disposes protocols as redundant when types
// conform to them but nothing uses them as a type, calls their
// requirements or calls members of their extensions.
type ConformanceOnlyProtocolMarker struct {
	pass
}

// NewConformanceOnlyProtocolMarker creates the pass
func NewConformanceOnlyProtocolMarker(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &ConformanceOnlyProtocolMarker{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *ConformanceOnlyProtocolMarker) Name() string { return "ConformanceOnlyProtocolMarker" }

// Mutate implements Mutator
func (m *ConformanceOnlyProtocolMarker) Mutate(g *graph.Graph) error {
	for _, proto := range g.DeclarationsOfKind(source.KindProtocol) {
		if proto.Disposition != source.DispositionDefault || proto.Ignored {
			continue
		}
		if m.isConformanceOnly(g, proto) {
			g.Mark(proto.ID, source.DispositionRedundant)
			m.logger.WithField("protocol", proto.Name).Debug("Protocol is only conformed to")
		}
	}
	return nil
}

func (m *ConformanceOnlyProtocolMarker) isConformanceOnly(g *graph.Graph, proto *source.Declaration) bool {
	inside := map[source.DeclID]bool{proto.ID: true}
	for _, d := range g.Descendants(proto.ID) {
		inside[d.ID] = true
	}
	for _, ext := range g.Extensions(proto.ID) {
		inside[ext.ID] = true
		for _, d := range g.Descendants(ext.ID) {
			inside[d.ID] = true
		}
	}

	conformed := false
	for _, r := range g.ReferencesTo(proto.ID) {
		switch {
		case r.Related || inside[r.From]:
			continue
		case r.Kind == source.RefConformance:
			conformed = true
		default:
			return false
		}
	}
	if !conformed {
		return false
	}

	// Any outside use of a requirement or an extension member means the
	// protocol is used polymorphically or as a mixin.
	for id := range inside {
		if id == proto.ID {
			continue
		}
		for _, r := range g.ReferencesTo(id) {
			if !r.Related && !inside[r.From] {
				return false
			}
		}
	}
	return true
}
