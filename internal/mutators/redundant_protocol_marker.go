package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// RedundantProtocolMarker flags conformances that another direct supertype
// already implies, e.g. `struct T: P1, P2` where P2 refines P1. The
// conformance edge is flagged for reporting and left in place so that
// everything it keeps alive stays alive.
type RedundantProtocolMarker struct {
	pass
}

// NewRedundantProtocolMarker creates the pass
func NewRedundantProtocolMarker(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &RedundantProtocolMarker{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *RedundantProtocolMarker) Name() string { return "RedundantProtocolMarker" }

// Mutate implements Mutator
func (m *RedundantProtocolMarker) Mutate(g *graph.Graph) error {
	if m.cfg.DisableRedundantConformanceAnalysis {
		return nil
	}

	kinds := append(append([]source.Kind{}, source.ConcreteTypeKinds...), source.KindProtocol)
	for _, typ := range g.DeclarationsOfKind(kinds...) {
		m.markType(g, typ)
	}
	return nil
}

func (m *RedundantProtocolMarker) markType(g *graph.Graph, typ *source.Declaration) {
	conformances := directConformances(g, typ)
	supertypes := g.Supertypes(typ.ID)
	if len(conformances) == 0 || len(supertypes) < 2 {
		return
	}

	redundant := make(map[source.DeclID]bool)

	for _, ref := range conformances {
		for _, other := range supertypes {
			if other.ID == ref.To || redundant[other.ID] {
				continue
			}
			if !g.Inherits(other.ID, ref.To) {
				continue
			}
			g.MarkRedundantConformance(ref.ID, other.ID)
			redundant[ref.To] = true
			m.logger.WithFields(logrus.Fields{
				"type":       typ.Name,
				"protocol":   g.Decl(ref.To).Name,
				"implied_by": other.Name,
			}).Debug("Redundant conformance")
			break
		}
	}
}

// directConformances returns the protocol conformance edges declared by
// typ itself or by its extensions.
func directConformances(g *graph.Graph, typ *source.Declaration) []*source.Reference {
	var out []*source.Reference
	collect := func(from *source.Declaration) {
		for _, r := range g.ReferencesFrom(from.ID) {
			if r.Kind != source.RefConformance || r.Synthetic {
				continue
			}
			if target := g.Decl(r.To); target != nil && target.Kind == source.KindProtocol {
				out = append(out, r)
			}
		}
	}

	collect(typ)
	for _, ext := range g.Extensions(typ.ID) {
		collect(ext)
	}
	return out
}
