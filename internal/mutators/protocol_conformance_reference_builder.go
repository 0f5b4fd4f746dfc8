package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// ProtocolConformanceReferenceBuilder links protocol requirements to the
// members that implement them. A call through the requirement reaches the
// implementation; the implementation keeps a related edge back to the
// requirement. Implementations may be inherited from a superclass.
type ProtocolConformanceReferenceBuilder struct {
	pass
}

// NewProtocolConformanceReferenceBuilder creates the pass
func NewProtocolConformanceReferenceBuilder(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &ProtocolConformanceReferenceBuilder{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *ProtocolConformanceReferenceBuilder) Name() string {
	return "ProtocolConformanceReferenceBuilder"
}

// Mutate implements Mutator
func (m *ProtocolConformanceReferenceBuilder) Mutate(g *graph.Graph) error {
	for _, typ := range g.DeclarationsOfKind(source.ConcreteTypeKinds...) {
		var protocols []*source.Declaration
		for _, super := range g.InheritanceClosure(typ.ID) {
			if super.Kind == source.KindProtocol {
				protocols = append(protocols, super)
			}
		}
		if len(protocols) == 0 {
			continue
		}

		impls := implementations(g, typ)
		for _, proto := range protocols {
			for _, req := range g.Children(proto.ID) {
				impl, ok := impls[string(req.Kind)+" "+req.Name]
				if !ok {
					continue
				}
				addSynthetic(g, req, impl, source.RefProtocolImpl)
				addRelated(g, impl, req, source.RefProtocolImpl)
			}
		}
	}
	return nil
}

// implementations indexes the members available on typ, walking up the
// superclass chain. Members declared closer to typ win.
func implementations(g *graph.Graph, typ *source.Declaration) map[string]*source.Declaration {
	out := make(map[string]*source.Declaration)
	seen := make(map[source.DeclID]bool)
	for cur := typ; cur != nil && !seen[cur.ID]; {
		seen[cur.ID] = true
		for _, member := range members(g, cur) {
			key := string(member.Kind) + " " + member.Name
			if _, ok := out[key]; !ok {
				out[key] = member
			}
		}
		super, ok := g.Superclass(cur.ID)
		if !ok {
			break
		}
		cur = super
	}
	return out
}
