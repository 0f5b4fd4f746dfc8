package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
	"github.com/peripheryapp/periphery-sub003/internal/syntax"
)

// UnusedParameterRetainer computes the unused parameters of every function
// with syntax facts, then clears them for signatures the function does not
// own: protocol requirements and their implementations, overrides, required
// initializers and Objective-C entry points.
type UnusedParameterRetainer struct {
	pass
}

// NewUnusedParameterRetainer creates the pass
func NewUnusedParameterRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &UnusedParameterRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *UnusedParameterRetainer) Name() string { return "UnusedParameterRetainer" }

// Mutate implements Mutator
func (m *UnusedParameterRetainer) Mutate(g *graph.Graph) error {
	for _, fn := range g.Declarations() {
		if !fn.Kind.HasParameters() || fn.Syntax == nil {
			continue
		}

		unused := syntax.UnusedParams(fn.Syntax)
		if cmd, ok := fn.Command(source.CommandIgnoreParameters); ok {
			unused = withoutNames(unused, cmd.Params)
		}
		if len(unused) > 0 && m.signatureRetained(g, fn) {
			m.logger.WithFields(logrus.Fields{
				"function": fn.Name,
				"params":   len(unused),
			}).Debug("retaining parameters of externally defined signature")
			unused = nil
		}
		fn.UnusedParameters = unused
	}
	return nil
}

func (m *UnusedParameterRetainer) signatureRetained(g *graph.Graph, fn *source.Declaration) bool {
	switch {
	case isProtocolMember(g, fn):
		return true
	case fn.IsOverride(), fn.ExternalOverride, fn.HasModifier(source.ModRequired):
		return true
	case fn.HasAttribute(source.AttrObjC), fn.HasAttribute(source.AttrIBAction), fn.HasAttribute(source.AttrIBSegueAction):
		return true
	}

	if _, ok := implementedRequirement(g, fn); ok {
		return true
	}
	if m.cfg.RetainUnusedProtocolFuncParams {
		if parent := g.Parent(fn.ID); parent != nil && parent.Kind == source.KindExtensionProto {
			return true
		}
	}
	return false
}

// implementedRequirement finds the in-graph protocol requirement that d
// implements, matching by name and kind across every protocol its owning
// type conforms to. Members of a protocol extension are matched against the
// extended protocol itself.
func implementedRequirement(g *graph.Graph, d *source.Declaration) (*source.Declaration, bool) {
	owner, ok := owningType(g, d)
	if !ok {
		return nil, false
	}

	candidates := g.InheritanceClosure(owner.ID)
	if owner.Kind == source.KindProtocol {
		candidates = append([]*source.Declaration{owner}, candidates...)
	}
	for _, proto := range candidates {
		if proto.Kind != source.KindProtocol {
			continue
		}
		for _, req := range g.Children(proto.ID) {
			if req.ID != d.ID && req.Name == d.Name && req.Kind == d.Kind {
				return req, true
			}
		}
	}
	return nil, false
}

func withoutNames(params []syntax.Param, names []string) []syntax.Param {
	if len(names) == 0 {
		return params
	}
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := params[:0:0]
	for _, p := range params {
		if !skip[p.Name] {
			out = append(out, p)
		}
	}
	return out
}
