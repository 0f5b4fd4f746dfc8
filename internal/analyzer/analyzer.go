// Package analyzer runs the mutator pipeline over a finished source graph.
package analyzer

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/errors"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/logging"
	"github.com/peripheryapp/periphery-sub003/internal/mutators"
)

// Pipeline is the pass order. Passes share one mutable graph and each
// depends on the effects of the passes above it; moving a line changes
// results. Constraints are noted at the pass that needs them.
var Pipeline = []mutators.Factory{
	// Reads indexed references before any eliminator removes them.
	mutators.NewUnusedImportMarker,

	// Ignored declarations must be retained before any retainer or
	// eliminator inspects dispositions.
	mutators.NewIgnoreCommandRetainer,

	// Effective accessibility feeds the public and Objective-C retainers.
	mutators.NewAccessibilityCascader,

	// Extension links are needed by every pass that walks a type's members
	// through its extensions.
	mutators.NewExtensionReferenceBuilder,
	mutators.NewUnknownTypeExtensionRetainer,

	// Retainers. Order among them does not matter, they only add
	// dispositions.
	mutators.NewPubliclyAccessibleRetainer,
	mutators.NewObjCAccessibleRetainer,
	mutators.NewRetainedFilesRetainer,
	mutators.NewEntryPointAttributeRetainer,
	mutators.NewXCTestRetainer,
	mutators.NewSwiftUIRetainer,
	mutators.NewPropertyWrapperRetainer,
	mutators.NewResultBuilderRetainer,
	mutators.NewStringInterpolationAppendInterpolationRetainer,
	mutators.NewDynamicMemberRetainer,
	mutators.NewInterfaceBuilderPropertyRetainer,
	mutators.NewCodingKeyEnumReferenceBuilder,
	mutators.NewCodablePropertyRetainer,
	mutators.NewEnumCaseReferenceBuilder,

	// Override edges must be in final form before the external override
	// check looks for in-graph bases.
	mutators.NewOverrideReferenceBuilder,
	mutators.NewExternalOverrideRetainer,

	// Needs override and external override flags.
	mutators.NewUnusedParameterRetainer,

	// Reference builders for code the compiler synthesizes.
	mutators.NewDefaultConstructorReferenceBuilder,
	mutators.NewStructImplicitInitializerReferenceBuilder,
	mutators.NewGenericClassAndStructConstructorReferenceBuilder,
	mutators.NewInheritedImplicitInitializerReferenceBuilder,
	mutators.NewComplexPropertyAccessorReferenceBuilder,
	mutators.NewProtocolExtensionReferenceBuilder,
	mutators.NewProtocolConformanceReferenceBuilder,

	// Runs on indexed conformance edges only; synthetic edges are ignored.
	mutators.NewRedundantProtocolMarker,

	// Needs the override edges turned related and the conformance builder's
	// edges in place, otherwise implementations count as protocol uses.
	mutators.NewConformanceOnlyProtocolMarker,

	// Eliminators run after every builder so they see the complete edge set.
	mutators.NewAncestralReferenceEliminator,

	// Must follow the retainers (retained properties are skipped) and the
	// memberwise initializer builder (its writes are candidates).
	mutators.NewAssignOnlyPropertyReferenceEliminator,
	mutators.NewPlainExtensionEliminator,

	// Terminal. Everything above only adds or removes edges and retains.
	mutators.NewDeclarationMarker,
}

// PassStats records one pass execution
type PassStats struct {
	Name     string
	Duration time.Duration
}

// Analyzer runs the pass pipeline
type Analyzer struct {
	cfg       *config.Config
	logger    logrus.FieldLogger
	factories []mutators.Factory
}

// New creates an analyzer running the standard pipeline
func New(cfg *config.Config, logger logrus.FieldLogger) *Analyzer {
	return NewWithPipeline(cfg, logger, Pipeline)
}

// NewWithPipeline creates an analyzer running the given passes in order
func NewWithPipeline(cfg *config.Config, logger logrus.FieldLogger, factories []mutators.Factory) *Analyzer {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Analyzer{cfg: cfg, logger: logger, factories: factories}
}

// Passes instantiates the pipeline for one run
func (a *Analyzer) Passes() []mutators.Mutator {
	passes := make([]mutators.Mutator, 0, len(a.factories))
	for _, f := range a.factories {
		passes = append(passes, f(a.cfg, a.logger))
	}
	return passes
}

// Run applies every pass to g in order. The graph must be frozen.
func (a *Analyzer) Run(g *graph.Graph) ([]PassStats, error) {
	if !g.IsFrozen() {
		return nil, errors.InternalError("analysis started before indexing completed").
			WithHint("call IndexingComplete on the graph before running the analyzer")
	}

	start := time.Now()
	passes := a.Passes()
	stats := make([]PassStats, 0, len(passes))

	for _, p := range passes {
		passStart := time.Now()
		if err := p.Mutate(g); err != nil {
			return stats, errors.Wrap(err, errors.ErrorTypeInternal, errors.SeverityCritical, "pass "+p.Name()+" failed").
				WithContext("pass", p.Name())
		}
		elapsed := time.Since(passStart)
		stats = append(stats, PassStats{Name: p.Name(), Duration: elapsed})

		a.logger.WithFields(logrus.Fields{
			"pass":     p.Name(),
			"duration": elapsed,
		}).Debug("pass complete")
	}

	a.logger.WithFields(logrus.Fields{
		"passes":       len(passes),
		"declarations": g.Len(),
		"duration":     time.Since(start),
	}).Info("analysis complete")

	return stats, nil
}
