package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
)

// UnusedImportMarker flags imports of modules that nothing in the importing
// file references. It only looks at indexed references, so it must run
// before any pass adds synthetic edges.
type UnusedImportMarker struct {
	pass
}

// NewUnusedImportMarker creates the pass
func NewUnusedImportMarker(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &UnusedImportMarker{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *UnusedImportMarker) Name() string { return "UnusedImportMarker" }

// Mutate implements Mutator
func (m *UnusedImportMarker) Mutate(g *graph.Graph) error {
	if m.cfg.DisableUnusedImportAnalysis {
		return nil
	}

	retained := make(map[string]bool, len(m.cfg.RetainUnusedImportedModules))
	for _, mod := range m.cfg.RetainUnusedImportedModules {
		retained[mod] = true
	}

	// Modules referenced from each file
	used := make(map[string]map[string]bool)
	for _, r := range g.References() {
		if r.Synthetic {
			continue
		}
		target := g.Decl(r.To)
		if target == nil {
			continue
		}
		file := r.Location.File
		if used[file] == nil {
			used[file] = make(map[string]bool)
		}
		for _, mod := range target.Modules {
			used[file][mod] = true
		}
	}

	// Modules each file itself belongs to
	own := make(map[string]map[string]bool)
	for _, file := range g.Files() {
		own[file] = make(map[string]bool)
		for _, d := range g.WithinFileScope(file) {
			for _, mod := range d.Modules {
				own[file][mod] = true
			}
		}
	}

	for _, imp := range g.Imports() {
		switch {
		case imp.Exported, imp.Referenced, retained[imp.Module]:
			continue
		case own[imp.File][imp.Module], used[imp.File][imp.Module]:
			continue
		}
		g.MarkImportUnused(imp)
		m.logger.WithFields(logrus.Fields{
			"file":   imp.File,
			"module": imp.Module,
		}).Debug("Unused import")
	}
	return nil
}
