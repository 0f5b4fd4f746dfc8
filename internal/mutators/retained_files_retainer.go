package mutators

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/glob"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
)

// RetainedFilesRetainer retains every declaration in files matching the
// retain_files globs.
type RetainedFilesRetainer struct {
	pass
}

// NewRetainedFilesRetainer creates the pass
func NewRetainedFilesRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &RetainedFilesRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *RetainedFilesRetainer) Name() string { return "RetainedFilesRetainer" }

// Mutate implements Mutator
func (m *RetainedFilesRetainer) Mutate(g *graph.Graph) error {
	matcher := glob.New(m.cfg.ProjectRoot, m.cfg.RetainFiles)
	if matcher.Empty() {
		return nil
	}
	for _, file := range g.Files() {
		if !matcher.Match(file) {
			continue
		}
		for _, d := range g.WithinFileScope(file) {
			g.MarkRetained(d.ID)
		}
	}
	return nil
}
