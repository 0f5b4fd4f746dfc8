// Package filter narrows extracted results: branch diff first, then the
// baseline, then include/exclude globs.
package filter

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/baseline"
	"github.com/peripheryapp/periphery-sub003/internal/errors"
	"github.com/peripheryapp/periphery-sub003/internal/git"
	"github.com/peripheryapp/periphery-sub003/internal/glob"
	"github.com/peripheryapp/periphery-sub003/internal/logging"
	"github.com/peripheryapp/periphery-sub003/internal/results"
)

// Stage is one pure filter over a result list
type Stage interface {
	Name() string
	Apply(ctx context.Context, rs []results.ScanResult) ([]results.ScanResult, error)
}

// Chain applies stages in order. A stage failing with a filter error is
// skipped; any other error aborts the chain.
type Chain struct {
	stages []Stage
	logger logrus.FieldLogger
}

// NewChain creates a chain. Nil stages are dropped.
func NewChain(logger logrus.FieldLogger, stages ...Stage) *Chain {
	if logger == nil {
		logger = logging.Discard()
	}
	c := &Chain{logger: logger}
	for _, s := range stages {
		if s != nil {
			c.stages = append(c.stages, s)
		}
	}
	return c
}

// Apply runs every stage
func (c *Chain) Apply(ctx context.Context, rs []results.ScanResult) ([]results.ScanResult, error) {
	for _, s := range c.stages {
		out, err := s.Apply(ctx, rs)
		if err != nil {
			if errors.IsType(err, errors.ErrorTypeFilter) {
				c.logger.WithField("filter", s.Name()).WithError(err).Debug("filter skipped")
				continue
			}
			return nil, err
		}
		c.logger.WithFields(logrus.Fields{
			"filter": s.Name(),
			"before": len(rs),
			"after":  len(out),
		}).Debug("filter applied")
		rs = out
	}
	return rs, nil
}

// Diff keeps results located on lines added or modified since the branch
// point from a base branch.
type Diff struct {
	Repo       *git.Repo
	BaseBranch string
}

// Name implements Stage
func (d *Diff) Name() string { return "diff" }

// Apply implements Stage
func (d *Diff) Apply(ctx context.Context, rs []results.ScanResult) ([]results.ScanResult, error) {
	changes, err := d.Repo.ChangedLines(ctx, d.BaseBranch)
	if err != nil {
		return nil, errors.FilterError(err, "branch diff unavailable").
			WithContext("base_branch", d.BaseBranch)
	}
	return keep(rs, func(r results.ScanResult) bool {
		return changes.Contains(r.Location.File, r.Location.Line)
	}), nil
}

// Baseline drops results accepted by a baseline
type Baseline struct {
	Baseline *baseline.Baseline
	Logger   logrus.FieldLogger
}

// Name implements Stage
func (b *Baseline) Name() string { return "baseline" }

// Apply implements Stage
func (b *Baseline) Apply(_ context.Context, rs []results.ScanResult) ([]results.ScanResult, error) {
	out := keep(rs, func(r results.ScanResult) bool {
		return !b.Baseline.Contains(r)
	})
	if len(out) == len(rs) && b.Baseline.Len() > 0 && b.Logger != nil {
		b.Logger.WithField("baseline_size", b.Baseline.Len()).
			Warn("baseline did not filter any results, it may be stale")
	}
	return out, nil
}

// Glob keeps results whose file matches an include pattern (when any are
// given) and no exclude pattern.
type Glob struct {
	Include *glob.Matcher
	Exclude *glob.Matcher
}

// Name implements Stage
func (g *Glob) Name() string { return "glob" }

// Apply implements Stage
func (g *Glob) Apply(_ context.Context, rs []results.ScanResult) ([]results.ScanResult, error) {
	return keep(rs, func(r results.ScanResult) bool {
		file := r.Location.File
		if g.Include != nil && !g.Include.Empty() && !g.Include.Match(file) {
			return false
		}
		return g.Exclude == nil || !g.Exclude.Match(file)
	}), nil
}

func keep(rs []results.ScanResult, pred func(results.ScanResult) bool) []results.ScanResult {
	out := make([]results.ScanResult, 0, len(rs))
	for _, r := range rs {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
