// Package indexer decodes index units in parallel and merges them into a
// source graph with a single writer.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/peripheryapp/periphery-sub003/internal/cache"
	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/errors"
	"github.com/peripheryapp/periphery-sub003/internal/glob"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/indexstore"
)

// Options controls which units are indexed
type Options struct {
	ProjectRoot        string
	SourceFiles        []string
	Exclude            []string
	RequireSourceFiles bool
	Workers            int
}

// OptionsFromConfig extracts indexing options from the scan configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ProjectRoot:        cfg.ProjectRoot,
		SourceFiles:        cfg.SourceFiles,
		Exclude:            cfg.IndexExclude,
		RequireSourceFiles: cfg.RequireSourceFiles,
		Workers:            cfg.Workers,
	}
}

// Stats summarizes one indexing run
type Stats struct {
	Units             int
	CacheHits         int
	Excluded          int
	Declarations      int
	References        int
	DroppedReferences int
	GraphWarnings     int
	Imports           int
	Duration          time.Duration
	Errors            []error
}

// Indexer builds a source graph from one or more index stores
type Indexer struct {
	stores  []indexstore.Store
	cache   *cache.UnitCache
	opts    Options
	exclude *glob.Matcher
	logger  logrus.FieldLogger
}

// New creates an indexer over stores
func New(stores []indexstore.Store, opts Options, logger logrus.FieldLogger) *Indexer {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.ProjectRoot == "" {
		opts.ProjectRoot = "."
	}
	return &Indexer{
		stores:  stores,
		opts:    opts,
		exclude: glob.New(opts.ProjectRoot, opts.Exclude),
		logger:  logger,
	}
}

// WithCache makes the indexer reuse decoded units across runs
func (ix *Indexer) WithCache(c *cache.UnitCache) *Indexer {
	ix.cache = c
	return ix
}

type job struct {
	store int
	info  indexstore.UnitInfo
}

type decoded struct {
	job  job
	unit *indexstore.Unit
	hit  bool
	err  error
}

// Index decodes every unit and returns the completed graph. Per-unit
// failures are collected in Stats.Errors and do not stop indexing.
func (ix *Indexer) Index(ctx context.Context) (*graph.Graph, *Stats, error) {
	start := time.Now()
	stats := &Stats{}

	jobs, err := ix.listUnits(ctx)
	if err != nil {
		return nil, nil, err
	}

	units, err := ix.decode(ctx, jobs)
	if err != nil {
		return nil, nil, err
	}

	var kept []*indexstore.Unit
	for _, d := range units {
		if d.err != nil {
			ix.fail(stats, errors.IndexingError(d.err, d.job.info.Name))
			continue
		}
		if d.hit {
			stats.CacheHits++
		}
		if skip, err := ix.skip(d.unit); err != nil {
			ix.fail(stats, err)
			continue
		} else if skip {
			stats.Excluded++
			continue
		}
		kept = append(kept, d.unit)
	}
	stats.Units = len(kept)

	g := graph.New()
	ix.merge(g, kept, stats)
	g.IndexingComplete()

	stats.Duration = time.Since(start)
	ix.logger.WithFields(logrus.Fields{
		"units":        stats.Units,
		"cache_hits":   stats.CacheHits,
		"excluded":     stats.Excluded,
		"declarations": stats.Declarations,
		"references":   stats.References,
		"warnings":     stats.GraphWarnings,
		"errors":       len(stats.Errors),
		"duration":     stats.Duration,
	}).Debug("Indexing complete")

	return g, stats, nil
}

func (ix *Indexer) fail(stats *Stats, err error) {
	stats.Errors = append(stats.Errors, err)
	ix.logger.WithError(err).Warn("Skipping unit")
}

// warn records a graph consistency problem. The offending edge has already
// been skipped; indexing continues.
func (ix *Indexer) warn(stats *Stats, err *errors.Error, file string) {
	stats.GraphWarnings++
	ix.logger.WithField("file", file).WithError(err).Debug("Graph consistency warning")
}

func (ix *Indexer) listUnits(ctx context.Context) ([]job, error) {
	var jobs []job
	for i, store := range ix.stores {
		infos, err := store.Units(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeIndexing, errors.SeverityCritical,
				fmt.Sprintf("failed to list index store %s", store.Path())).
				WithHint("check that the index store path is readable and was produced by a complete build")
		}
		for _, info := range infos {
			jobs = append(jobs, job{store: i, info: info})
		}
	}
	return jobs, nil
}

// decode reads units concurrently. Results keep the job order so merging
// is deterministic regardless of scheduling.
func (ix *Indexer) decode(ctx context.Context, jobs []job) ([]decoded, error) {
	results := make([]decoded, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.opts.Workers)

	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ix.decodeOne(ctx, j)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("indexing cancelled: %w", err)
	}
	return results, nil
}

func (ix *Indexer) decodeOne(ctx context.Context, j job) decoded {
	store := ix.stores[j.store]

	var key string
	if ix.cache != nil {
		key = cache.Key(store.Path(), j.info)
		if unit, ok := ix.cache.Get(key); ok {
			return decoded{job: j, unit: unit, hit: true}
		}
	}

	unit, err := store.ReadUnit(ctx, j.info)
	if err != nil {
		return decoded{job: j, err: err}
	}

	if ix.cache != nil {
		if err := ix.cache.Put(key, unit); err != nil {
			ix.logger.WithError(err).WithField("unit", j.info.Name).Debug("Failed to cache unit")
		}
	}
	return decoded{job: j, unit: unit}
}

// skip applies the source file restriction, the exclusion globs and the
// source file presence check.
func (ix *Indexer) skip(unit *indexstore.Unit) (bool, error) {
	matcher := ix.exclude
	if matcher.Match(unit.File) {
		return true, nil
	}

	if len(ix.opts.SourceFiles) > 0 {
		rel := matcher.Relative(unit.File)
		found := false
		for _, f := range ix.opts.SourceFiles {
			if matcher.Relative(f) == rel {
				found = true
				break
			}
		}
		if !found {
			return true, nil
		}
	}

	if ix.opts.RequireSourceFiles {
		path := unit.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(ix.opts.ProjectRoot, path)
		}
		if _, err := os.Stat(path); err != nil {
			return true, errors.IndexingError(err, unit.File).
				WithHint("the index store is older than the sources; rebuild it")
		}
	}
	return false, nil
}
