// Package scan runs a complete scan: index, analyze, extract and filter.
package scan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/analyzer"
	"github.com/peripheryapp/periphery-sub003/internal/baseline"
	"github.com/peripheryapp/periphery-sub003/internal/cache"
	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/errors"
	"github.com/peripheryapp/periphery-sub003/internal/filter"
	"github.com/peripheryapp/periphery-sub003/internal/git"
	"github.com/peripheryapp/periphery-sub003/internal/glob"
	"github.com/peripheryapp/periphery-sub003/internal/indexer"
	"github.com/peripheryapp/periphery-sub003/internal/indexstore"
	"github.com/peripheryapp/periphery-sub003/internal/logging"
	"github.com/peripheryapp/periphery-sub003/internal/results"
)

// Scanner coordinates one scan
type Scanner struct {
	config    *config.Config
	logger    logrus.FieldLogger
	gitRunner git.Runner
}

// Result contains the outcome of a scan
type Result struct {
	ScanID     string
	Results    []results.ScanResult
	Unfiltered int
	Index      *indexer.Stats
	Passes     []analyzer.PassStats
	Duration   time.Duration
}

// New creates a scanner
func New(cfg *config.Config, logger logrus.FieldLogger) *Scanner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scanner{config: cfg, logger: logger}
}

// WithGitRunner replaces the git binary used by the branch diff filter
func (s *Scanner) WithGitRunner(r git.Runner) *Scanner {
	s.gitRunner = r
	return s
}

// Run performs the scan. Configuration problems are fatal; per-unit
// indexing failures are logged and counted in Result.Index.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{ScanID: uuid.NewString()}
	log := s.logger.WithField("scan_id", result.ScanID)

	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	stores, err := openStores(s.config.IndexStorePaths)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, st := range stores {
			st.Close()
		}
	}()

	var unitCache *cache.UnitCache
	if s.config.CachePath != "" {
		unitCache, err = cache.Open(s.config.CachePath)
		if err != nil {
			return nil, errors.FileSystemErrorf(err, "failed to open unit cache %s", s.config.CachePath).
				WithHint("remove the cache file or pass a different --cache path")
		}
		defer unitCache.Close()
	}

	log.WithField("stores", len(stores)).Info("Indexing")
	g, stats, err := indexer.New(stores, indexer.OptionsFromConfig(s.config), log).
		WithCache(unitCache).
		Index(ctx)
	if err != nil {
		return nil, err
	}
	result.Index = stats
	for _, e := range stats.Errors {
		log.WithError(e).Warn("unit skipped")
	}

	log.WithField("declarations", g.Len()).Info("Analyzing")
	passes, err := analyzer.New(s.config, log).Run(g)
	if err != nil {
		return nil, err
	}
	result.Passes = passes

	all := results.Extract(g)
	result.Unfiltered = len(all)

	chain, err := s.filters(log)
	if err != nil {
		return nil, err
	}
	result.Results, err = chain.Apply(ctx, all)
	if err != nil {
		return nil, err
	}

	if s.config.WriteBaseline != "" {
		if err := baseline.FromResults(result.Results).Write(s.config.WriteBaseline); err != nil {
			return nil, err
		}
		log.WithField("path", s.config.WriteBaseline).Info("Baseline written")
	}

	result.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"duration":   result.Duration.String(),
		"units":      stats.Units,
		"cache_hits": stats.CacheHits,
		"results":    len(result.Results),
		"filtered":   result.Unfiltered - len(result.Results),
	}).Info("Scan completed")

	return result, nil
}

func openStores(paths []string) ([]indexstore.Store, error) {
	stores := make([]indexstore.Store, 0, len(paths))
	for _, p := range paths {
		st, err := indexstore.Open(p)
		if err != nil {
			for _, opened := range stores {
				opened.Close()
			}
			return nil, errors.ConfigErrorf("cannot open index store: %v", err).
				WithHint("index store paths must be JSON unit directories or SQLite files (.db, .sqlite, .sqlite3)")
		}
		stores = append(stores, st)
	}
	return stores, nil
}

// filters builds the result filter chain: branch diff, then baseline,
// then globs.
func (s *Scanner) filters(log logrus.FieldLogger) (*filter.Chain, error) {
	var stages []filter.Stage

	if s.config.BaseBranch != "" {
		stages = append(stages, &filter.Diff{
			Repo:       git.NewRepo(s.config.ProjectRoot, s.gitRunner),
			BaseBranch: s.config.BaseBranch,
		})
	}

	if s.config.Baseline != "" {
		b, err := baseline.Load(s.config.Baseline)
		if err != nil {
			return nil, err
		}
		stages = append(stages, &filter.Baseline{Baseline: b, Logger: log})
	}

	if len(s.config.ReportInclude) > 0 || len(s.config.ReportExclude) > 0 {
		stages = append(stages, &filter.Glob{
			Include: glob.New(s.config.ProjectRoot, s.config.ReportInclude),
			Exclude: glob.New(s.config.ProjectRoot, s.config.ReportExclude),
		})
	}

	return filter.NewChain(log, stages...), nil
}
