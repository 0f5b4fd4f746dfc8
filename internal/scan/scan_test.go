package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/errors"
	"github.com/peripheryapp/periphery-sub003/internal/indexstore"
	"github.com/peripheryapp/periphery-sub003/internal/logging"
	"github.com/peripheryapp/periphery-sub003/internal/results"
	"github.com/peripheryapp/periphery-sub003/internal/syntax"
)

func mainUnit() *indexstore.Unit {
	return &indexstore.Unit{
		Module: "App",
		File:   "Sources/App/main.swift",
		Declarations: []indexstore.DeclarationRecord{
			{USR: "s:3App1f1xySi_tF", Kind: "function.free", Name: "f(x:)", Line: 1, Column: 6},
			{USR: "s:3App3runyyF", Kind: "function.free", Name: "run()", Line: 3, Column: 6},
		},
		References: []indexstore.ReferenceRecord{
			{USR: "s:3App3runyyF", Kind: "call", Line: 5, Column: 1},
			{USR: "s:Si", Kind: "type", Line: 1, Column: 11, ParentUSR: "s:3App1f1xySi_tF"},
		},
		Functions: []syntax.Function{
			{
				USR:    "s:3App1f1xySi_tF",
				Params: []syntax.Param{{Label: "x", Name: "x", Position: syntax.Position{Line: 1, Column: 8}}},
				Body:   syntax.Block(),
			},
			{USR: "s:3App3runyyF", Body: syntax.Block()},
		},
	}
}

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	store := indexstore.NewJSONStore(t.TempDir())
	require.NoError(t, store.WriteUnit("main.json", mainUnit()))

	cfg := config.Default()
	cfg.IndexStorePaths = []string{store.Path()}
	cfg.ProjectRoot = t.TempDir()
	cfg.Workers = 2
	return cfg
}

func messages(rs []results.ScanResult) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Message())
	}
	return out
}

func TestRunReportsUnusedFunctionAndParameter(t *testing.T) {
	res, err := New(newConfig(t), logging.Discard()).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.ScanID)
	assert.Equal(t, []string{"Function 'f(x:)' is unused", "Parameter 'x' is unused"}, messages(res.Results))
	assert.Equal(t, 1, res.Index.Units)
	assert.NotEmpty(t, res.Passes)
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := newConfig(t)
	first, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	second, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Results, second.Results)
}

func TestBaselineRoundTrip(t *testing.T) {
	cfg := newConfig(t)
	cfg.WriteBaseline = filepath.Join(t.TempDir(), "baseline.json")
	cfg.CachePath = filepath.Join(t.TempDir(), "units.db")

	first, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Results, 2)

	cfg.Baseline, cfg.WriteBaseline = cfg.WriteBaseline, ""
	second, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second.Results)
	assert.Equal(t, 2, second.Unfiltered)
	assert.Equal(t, 1, second.Index.CacheHits)
}

func TestReportExclude(t *testing.T) {
	cfg := newConfig(t)
	cfg.ReportExclude = []string{"Sources/App/"}

	res, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Results)
}

type failingGit struct{}

func (failingGit) Run(context.Context, string, ...string) ([]byte, error) {
	return nil, fmt.Errorf("fatal: not a git repository")
}

func TestDiffFilterSkippedWithoutGit(t *testing.T) {
	cfg := newConfig(t)
	cfg.BaseBranch = "main"

	res, err := New(cfg, nil).WithGitRunner(failingGit{}).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Results, 2)
}

func TestRunConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "no index store", mutate: func(c *config.Config) { c.IndexStorePaths = nil }},
		{name: "missing index store", mutate: func(c *config.Config) { c.IndexStorePaths = []string{"/nonexistent/store"} }},
		{name: "unknown format", mutate: func(c *config.Config) { c.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig(t)
			tt.mutate(cfg)

			_, err := New(cfg, nil).Run(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsFatal(err))
			assert.NotEmpty(t, errors.HintOf(err))
		})
	}
}
