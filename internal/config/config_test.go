package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peripheryapp/periphery-sub003/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, FormatXcode, cfg.Format)
	assert.Equal(t, ".", cfg.ProjectRoot)
	assert.Greater(t, cfg.Workers, 0)
	assert.False(t, cfg.RetainPublic)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "periphery.yml")
	content := `
index_store_paths:
  - ./index
retain_public: true
report_exclude:
  - "Generated/**"
format: JSON
workers: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"./index"}, cfg.IndexStorePaths)
	assert.True(t, cfg.RetainPublic)
	assert.Equal(t, []string{"Generated/**"}, cfg.ReportExclude)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PERIPHERY_RETAIN_OBJC_ACCESSIBLE", "true")
	t.Setenv("PERIPHERY_BASE_BRANCH", "main")

	path := filepath.Join(t.TempDir(), "periphery.yml")
	require.NoError(t, os.WriteFile(path, []byte("format: csv\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.RetainObjCAccessible)
	assert.Equal(t, "main", cfg.BaseBranch)
	assert.Equal(t, FormatCSV, cfg.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErr  bool
		wantHint string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) { c.IndexStorePaths = []string{"index"} },
		},
		{
			name:     "missing index store",
			mutate:   func(c *Config) {},
			wantErr:  true,
			wantHint: "--index-store-path",
		},
		{
			name: "unknown format",
			mutate: func(c *Config) {
				c.IndexStorePaths = []string{"index"}
				c.Format = "html"
			},
			wantErr:  true,
			wantHint: "github-actions",
		},
		{
			name: "malformed glob",
			mutate: func(c *Config) {
				c.IndexStorePaths = []string{"index"}
				c.ReportExclude = []string{"Sources/[a-"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
			assert.True(t, errors.IsFatal(err))
			if tt.wantHint != "" {
				assert.Contains(t, errors.HintOf(err), tt.wantHint)
			}
		})
	}
}

func TestCheckWarnings(t *testing.T) {
	cfg := Default()
	cfg.IndexStorePaths = []string{"index"}
	cfg.Baseline = "baseline.json"
	cfg.WriteBaseline = "baseline.json"

	result := cfg.Check()
	assert.False(t, result.HasErrors())
	assert.Len(t, result.Warnings, 1)
}

func TestYAML(t *testing.T) {
	cfg := Default()
	cfg.IndexStorePaths = []string{"index"}

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, out, "index_store_paths:")
	assert.Contains(t, out, "format: xcode")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x.json"), expandPath("~/x.json"))
	assert.Equal(t, "rel/x.json", expandPath("rel/x.json"))
	assert.Equal(t, "", expandPath(""))
}
