package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peripheryapp/periphery-sub003/internal/config"
)

func newScanFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "scan"}
	for _, f := range scanSliceFlags {
		cmd.Flags().StringSlice(f.name, nil, f.usage)
	}
	for _, f := range scanBoolFlags {
		cmd.Flags().Bool(f.name, false, f.usage)
	}
	for _, f := range scanStringFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
	cmd.Flags().Int("workers", 0, "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestApplyScanFlagsOverridesOnlyChangedFlags(t *testing.T) {
	c := config.Default()
	c.Format = config.FormatJSON
	c.RetainPublic = true
	c.ReportExclude = []string{"Generated/"}

	cmd := newScanFlags(t,
		"--index-store-path", "a.db",
		"--index-store-path", "b",
		"--strict",
		"--workers", "3",
	)
	require.NoError(t, applyScanFlags(cmd, c))

	assert.Equal(t, []string{"a.db", "b"}, c.IndexStorePaths)
	assert.True(t, c.Strict)
	assert.Equal(t, 3, c.Workers)

	// untouched flags keep config file values
	assert.Equal(t, config.FormatJSON, c.Format)
	assert.True(t, c.RetainPublic)
	assert.Equal(t, []string{"Generated/"}, c.ReportExclude)
}

func TestApplyScanFlagsCanDisable(t *testing.T) {
	c := config.Default()
	c.RetainPublic = true

	require.NoError(t, applyScanFlags(newScanFlags(t, "--retain-public=false", "--format", "csv"), c))
	assert.False(t, c.RetainPublic)
	assert.Equal(t, config.FormatCSV, c.Format)
}
