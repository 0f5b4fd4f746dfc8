package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/peripheryapp/periphery-sub003/internal/errors"
	"github.com/peripheryapp/periphery-sub003/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "baseline.json")
	b := FromResults([]results.ScanResult{
		{Name: "b", USRs: []string{"s:4main1bV"}},
		{Name: "a", USRs: []string{"s:4main1aV", "s:4main1aVx"}},
	})
	require.NoError(t, b.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"v1"`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"s:4main1aV", "s:4main1aVx", "s:4main1bV"}, loaded.USRs())
}

func TestContains(t *testing.T) {
	b := New([]string{"x", "y"})

	tests := []struct {
		name string
		usrs []string
		want bool
	}{
		{name: "single match", usrs: []string{"x"}, want: true},
		{name: "any match", usrs: []string{"z", "y"}, want: true},
		{name: "no match", usrs: []string{"z"}, want: false},
		{name: "no identifiers", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Contains(results.ScanResult{USRs: tt.usrs}))
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFileSystem))
	assert.NotEmpty(t, errors.HintOf(err))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"v2":{}}`), 0644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
