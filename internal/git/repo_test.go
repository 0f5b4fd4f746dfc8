package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	outputs map[string]string
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) ([]byte, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, dir+": "+key)
	out, ok := f.outputs[key]
	if !ok {
		return nil, fmt.Errorf("unexpected git %s", key)
	}
	return []byte(out), nil
}

func TestChangedLinesWithFakeRunner(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"rev-parse --show-toplevel":                        "/repo\n",
		"rev-parse --show-prefix":                          "Sources/\n",
		"merge-base HEAD main":                             "abc123\n",
		"diff --unified=0 --no-color --no-ext-diff abc123": sampleDiff,
	}}

	cs, err := NewRepo("/repo/Sources", runner).ChangedLines(context.Background(), "main")
	require.NoError(t, err)

	assert.True(t, cs.Contains("/repo/Sources/App/main.swift", 5))
	assert.Equal(t, "/repo: diff --unified=0 --no-color --no-ext-diff abc123", runner.calls[3])
}

func TestChangedLinesFromSubdirectory(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"rev-parse --show-toplevel":                        "/repo\n",
		"rev-parse --show-prefix":                          "Sources/\n",
		"merge-base HEAD main":                             "abc123\n",
		"diff --unified=0 --no-color --no-ext-diff abc123": sampleDiff,
	}}

	cs, err := NewRepo("/repo/Sources", runner).ChangedLines(context.Background(), "main")
	require.NoError(t, err)

	// Relative paths are relative to the working directory, not the top level
	assert.True(t, cs.Contains("App/main.swift", 5))
	assert.True(t, cs.Contains("App/new.swift", 1))
	assert.False(t, cs.Contains("Sources/App/main.swift", 5))
}

func TestChangedLinesUnknownBranch(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"rev-parse --show-toplevel": "/repo\n",
		"rev-parse --show-prefix":   "\n",
	}}

	_, err := NewRepo("/repo", runner).ChangedLines(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merge base")
}

func TestChangedLinesRealRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@example.com")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	file := filepath.Join(dir, "main.swift")
	git("init", "-q", "-b", "main")
	require.NoError(t, os.WriteFile(file, []byte("let a = 1\nlet b = 2\n"), 0644))
	git("add", "main.swift")
	git("commit", "-q", "-m", "initial")
	git("checkout", "-q", "-b", "feature")
	require.NoError(t, os.WriteFile(file, []byte("let a = 1\nlet b = 3\nlet c = 4\n"), 0644))

	cs, err := NewRepo(dir, nil).ChangedLines(context.Background(), "main")
	require.NoError(t, err)

	assert.False(t, cs.Contains("main.swift", 1))
	assert.True(t, cs.Contains("main.swift", 2))
	assert.True(t, cs.Contains("main.swift", 3))

	sub := filepath.Join(dir, "Sources")
	require.NoError(t, os.MkdirAll(sub, 0755))
	nested, err := NewRepo(sub, nil).ChangedLines(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, "Sources/", nested.Prefix)
	assert.True(t, nested.Contains("../main.swift", 2))
}
