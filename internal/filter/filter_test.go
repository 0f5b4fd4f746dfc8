package filter

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peripheryapp/periphery-sub003/internal/baseline"
	"github.com/peripheryapp/periphery-sub003/internal/git"
	"github.com/peripheryapp/periphery-sub003/internal/glob"
	"github.com/peripheryapp/periphery-sub003/internal/results"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

const changedDiff = `diff --git a/Sources/App/main.swift b/Sources/App/main.swift
--- a/Sources/App/main.swift
+++ b/Sources/App/main.swift
@@ -9,0 +10,2 @@
+func changed() {}
+func alsoChanged() {}
`

type stubRunner struct {
	fail   bool
	prefix string
}

func (s stubRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	if s.fail {
		return nil, fmt.Errorf("exec: \"git\": executable file not found in $PATH")
	}
	switch args[0] {
	case "rev-parse":
		if args[1] == "--show-prefix" {
			return []byte(s.prefix + "\n"), nil
		}
		return []byte("/repo\n"), nil
	case "merge-base":
		return []byte("abc\n"), nil
	case "diff":
		return []byte(changedDiff), nil
	}
	return nil, fmt.Errorf("unexpected git %s", strings.Join(args, " "))
}

func result(name, file string, line int) results.ScanResult {
	return results.ScanResult{
		Annotation: results.AnnotationUnused,
		Name:       name,
		Location:   source.Location{File: file, Line: line, Column: 6},
		USRs:       []string{"s:" + name},
	}
}

func names(rs []results.ScanResult) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}

func fixture() []results.ScanResult {
	return []results.ScanResult{
		result("old", "Sources/App/main.swift", 3),
		result("changed", "Sources/App/main.swift", 10),
		result("alsoChanged", "/repo/Sources/App/main.swift", 11),
		result("generated", "Generated/Api.swift", 10),
	}
}

func TestDiffStage(t *testing.T) {
	stage := &Diff{Repo: git.NewRepo("/repo", stubRunner{}), BaseBranch: "main"}
	out, err := stage.Apply(context.Background(), fixture())
	require.NoError(t, err)
	assert.Equal(t, []string{"changed", "alsoChanged"}, names(out))
}

func TestDiffStageFromProjectSubdirectory(t *testing.T) {
	stage := &Diff{Repo: git.NewRepo("/repo/Sources", stubRunner{prefix: "Sources/"}), BaseBranch: "main"}
	rs := []results.ScanResult{
		result("changed", "App/main.swift", 10),
		result("untouched", "App/main.swift", 3),
	}

	out, err := stage.Apply(context.Background(), rs)
	require.NoError(t, err)
	assert.Equal(t, []string{"changed"}, names(out))

	// The glob stage reads the same path relative to the same root
	g := &Glob{Include: glob.New("/repo/Sources", []string{"App/"})}
	out, err = g.Apply(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, []string{"changed"}, names(out))
}

func TestChainSkipsUnavailableDiff(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	chain := NewChain(logger,
		&Diff{Repo: git.NewRepo("/repo", stubRunner{fail: true}), BaseBranch: "main"},
		&Baseline{Baseline: baseline.New([]string{"s:old"}), Logger: logger},
	)
	out, err := chain.Apply(context.Background(), fixture())
	require.NoError(t, err)

	assert.Equal(t, []string{"changed", "alsoChanged", "generated"}, names(out))
	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, "filter skipped", hook.Entries[0].Message)
	assert.Equal(t, logrus.DebugLevel, hook.Entries[0].Level)
}

func TestBaselineWarnsWhenStale(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	stage := &Baseline{Baseline: baseline.New([]string{"s:removedLongAgo"}), Logger: logger}

	out, err := stage.Apply(context.Background(), fixture())
	require.NoError(t, err)
	assert.Len(t, out, 4)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestBaselineIsIdempotent(t *testing.T) {
	stage := &Baseline{Baseline: baseline.New([]string{"s:old", "s:generated"})}

	once, err := stage.Apply(context.Background(), fixture())
	require.NoError(t, err)
	twice, err := stage.Apply(context.Background(), once)
	require.NoError(t, err)

	assert.Equal(t, []string{"changed", "alsoChanged"}, names(once))
	assert.Equal(t, once, twice)
}

func TestGlobStage(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{name: "no patterns", want: []string{"old", "changed", "alsoChanged", "generated"}},
		{name: "exclude", exclude: []string{"Generated/"}, want: []string{"old", "changed", "alsoChanged"}},
		{name: "include", include: []string{"Generated/**"}, want: []string{"generated"}},
		{name: "include and exclude", include: []string{"*.swift"}, exclude: []string{"Generated/"}, want: []string{"old", "changed", "alsoChanged"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := &Glob{Include: glob.New("/repo", tt.include), Exclude: glob.New("/repo", tt.exclude)}
			out, err := stage.Apply(context.Background(), fixture())
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(out))
		})
	}
}
