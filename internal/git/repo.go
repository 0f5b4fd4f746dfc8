package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes git commands. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// ExecRunner runs the git binary found on PATH
type ExecRunner struct{}

// Run implements Runner
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return output, nil
}

// Repo is a git working tree
type Repo struct {
	dir    string
	runner Runner
}

// NewRepo returns a repo rooted at or above dir. A nil runner uses git
// on PATH.
func NewRepo(dir string, runner Runner) *Repo {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Repo{dir: dir, runner: runner}
}

// Root returns the top level directory of the working tree
func (r *Repo) Root(ctx context.Context) (string, error) {
	output, err := r.runner.Run(ctx, r.dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Prefix returns the working directory relative to the top level, with a
// trailing slash, or "" at the top level itself.
func (r *Repo) Prefix(ctx context.Context) (string, error) {
	output, err := r.runner.Run(ctx, r.dir, "rev-parse", "--show-prefix")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// MergeBase returns the common ancestor of HEAD and branch
func (r *Repo) MergeBase(ctx context.Context, branch string) (string, error) {
	output, err := r.runner.Run(ctx, r.dir, "merge-base", "HEAD", branch)
	if err != nil {
		return "", fmt.Errorf("failed to find merge base with %s: %w", branch, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ChangedLines returns the lines added or modified in the working tree
// since the branch point from baseBranch, uncommitted changes included.
// Relative paths given to the result resolve against the repo's directory.
func (r *Repo) ChangedLines(ctx context.Context, baseBranch string) (*ChangeSet, error) {
	root, err := r.Root(ctx)
	if err != nil {
		return nil, err
	}
	prefix, err := r.Prefix(ctx)
	if err != nil {
		return nil, err
	}
	base, err := r.MergeBase(ctx, baseBranch)
	if err != nil {
		return nil, err
	}

	output, err := r.runner.Run(ctx, root, "diff", "--unified=0", "--no-color", "--no-ext-diff", base)
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}
	changes, err := ParseChangedLines(root, output)
	if err != nil {
		return nil, err
	}
	changes.Prefix = prefix
	return changes, nil
}
