// Package execgit provides a git client adapter using exec.Command.
package execgit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/proofcraft/sel4ci/internal/ports"
)

// committerFilter copies author identity and date onto the committer fields.
// hg-git sets the conversion time as committer date, which makes commit
// hashes differ between two conversions of the same upstream history.
const committerFilter = `export GIT_COMMITTER_NAME="$GIT_AUTHOR_NAME"
export GIT_COMMITTER_EMAIL="$GIT_AUTHOR_EMAIL"
export GIT_COMMITTER_DATE="$GIT_AUTHOR_DATE"`

// ExecGitClient implements ports.GitClient using the git binary.
type ExecGitClient struct {
	// gitPath is the path to the git binary. Defaults to "git".
	gitPath string
	logger  hclog.Logger
}

// Option is a functional option for configuring ExecGitClient.
type Option func(*ExecGitClient)

// WithGitPath sets a custom path to the git binary.
func WithGitPath(path string) Option {
	return func(c *ExecGitClient) {
		c.gitPath = path
	}
}

// WithLogger sets the logger used for command diagnostics.
func WithLogger(logger hclog.Logger) Option {
	return func(c *ExecGitClient) {
		c.logger = logger
	}
}

// New creates a new ExecGitClient adapter.
func New(opts ...Option) *ExecGitClient {
	c := &ExecGitClient{
		gitPath: "git",
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CloneBare clones the repository at url into dest as a bare repository.
func (g *ExecGitClient) CloneBare(ctx context.Context, url, dest string) error {
	return g.run(ctx, "", "clone", "--bare", url, dest)
}

// InitBare creates a new empty bare repository at dest.
func (g *ExecGitClient) InitBare(ctx context.Context, dest string) error {
	return g.run(ctx, "", "init", "--bare", dest)
}

// RewriteCommitters rewrites every commit and tag in the repository at
// repoPath so committer metadata matches author metadata. This is a full
// history rewrite and must only ever run on the staging repository.
func (g *ExecGitClient) RewriteCommitters(ctx context.Context, repoPath string) error {
	cmd := exec.CommandContext(ctx, g.gitPath,
		"filter-branch", "-f",
		"--env-filter", committerFilter,
		"--tag-name-filter", "cat",
		"--", "--all")
	cmd.Dir = repoPath
	cmd.Env = append(os.Environ(), "FILTER_BRANCH_SQUELCH_WARNING=1")
	return g.runCmd(cmd, "git filter-branch")
}

// PushBranch pushes localBranch of the repository at repoPath to remoteBranch
// on the remote at url.
func (g *ExecGitClient) PushBranch(ctx context.Context, repoPath, localBranch, url, remoteBranch string) error {
	refspec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", localBranch, remoteBranch)
	return g.run(ctx, repoPath, "push", url, refspec)
}

// PushTags pushes all tags of the repository at repoPath to the remote at url.
func (g *ExecGitClient) PushTags(ctx context.Context, repoPath, url string) error {
	return g.run(ctx, repoPath, "push", url, "--tags")
}

// run executes git with the given arguments, in dir if non-empty.
func (g *ExecGitClient) run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, g.gitPath, args...)
	cmd.Dir = dir
	return g.runCmd(cmd, "git "+args[0])
}

// runCmd runs a prepared command, folding stderr into the returned error.
func (g *ExecGitClient) runCmd(cmd *exec.Cmd, what string) error {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	g.logger.Debug("running command", "cmd", strings.Join(cmd.Args, " "), "dir", cmd.Dir)

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%s: %w: %s", what, err, strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// Compile-time check that ExecGitClient implements ports.GitClient.
var _ ports.GitClient = (*ExecGitClient)(nil)
