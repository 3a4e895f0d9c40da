// Package exechg provides a Mercurial client adapter using exec.Command.
//
// The ExportToGit bridge relies on the hg-git extension being installed in the
// ambient Mercurial; it is enabled per invocation via --config so the user's
// hgrc does not need to load it globally.
package exechg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/proofcraft/sel4ci/internal/ports"
)

// ExecHgClient implements ports.HgClient using the hg binary.
type ExecHgClient struct {
	// hgPath is the path to the hg binary. Defaults to "hg".
	hgPath string
	logger hclog.Logger
}

// Option is a functional option for configuring ExecHgClient.
type Option func(*ExecHgClient)

// WithHgPath sets a custom path to the hg binary.
func WithHgPath(path string) Option {
	return func(c *ExecHgClient) {
		c.hgPath = path
	}
}

// WithLogger sets the logger used for command diagnostics.
func WithLogger(logger hclog.Logger) Option {
	return func(c *ExecHgClient) {
		c.logger = logger
	}
}

// New creates a new ExecHgClient adapter.
func New(opts ...Option) *ExecHgClient {
	c := &ExecHgClient{
		hgPath: "hg",
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clone clones the Mercurial repository at url into dest.
func (h *ExecHgClient) Clone(ctx context.Context, url, dest string) error {
	return h.run(ctx, "", "clone", "--noupdate", url, dest)
}

// ExportToGit converts the history of the Mercurial repository at hgPath into
// the existing git repository at gitPath. hg-git exports bookmarks as git
// branches, so the default branch is bookmarked under the requested branch
// name first; tags are exported as git tags automatically.
func (h *ExecHgClient) ExportToGit(ctx context.Context, hgPath, gitPath, branch string) error {
	if err := h.run(ctx, hgPath, "bookmark", "-f", "-r", "default", branch); err != nil {
		return err
	}
	return h.run(ctx, hgPath,
		"--config", "extensions.hggit=",
		"push", gitPath)
}

// run executes hg with the given arguments, in dir if non-empty.
func (h *ExecHgClient) run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, h.hgPath, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	h.logger.Debug("running command", "cmd", strings.Join(cmd.Args, " "), "dir", dir)

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("hg %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("hg %s: %w", args[0], err)
	}
	return nil
}

// Compile-time check that ExecHgClient implements ports.HgClient.
var _ ports.HgClient = (*ExecHgClient)(nil)
