// Package mirror implements the one-shot history mirror pipeline: it converts
// an upstream Mercurial repository into git, repairs the conversion metadata,
// verifies the result against the published git mirror and only then pushes.
package mirror

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/proofcraft/sel4ci/internal/ports"
	"github.com/proofcraft/sel4ci/internal/steps"
)

// StagingBranch is the branch name the converted history is staged under.
// It is deliberately distinct from any plausible mirror branch name so a
// misdirected push cannot silently overwrite the published branch.
const StagingBranch = "staging"

// Job describes one mirror run.
type Job struct {
	// Name identifies the job in logs and summaries. Optional for one-shot
	// runs; defaults to the mirror branch name.
	Name string
	// UpstreamURL is the Mercurial repository to mirror from.
	UpstreamURL string
	// MirrorURL is the git repository to publish to.
	MirrorURL string
	// MirrorBranch is the branch on the mirror that tracks upstream.
	MirrorBranch string
}

// Validate checks that all required fields are set.
func (j Job) Validate() error {
	if j.UpstreamURL == "" {
		return fmt.Errorf("upstream URL must not be empty")
	}
	if j.MirrorURL == "" {
		return fmt.Errorf("mirror URL must not be empty")
	}
	if j.MirrorBranch == "" {
		return fmt.Errorf("mirror branch must not be empty")
	}
	return nil
}

// Pipeline runs mirror jobs. All external tool access goes through the
// injected ports, so the whole pipeline is testable without hg or git.
type Pipeline struct {
	hg        ports.HgClient
	git       ports.GitClient
	inspector ports.RepoInspector
	workspace ports.Workspace

	logger hclog.Logger
	runner *steps.Runner

	// keepWorkdir retains the working directory even on success.
	keepWorkdir bool
}

// Option is a functional option for configuring a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger hclog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithRunner sets the step runner used for console output.
func WithRunner(r *steps.Runner) Option {
	return func(p *Pipeline) {
		p.runner = r
	}
}

// WithKeepWorkdir retains the temporary working directory on success as well.
// Failed runs always retain it for post-mortem inspection.
func WithKeepWorkdir(keep bool) Option {
	return func(p *Pipeline) {
		p.keepWorkdir = keep
	}
}

// New creates a Pipeline with the given tool adapters.
func New(hg ports.HgClient, git ports.GitClient, inspector ports.RepoInspector, workspace ports.Workspace, opts ...Option) *Pipeline {
	p := &Pipeline{
		hg:        hg,
		git:       git,
		inspector: inspector,
		workspace: workspace,
		logger:    hclog.NewNullLogger(),
		runner:    steps.NewRunner(steps.NewPlainPrinter(nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one mirror job. Every stage is fail-fast: the first failing
// stage aborts the run with an error naming the stage. The working directory
// is removed on success and retained on failure.
func (p *Pipeline) Run(ctx context.Context, job Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	dir, err := p.workspace.Create()
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	mirrorDir := filepath.Join(dir, "mirror.git")
	upstreamDir := filepath.Join(dir, "upstream")
	stagingDir := filepath.Join(dir, "staging.git")

	log := p.logger.With("upstream", job.UpstreamURL, "mirror", job.MirrorURL, "branch", job.MirrorBranch)
	log.Info("mirror run starting", "workdir", dir)

	stages := []struct {
		name string
		fn   func() error
	}{
		{"clone mirror", func() error {
			return p.git.CloneBare(ctx, job.MirrorURL, mirrorDir)
		}},
		{"clone upstream", func() error {
			return p.hg.Clone(ctx, job.UpstreamURL, upstreamDir)
		}},
		{"create staging", func() error {
			return p.git.InitBare(ctx, stagingDir)
		}},
		{"convert history", func() error {
			return p.hg.ExportToGit(ctx, upstreamDir, stagingDir, StagingBranch)
		}},
		{"repair committers", func() error {
			return p.git.RewriteCommitters(ctx, stagingDir)
		}},
		{"check tags", func() error {
			return CheckTags(p.inspector, mirrorDir, stagingDir)
		}},
		{"check history", func() error {
			return CheckAncestry(p.inspector, mirrorDir, job.MirrorBranch, stagingDir, StagingBranch)
		}},
		{"push", func() error {
			if err := p.git.PushBranch(ctx, stagingDir, StagingBranch, job.MirrorURL, job.MirrorBranch); err != nil {
				return err
			}
			return p.git.PushTags(ctx, stagingDir, job.MirrorURL)
		}},
	}

	for _, stage := range stages {
		if err := p.runner.Run(stage.name, stage.fn); err != nil {
			// Leave the workspace in place so the staged conversion can be
			// inspected after a failed run.
			log.Error("mirror run failed", "stage", stage.name, "workdir", dir, "error", err)
			return fmt.Errorf("%s: %w", stage.name, err)
		}
	}

	if p.keepWorkdir {
		log.Info("mirror run succeeded", "workdir", dir)
		return nil
	}
	if err := p.workspace.Remove(dir); err != nil {
		// The mirror is already updated at this point; a leftover temp
		// directory is not worth failing the run over.
		log.Warn("could not remove workdir", "workdir", dir, "error", err)
	}
	log.Info("mirror run succeeded")
	return nil
}
