// Package ports defines interfaces (contracts) for the external version
// control tools the pipeline drives. These enable dependency injection and
// testability via mock implementations.
package ports

import "context"

// HgClient abstracts the Mercurial operations used by the mirror pipeline.
// Production code uses the exechg adapter; tests use mocks.HgClient.
type HgClient interface {
	// Clone clones the Mercurial repository at url into dest.
	Clone(ctx context.Context, url, dest string) error

	// ExportToGit converts the full history of the Mercurial repository at
	// hgPath into the git repository at gitPath, placing the default branch
	// under the given git branch name. This is the cross-VCS bridge step;
	// the git repository must already exist.
	ExportToGit(ctx context.Context, hgPath, gitPath, branch string) error
}

// GitClient abstracts the git operations used by the mirror pipeline.
// Production code uses the execgit adapter; tests use mocks.GitClient.
type GitClient interface {
	// CloneBare clones the repository at url into dest as a bare repository.
	CloneBare(ctx context.Context, url, dest string) error

	// InitBare creates a new empty bare repository at dest.
	InitBare(ctx context.Context, dest string) error

	// RewriteCommitters rewrites every commit and tag in the repository at
	// repoPath so that committer name, email and date are copied from the
	// author fields. Conversion bridges invent committer metadata, which
	// would make commit hashes differ between otherwise identical runs.
	RewriteCommitters(ctx context.Context, repoPath string) error

	// PushBranch pushes localBranch of the repository at repoPath to
	// remoteBranch on the remote at url.
	PushBranch(ctx context.Context, repoPath, localBranch, url, remoteBranch string) error

	// PushTags pushes all tags of the repository at repoPath to the remote
	// at url.
	PushTags(ctx context.Context, repoPath, url string) error
}
