package mocks

import (
	"context"

	"github.com/proofcraft/sel4ci/internal/ports"
)

// GitClient implements ports.GitClient for testing.
type GitClient struct {
	// Errors for the individual operations; nil means success.
	CloneBareErr  error
	InitBareErr   error
	RewriteErr    error
	PushBranchErr error
	PushTagsErr   error

	// ClonedBare records (url, dest) pairs passed to CloneBare.
	ClonedBare [][2]string
	// InitedBare records destinations passed to InitBare.
	InitedBare []string
	// Rewritten records repository paths passed to RewriteCommitters.
	Rewritten []string
	// BranchPushes records (repoPath, localBranch, url, remoteBranch).
	BranchPushes [][4]string
	// TagPushes records (repoPath, url) pairs passed to PushTags.
	TagPushes [][2]string
}

// NewGitClient creates a new mock git client.
func NewGitClient() *GitClient {
	return &GitClient{}
}

// CloneBare records the clone request.
func (m *GitClient) CloneBare(ctx context.Context, url, dest string) error {
	if m.CloneBareErr != nil {
		return m.CloneBareErr
	}
	m.ClonedBare = append(m.ClonedBare, [2]string{url, dest})
	return nil
}

// InitBare records the init request.
func (m *GitClient) InitBare(ctx context.Context, dest string) error {
	if m.InitBareErr != nil {
		return m.InitBareErr
	}
	m.InitedBare = append(m.InitedBare, dest)
	return nil
}

// RewriteCommitters records the rewrite request.
func (m *GitClient) RewriteCommitters(ctx context.Context, repoPath string) error {
	if m.RewriteErr != nil {
		return m.RewriteErr
	}
	m.Rewritten = append(m.Rewritten, repoPath)
	return nil
}

// PushBranch records the push request.
func (m *GitClient) PushBranch(ctx context.Context, repoPath, localBranch, url, remoteBranch string) error {
	if m.PushBranchErr != nil {
		return m.PushBranchErr
	}
	m.BranchPushes = append(m.BranchPushes, [4]string{repoPath, localBranch, url, remoteBranch})
	return nil
}

// PushTags records the push request.
func (m *GitClient) PushTags(ctx context.Context, repoPath, url string) error {
	if m.PushTagsErr != nil {
		return m.PushTagsErr
	}
	m.TagPushes = append(m.TagPushes, [2]string{repoPath, url})
	return nil
}

// Pushed reports whether any branch or tag push happened.
func (m *GitClient) Pushed() bool {
	return len(m.BranchPushes) > 0 || len(m.TagPushes) > 0
}

// Compile-time check that GitClient implements ports.GitClient.
var _ ports.GitClient = (*GitClient)(nil)
