// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/proofcraft/sel4ci/internal/ports"
)

// HgClient implements ports.HgClient for testing.
type HgClient struct {
	// CloneErr is returned from Clone when set.
	CloneErr error
	// ExportErr is returned from ExportToGit when set.
	ExportErr error

	// Cloned records (url, dest) pairs passed to Clone.
	Cloned [][2]string
	// Exports records (hgPath, gitPath, branch) triples passed to ExportToGit.
	Exports [][3]string

	// OnExport, when set, runs after a successful ExportToGit call. Tests use
	// it to populate the staging repository state at conversion time.
	OnExport func(hgPath, gitPath, branch string)
}

// NewHgClient creates a new mock Mercurial client.
func NewHgClient() *HgClient {
	return &HgClient{}
}

// Clone records the clone request.
func (m *HgClient) Clone(ctx context.Context, url, dest string) error {
	if m.CloneErr != nil {
		return m.CloneErr
	}
	m.Cloned = append(m.Cloned, [2]string{url, dest})
	return nil
}

// ExportToGit records the conversion request.
func (m *HgClient) ExportToGit(ctx context.Context, hgPath, gitPath, branch string) error {
	if m.ExportErr != nil {
		return m.ExportErr
	}
	m.Exports = append(m.Exports, [3]string{hgPath, gitPath, branch})
	if m.OnExport != nil {
		m.OnExport(hgPath, gitPath, branch)
	}
	return nil
}

// Compile-time check that HgClient implements ports.HgClient.
var _ ports.HgClient = (*HgClient)(nil)
