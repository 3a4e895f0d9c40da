package mocks

import (
	"github.com/proofcraft/sel4ci/internal/ports"
)

// Workspace implements ports.Workspace for testing.
type Workspace struct {
	// Dir is the path returned from Create. Defaults to "/work".
	Dir string
	// CreateErr is returned from Create when set.
	CreateErr error
	// RemoveErr is returned from Remove when set.
	RemoveErr error

	// Created counts Create calls.
	Created int
	// Removed records directories passed to Remove.
	Removed []string
}

// NewWorkspace creates a new mock workspace.
func NewWorkspace() *Workspace {
	return &Workspace{Dir: "/work"}
}

// Create returns the configured directory.
func (m *Workspace) Create() (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.Created++
	return m.Dir, nil
}

// Remove records the removal.
func (m *Workspace) Remove(dir string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.Removed = append(m.Removed, dir)
	return nil
}

// Compile-time check that Workspace implements ports.Workspace.
var _ ports.Workspace = (*Workspace)(nil)
