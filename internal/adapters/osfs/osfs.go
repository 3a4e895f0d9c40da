// Package osfs provides a workspace adapter using the standard library os package.
package osfs

import (
	"os"

	"github.com/proofcraft/sel4ci/internal/ports"
)

// Workspace implements ports.Workspace on the real filesystem.
type Workspace struct {
	// baseDir is the parent for created working directories. Empty means the
	// system temp directory.
	baseDir string
}

// Option is a functional option for configuring Workspace.
type Option func(*Workspace)

// WithBaseDir places working directories under dir instead of the system
// temp directory.
func WithBaseDir(dir string) Option {
	return func(w *Workspace) {
		w.baseDir = dir
	}
}

// New creates a new Workspace adapter.
func New(opts ...Option) *Workspace {
	w := &Workspace{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Create creates a fresh private working directory and returns its path.
func (w *Workspace) Create() (string, error) {
	return os.MkdirTemp(w.baseDir, "sel4ci-mirror-*")
}

// Remove deletes the working directory and everything below it.
func (w *Workspace) Remove(dir string) error {
	return os.RemoveAll(dir)
}

// Compile-time check that Workspace implements ports.Workspace.
var _ ports.Workspace = (*Workspace)(nil)
