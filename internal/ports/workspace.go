package ports

// Workspace manages the temporary working directory that holds all repository
// clones for a single pipeline run. Production code uses the osfs adapter;
// tests use mocks.Workspace.
type Workspace interface {
	// Create creates a fresh private working directory and returns its path.
	Create() (string, error)

	// Remove deletes the working directory and everything below it.
	Remove(dir string) error
}
