package ports

// RepoInspector provides read-only queries against local git repositories.
// The consistency checks run on it instead of the GitClient so they can be
// implemented in-process (go-git) and exercised against real repositories in
// tests. Production code uses the gogit adapter; tests use mocks.RepoInspector.
type RepoInspector interface {
	// Tags returns all tags of the repository at repoPath as a map from tag
	// name to the hash of the commit the tag ultimately points to. Annotated
	// tags are peeled to their target commit.
	Tags(repoPath string) (map[string]string, error)

	// BranchHead resolves the head commit of the named branch. ok is false
	// when the branch does not exist, which is not an error: a freshly
	// created mirror has no head yet.
	BranchHead(repoPath, branch string) (hash string, ok bool, err error)

	// IsAncestor reports whether the commit with the given hash is reachable
	// by walking parent links backward from the head of the named branch.
	// A commit that is not present in the repository at all is not an
	// ancestor.
	IsAncestor(repoPath, ancestorHash, branch string) (bool, error)
}
