package mocks

import (
	"github.com/proofcraft/sel4ci/internal/ports"
)

// RepoState describes one simulated repository for the mock inspector.
type RepoState struct {
	// Tags maps tag names to peeled commit hashes.
	Tags map[string]string
	// Heads maps branch names to head commit hashes.
	Heads map[string]string
	// Ancestry maps a branch name to the hashes reachable from its head,
	// in walk order starting at the head itself.
	Ancestry map[string][]string
}

// RepoInspector implements ports.RepoInspector for testing. Repository paths
// map to simulated states; unregistered paths behave like empty repositories.
type RepoInspector struct {
	// Repos maps repository paths to their simulated state.
	Repos map[string]*RepoState
	// Errors maps repository paths to errors (for simulating failures).
	Errors map[string]error
}

// NewRepoInspector creates a new mock inspector.
func NewRepoInspector() *RepoInspector {
	return &RepoInspector{
		Repos:  make(map[string]*RepoState),
		Errors: make(map[string]error),
	}
}

// SetRepo registers a simulated repository state under the given path.
func (m *RepoInspector) SetRepo(path string, state *RepoState) {
	m.Repos[path] = state
}

// Tags returns the simulated tags of the repository.
func (m *RepoInspector) Tags(repoPath string) (map[string]string, error) {
	state, err := m.state(repoPath)
	if err != nil {
		return nil, err
	}
	tags := map[string]string{}
	for name, hash := range state.Tags {
		tags[name] = hash
	}
	return tags, nil
}

// BranchHead returns the simulated head of the named branch.
func (m *RepoInspector) BranchHead(repoPath, branch string) (string, bool, error) {
	state, err := m.state(repoPath)
	if err != nil {
		return "", false, err
	}
	hash, ok := state.Heads[branch]
	return hash, ok, nil
}

// IsAncestor walks the simulated ancestry of the named branch.
func (m *RepoInspector) IsAncestor(repoPath, ancestorHash, branch string) (bool, error) {
	state, err := m.state(repoPath)
	if err != nil {
		return false, err
	}
	for _, hash := range state.Ancestry[branch] {
		if hash == ancestorHash {
			return true, nil
		}
	}
	return false, nil
}

func (m *RepoInspector) state(repoPath string) (*RepoState, error) {
	if err := m.Errors[repoPath]; err != nil {
		return nil, err
	}
	if state, ok := m.Repos[repoPath]; ok {
		return state, nil
	}
	// An unregistered path behaves like an empty repository.
	return &RepoState{}, nil
}

// Compile-time check that RepoInspector implements ports.RepoInspector.
var _ ports.RepoInspector = (*RepoInspector)(nil)
