// Package gogit provides a read-only repository inspector using go-git.
//
// The consistency checks of the mirror pipeline only need to look at local
// clones, so they can run in-process instead of shelling out to the git
// binary like the write-side adapter does.
package gogit

import (
	"errors"
	"fmt"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/proofcraft/sel4ci/internal/ports"
)

// Inspector implements ports.RepoInspector using go-git.
type Inspector struct{}

// New creates a new Inspector adapter.
func New() *Inspector {
	return &Inspector{}
}

// Tags returns all tags of the repository as a map from tag name to the hash
// of the commit the tag ultimately points to.
func (i *Inspector) Tags(repoPath string) (map[string]string, error) {
	repo, err := gitlib.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", repoPath, err)
	}

	refs, err := repo.Tags()
	if err != nil {
		return nil, err
	}
	defer refs.Close()

	tags := map[string]string{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		hash, ok := peelToCommit(repo, ref.Hash())
		if !ok {
			// Tags on non-commit objects (trees, blobs) have no commit
			// identity to compare; skip them.
			return nil
		}
		tags[ref.Name().Short()] = hash.String()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// BranchHead resolves the head commit of the named branch. ok is false when
// the branch does not exist.
func (i *Inspector) BranchHead(repoPath, branch string) (string, bool, error) {
	repo, err := gitlib.PlainOpen(repoPath)
	if err != nil {
		return "", false, fmt.Errorf("open %s: %w", repoPath, err)
	}

	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return ref.Hash().String(), true, nil
}

// IsAncestor reports whether the commit with the given hash is reachable by
// walking parent links backward from the head of the named branch.
func (i *Inspector) IsAncestor(repoPath, ancestorHash, branch string) (bool, error) {
	repo, err := gitlib.PlainOpen(repoPath)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", repoPath, err)
	}

	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return false, fmt.Errorf("resolve branch %s: %w", branch, err)
	}
	head, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return false, err
	}

	want := plumbing.NewHash(ancestorHash)
	// A hash that does not even resolve to a commit in this repository
	// cannot be an ancestor; a rewritten upstream history looks like this.
	if _, err := repo.CommitObject(want); err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return false, nil
		}
		return false, err
	}

	found := false
	iter := object.NewCommitPreorderIter(head, nil, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == want {
			found = true
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// peelToCommit resolves a tag ref hash to the commit it points to, chasing
// nested annotated tags. The iteration bound guards against tag cycles.
func peelToCommit(repo *gitlib.Repository, hash plumbing.Hash) (plumbing.Hash, bool) {
	cur := hash
	for i := 0; i < 8; i++ {
		if _, err := repo.CommitObject(cur); err == nil {
			return cur, true
		}
		tag, err := repo.TagObject(cur)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		cur = tag.Target
	}
	return plumbing.ZeroHash, false
}

// Compile-time check that Inspector implements ports.RepoInspector.
var _ ports.RepoInspector = (*Inspector)(nil)
