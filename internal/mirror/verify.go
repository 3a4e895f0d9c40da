package mirror

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/proofcraft/sel4ci/internal/ports"
)

// Sentinel errors for the two consistency checks, so callers can distinguish
// a divergent upstream from plain tool failures.
var (
	ErrInconsistentTags    = errors.New("inconsistent tags")
	ErrInconsistentHistory = errors.New("inconsistent history")
)

// CheckTags verifies that every tag name present in both the mirror and the
// staging repository resolves to the same commit. Tags present on only one
// side are fine: tags deleted upstream stay on the mirror, and new upstream
// tags are published by the push stage.
func CheckTags(inspector ports.RepoInspector, mirrorPath, stagingPath string) error {
	mirrorTags, err := inspector.Tags(mirrorPath)
	if err != nil {
		return fmt.Errorf("list mirror tags: %w", err)
	}
	stagingTags, err := inspector.Tags(stagingPath)
	if err != nil {
		return fmt.Errorf("list staging tags: %w", err)
	}

	var bad []string
	for name, mirrorHash := range mirrorTags {
		stagingHash, ok := stagingTags[name]
		if !ok {
			continue
		}
		if stagingHash != mirrorHash {
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("%w: %s", ErrInconsistentTags, strings.Join(bad, ", "))
	}
	return nil
}

// CheckAncestry verifies that the mirror's current branch head is an ancestor
// of the staging branch head, i.e. that the converted history is a strict
// extension of what has already been published. A mirror branch with no head
// yet (fresh or empty mirror) passes trivially.
func CheckAncestry(inspector ports.RepoInspector, mirrorPath, mirrorBranch, stagingPath, stagingBranch string) error {
	head, ok, err := inspector.BranchHead(mirrorPath, mirrorBranch)
	if err != nil {
		return fmt.Errorf("resolve mirror head: %w", err)
	}
	if !ok {
		// Nothing published yet; any staging history extends it.
		return nil
	}

	found, err := inspector.IsAncestor(stagingPath, head, stagingBranch)
	if err != nil {
		return fmt.Errorf("walk staging history: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: mirror head %s not found in converted history", ErrInconsistentHistory, head)
	}
	return nil
}
