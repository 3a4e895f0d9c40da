package execgit

import (
	"context"
	"strings"
	"testing"

	"github.com/proofcraft/sel4ci/internal/ports"
)

func TestNew(t *testing.T) {
	t.Run("default git path", func(t *testing.T) {
		client := New()
		if client.gitPath != "git" {
			t.Errorf("expected default git path 'git', got %q", client.gitPath)
		}
	})

	t.Run("custom git path", func(t *testing.T) {
		client := New(WithGitPath("/usr/local/bin/git"))
		if client.gitPath != "/usr/local/bin/git" {
			t.Errorf("expected custom path, got %q", client.gitPath)
		}
	})
}

func TestCommitterFilterIsDeterministic(t *testing.T) {
	// The filter must derive all committer fields from author fields and
	// nothing else, otherwise two conversions of the same upstream history
	// would produce different commit hashes.
	for _, field := range []string{"NAME", "EMAIL", "DATE"} {
		want := `GIT_COMMITTER_` + field + `="$GIT_AUTHOR_` + field + `"`
		if !strings.Contains(committerFilter, want) {
			t.Errorf("filter does not map committer %s from author: %q", field, committerFilter)
		}
	}
	for _, forbidden := range []string{"date ", "$(", "`"} {
		if strings.Contains(committerFilter, forbidden) {
			t.Errorf("filter contains non-deterministic input %q", forbidden)
		}
	}
}

func TestRunMissingBinary(t *testing.T) {
	client := New(WithGitPath("/nonexistent/git-binary"))
	if err := client.InitBare(context.Background(), t.TempDir()); err == nil {
		t.Error("expected error for missing git binary")
	}
}

func TestImplementsInterface(t *testing.T) {
	var _ ports.GitClient = (*ExecGitClient)(nil)
}
