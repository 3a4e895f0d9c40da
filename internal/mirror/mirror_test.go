package mirror

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/proofcraft/sel4ci/internal/mocks"
)

// fixture wires a pipeline against mocks and returns the pieces the tests
// poke at.
type fixture struct {
	hg        *mocks.HgClient
	git       *mocks.GitClient
	inspector *mocks.RepoInspector
	workspace *mocks.Workspace
	pipeline  *Pipeline
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{
		hg:        mocks.NewHgClient(),
		git:       mocks.NewGitClient(),
		inspector: mocks.NewRepoInspector(),
		workspace: mocks.NewWorkspace(),
	}
	f.pipeline = New(f.hg, f.git, f.inspector, f.workspace, opts...)
	return f
}

func (f *fixture) mirrorDir() string  { return filepath.Join(f.workspace.Dir, "mirror.git") }
func (f *fixture) stagingDir() string { return filepath.Join(f.workspace.Dir, "staging.git") }

func testJob() Job {
	return Job{
		Name:         "isabelle",
		UpstreamURL:  "https://hg.example.com/isabelle",
		MirrorURL:    "git@example.com:mirror/isabelle.git",
		MirrorBranch: "master",
	}
}

func TestJobValidate(t *testing.T) {
	tests := []struct {
		name    string
		job     Job
		wantErr bool
	}{
		{"complete", testJob(), false},
		{"missing upstream", Job{MirrorURL: "m", MirrorBranch: "b"}, true},
		{"missing mirror", Job{UpstreamURL: "u", MirrorBranch: "b"}, true},
		{"missing branch", Job{UpstreamURL: "u", MirrorURL: "m"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunSuccessPushesBranchAndTags(t *testing.T) {
	f := newFixture()

	// Mirror head X, staging extends it with Y and Z.
	f.inspector.SetRepo(f.mirrorDir(), &mocks.RepoState{
		Heads: map[string]string{"master": "X"},
	})
	f.inspector.SetRepo(f.stagingDir(), &mocks.RepoState{
		Heads:    map[string]string{StagingBranch: "Z"},
		Ancestry: map[string][]string{StagingBranch: {"Z", "Y", "X"}},
	})

	job := testJob()
	if err := f.pipeline.Run(context.Background(), job); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(f.git.BranchPushes) != 1 {
		t.Fatalf("branch pushes = %d, expected 1", len(f.git.BranchPushes))
	}
	push := f.git.BranchPushes[0]
	if push[1] != StagingBranch || push[2] != job.MirrorURL || push[3] != job.MirrorBranch {
		t.Errorf("unexpected branch push: %v", push)
	}
	if len(f.git.TagPushes) != 1 {
		t.Errorf("tag pushes = %d, expected 1", len(f.git.TagPushes))
	}
	if len(f.git.Rewritten) != 1 || f.git.Rewritten[0] != f.stagingDir() {
		t.Errorf("committer rewrite ran on %v, expected staging only", f.git.Rewritten)
	}
}

func TestRunStagesInOrder(t *testing.T) {
	f := newFixture()

	if err := f.pipeline.Run(context.Background(), testJob()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Conversion must target the freshly created staging repository under
	// the fixed staging branch, not the mirror branch.
	if len(f.hg.Exports) != 1 {
		t.Fatalf("exports = %d, expected 1", len(f.hg.Exports))
	}
	export := f.hg.Exports[0]
	if export[1] != f.stagingDir() {
		t.Errorf("export target = %q, expected staging repo", export[1])
	}
	if export[2] != StagingBranch {
		t.Errorf("export branch = %q, expected %q", export[2], StagingBranch)
	}
	if len(f.git.InitedBare) != 1 || f.git.InitedBare[0] != f.stagingDir() {
		t.Errorf("staging init = %v", f.git.InitedBare)
	}
}

func TestRunTagConflictAborts(t *testing.T) {
	f := newFixture()

	// v1 resolves to different commits on the two sides.
	f.inspector.SetRepo(f.mirrorDir(), &mocks.RepoState{
		Tags: map[string]string{"v1": "A"},
	})
	f.inspector.SetRepo(f.stagingDir(), &mocks.RepoState{
		Tags:     map[string]string{"v1": "B"},
		Heads:    map[string]string{StagingBranch: "B"},
		Ancestry: map[string][]string{StagingBranch: {"B"}},
	})

	err := f.pipeline.Run(context.Background(), testJob())
	if !errors.Is(err, ErrInconsistentTags) {
		t.Fatalf("error = %v, expected ErrInconsistentTags", err)
	}
	if f.git.Pushed() {
		t.Error("pipeline pushed despite tag conflict")
	}
}

func TestRunCompatibleTagsProceed(t *testing.T) {
	f := newFixture()

	// Shared v1 agrees; v2 exists only in staging and must not trip the
	// check (it gets published by the tag push).
	f.inspector.SetRepo(f.mirrorDir(), &mocks.RepoState{
		Tags:  map[string]string{"v1": "A"},
		Heads: map[string]string{"master": "A"},
	})
	f.inspector.SetRepo(f.stagingDir(), &mocks.RepoState{
		Tags:     map[string]string{"v1": "A", "v2": "C"},
		Heads:    map[string]string{StagingBranch: "C"},
		Ancestry: map[string][]string{StagingBranch: {"C", "A"}},
	})

	if err := f.pipeline.Run(context.Background(), testJob()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(f.git.TagPushes) != 1 {
		t.Errorf("tag pushes = %d, expected 1", len(f.git.TagPushes))
	}
}

func TestRunDivergedHistoryAborts(t *testing.T) {
	f := newFixture()

	// Mirror head X is nowhere in the converted ancestry: upstream history
	// was rewritten.
	f.inspector.SetRepo(f.mirrorDir(), &mocks.RepoState{
		Heads: map[string]string{"master": "X"},
	})
	f.inspector.SetRepo(f.stagingDir(), &mocks.RepoState{
		Heads:    map[string]string{StagingBranch: "W"},
		Ancestry: map[string][]string{StagingBranch: {"W", "V"}},
	})

	err := f.pipeline.Run(context.Background(), testJob())
	if !errors.Is(err, ErrInconsistentHistory) {
		t.Fatalf("error = %v, expected ErrInconsistentHistory", err)
	}
	if f.git.Pushed() {
		t.Error("pipeline pushed despite diverged history")
	}
}

func TestRunFreshMirrorPublishes(t *testing.T) {
	f := newFixture()

	// Mirror has no branch head at all; the ancestry check passes trivially
	// and the whole staging history is published.
	f.inspector.SetRepo(f.stagingDir(), &mocks.RepoState{
		Heads:    map[string]string{StagingBranch: "Z"},
		Ancestry: map[string][]string{StagingBranch: {"Z", "Y"}},
	})

	if err := f.pipeline.Run(context.Background(), testJob()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !f.git.Pushed() {
		t.Error("pipeline did not push for fresh mirror")
	}
}

func TestRunStageFailureAborts(t *testing.T) {
	cloneErr := errors.New("connection refused")

	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"mirror clone fails", func(f *fixture) { f.git.CloneBareErr = cloneErr }},
		{"upstream clone fails", func(f *fixture) { f.hg.CloneErr = cloneErr }},
		{"conversion fails", func(f *fixture) { f.hg.ExportErr = cloneErr }},
		{"rewrite fails", func(f *fixture) { f.git.RewriteErr = cloneErr }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			err := f.pipeline.Run(context.Background(), testJob())
			if !errors.Is(err, cloneErr) {
				t.Fatalf("error = %v, expected wrapped %v", err, cloneErr)
			}
			if f.git.Pushed() {
				t.Error("pipeline pushed after a failed stage")
			}
			// Failure paths retain the workspace for post-mortem inspection.
			if len(f.workspace.Removed) != 0 {
				t.Error("workspace removed on failure path")
			}
		})
	}
}

func TestRunPushFailureIsFatal(t *testing.T) {
	f := newFixture()
	pushErr := errors.New("remote rejected")
	f.git.PushBranchErr = pushErr

	err := f.pipeline.Run(context.Background(), testJob())
	if !errors.Is(err, pushErr) {
		t.Fatalf("error = %v, expected wrapped %v", err, pushErr)
	}
	if len(f.git.TagPushes) != 0 {
		t.Error("tags pushed after failed branch push")
	}
}

func TestRunCleanup(t *testing.T) {
	t.Run("removed on success", func(t *testing.T) {
		f := newFixture()
		if err := f.pipeline.Run(context.Background(), testJob()); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(f.workspace.Removed) != 1 || f.workspace.Removed[0] != f.workspace.Dir {
			t.Errorf("removed = %v, expected workspace dir", f.workspace.Removed)
		}
	})

	t.Run("retained with keep-workdir", func(t *testing.T) {
		f := newFixture(WithKeepWorkdir(true))
		if err := f.pipeline.Run(context.Background(), testJob()); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(f.workspace.Removed) != 0 {
			t.Errorf("workspace removed despite keep-workdir")
		}
	})

	t.Run("remove failure does not fail the run", func(t *testing.T) {
		f := newFixture()
		f.workspace.RemoveErr = errors.New("busy")
		if err := f.pipeline.Run(context.Background(), testJob()); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	})
}

func TestRunInvalidJob(t *testing.T) {
	f := newFixture()
	err := f.pipeline.Run(context.Background(), Job{})
	if err == nil {
		t.Fatal("expected error for empty job")
	}
	if f.workspace.Created != 0 {
		t.Error("workspace created for invalid job")
	}
}
