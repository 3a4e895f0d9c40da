package exechg

import (
	"context"
	"testing"

	"github.com/proofcraft/sel4ci/internal/ports"
)

func TestNew(t *testing.T) {
	t.Run("default hg path", func(t *testing.T) {
		client := New()
		if client.hgPath != "hg" {
			t.Errorf("expected default hg path 'hg', got %q", client.hgPath)
		}
	})

	t.Run("custom hg path", func(t *testing.T) {
		client := New(WithHgPath("/opt/hg/bin/hg"))
		if client.hgPath != "/opt/hg/bin/hg" {
			t.Errorf("expected custom path, got %q", client.hgPath)
		}
	})
}

func TestRunMissingBinary(t *testing.T) {
	client := New(WithHgPath("/nonexistent/hg-binary"))
	if err := client.Clone(context.Background(), "https://example.com/repo", t.TempDir()); err == nil {
		t.Error("expected error for missing hg binary")
	}
}

func TestImplementsInterface(t *testing.T) {
	var _ ports.HgClient = (*ExecHgClient)(nil)
}
