package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion verifies the fallback chain always yields a value.
func TestGetVersion(t *testing.T) {
	t.Parallel()

	if getVersion() == "" {
		t.Error("expected non-empty version")
	}
	if getCommit() == "" {
		t.Error("expected non-empty commit")
	}
	if getDate() == "" {
		t.Error("expected non-empty date")
	}
}

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"docscan version", "commit:", "built:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected version output to contain %q, got %q", want, out)
		}
	}
}
