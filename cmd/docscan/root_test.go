package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewRootCmd tests the command tree wiring.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	if cmd.Use != "docscan" {
		t.Errorf("expected use docscan, got %q", cmd.Use)
	}
	if cmd.Version == "" {
		t.Error("expected version to be set")
	}

	want := map[string]bool{"scan": false, "compare": false, "init": false, "version": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected subcommand %q to be registered", name)
		}
	}

	if cmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("expected persistent verbose flag")
	}
}

// TestRootCmdHelp verifies that help output renders without error.
func TestRootCmdHelp(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "docscan") {
		t.Error("expected help output to mention docscan")
	}
}

// TestUnknownSubcommand verifies unknown commands fail.
func TestUnknownSubcommand(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"no-such-command"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown subcommand")
	}
}
