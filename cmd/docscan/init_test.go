package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runInit executes the init command with the given arguments.
func runInit(t *testing.T, args ...string) error {
	t.Helper()

	cmd := NewInitCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

// TestInitCmd tests configuration file generation.
func TestInitCmd(t *testing.T) {
	t.Run("creates the configuration file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".docscan")

		if err := runInit(t, "-o", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected config file to exist: %v", err)
		}

		content := string(data)
		for _, want := range []string{"defaults:", "roots:"} {
			if !strings.Contains(content, want) {
				t.Errorf("expected template to contain %q", want)
			}
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".docscan")
		if err := os.WriteFile(path, []byte("existing"), 0600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		err := runInit(t, "-o", path)
		if err == nil {
			t.Fatal("expected error for existing file")
		}
		if !strings.Contains(err.Error(), "already exists") {
			t.Errorf("unexpected error: %v", err)
		}

		data, _ := os.ReadFile(path)
		if string(data) != "existing" {
			t.Error("expected existing file to be untouched")
		}
	})

	t.Run("force overwrites an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".docscan")
		if err := os.WriteFile(path, []byte("existing"), 0600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		if err := runInit(t, "-o", path, "-f"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read config: %v", err)
		}
		if string(data) == "existing" {
			t.Error("expected file to be replaced")
		}
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

		if err := runInit(t, "-o", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected config file at nested path: %v", err)
		}
	})
}
