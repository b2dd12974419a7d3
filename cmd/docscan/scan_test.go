package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeDoc creates a documentation file under dir.
func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// runScanArgs executes the scan command through the root command.
func runScanArgs(args ...string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"scan"}, args...))
	return cmd.Execute()
}

// TestScanCmd tests the scan command end to end. The subtests share the
// process-wide default logger, so they run sequentially.
func TestScanCmd(t *testing.T) {
	t.Run("clean tree passes and writes a JSON report", func(t *testing.T) {
		dir := t.TempDir()
		writeDoc(t, dir, "index.md",
			"# Welcome\n"+
				"\n"+
				"See [types](/book/types).\n")
		writeDoc(t, dir, "book/types.md", "# Types\n")

		out := filepath.Join(t.TempDir(), "report.json")
		if err := runScanArgs(dir, "--no-history", "-j", "-o", out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}

		var decoded struct {
			Passed bool `json:"passed"`
			Report struct {
				PagesScanned int `json:"pages_scanned"`
			} `json:"report"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		if !decoded.Passed {
			t.Error("expected clean tree to pass")
		}
		if decoded.Report.PagesScanned != 2 {
			t.Errorf("expected 2 pages scanned, got %d", decoded.Report.PagesScanned)
		}
	})

	t.Run("dangling link fails the scan", func(t *testing.T) {
		dir := t.TempDir()
		writeDoc(t, dir, "index.md",
			"# Welcome\n"+
				"\n"+
				"See [gone](/book/missing).\n")

		out := filepath.Join(t.TempDir(), "report.txt")
		err := runScanArgs(dir, "--no-history", "-o", out)

		if !errors.Is(err, errScanFailed) {
			t.Fatalf("expected errScanFailed, got %v", err)
		}

		data, _ := os.ReadFile(out)
		if !strings.Contains(string(data), "Dangling Page Link") {
			t.Error("expected the finding in the report file")
		}
	})

	t.Run("multiple roots append to one report file", func(t *testing.T) {
		dirA := t.TempDir()
		writeDoc(t, dirA, "a.md", "# A\n")
		dirB := t.TempDir()
		writeDoc(t, dirB, "b.md", "# B\n")

		out := filepath.Join(t.TempDir(), "report.txt")
		if err := runScanArgs(dirA, dirB, "--no-history", "-o", out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		if got := strings.Count(string(data), "DOCSCAN REPORT"); got != 2 {
			t.Errorf("expected 2 appended reports, got %d", got)
		}
	})

	t.Run("missing root fails fast", func(t *testing.T) {
		err := runScanArgs(filepath.Join(t.TempDir(), "nope"), "--no-history")
		if err == nil {
			t.Error("expected error for missing root")
		}
	})

	t.Run("root that is a file fails fast", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "file.md")
		writeDoc(t, dir, "file.md", "# F\n")

		err := runScanArgs(path, "--no-history")
		if err == nil || !strings.Contains(err.Error(), "not a directory") {
			t.Errorf("expected not-a-directory error, got %v", err)
		}
	})

	t.Run("no root argument is a configuration error", func(t *testing.T) {
		if err := runScanArgs("--no-history"); err == nil {
			t.Error("expected error without a root")
		}
	})

	t.Run("conflicting report formats are rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeDoc(t, dir, "a.md", "# A\n")

		err := runScanArgs(dir, "--no-history", "-j", "-m")
		if err == nil || !strings.Contains(err.Error(), "configuration error") {
			t.Errorf("expected configuration error, got %v", err)
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		dir := t.TempDir()
		writeDoc(t, dir, "a.md", "# A\n")

		err := runScanArgs(dir, "--no-history", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil || !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("expected missing config error, got %v", err)
		}
	})

	t.Run("config file overrides apply per root", func(t *testing.T) {
		dir := t.TempDir()
		// Only .mdx is recognized for this root per the config file, so
		// the stray .md page is not loaded.
		writeDoc(t, dir, "page.mdx", "# Page\n")
		writeDoc(t, dir, "ignored.md", "no heading here")

		cfgPath := filepath.Join(t.TempDir(), "docscan.yaml")
		cfgContent := "roots:\n  \"" + filepath.Clean(dir) + "\":\n    extensions: [.mdx]\n"
		if err := os.WriteFile(cfgPath, []byte(cfgContent), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		out := filepath.Join(t.TempDir(), "report.json")
		if err := runScanArgs(dir, "--no-history", "-c", cfgPath, "-j", "-o", out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}

		var decoded struct {
			Report struct {
				PagesScanned int `json:"pages_scanned"`
			} `json:"report"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		if decoded.Report.PagesScanned != 1 {
			t.Errorf("expected only the .mdx page to load, got %d", decoded.Report.PagesScanned)
		}
	})

	t.Run("override keyed ./docs applies to root given as ./docs", func(t *testing.T) {
		parent := t.TempDir()
		t.Chdir(parent)
		// The page is only recognized through the per-root extension
		// override, so a missed override lookup shows up as zero pages.
		writeDoc(t, filepath.Join(parent, "docs"), "page.markdown", "# Page\n")

		cfgPath := filepath.Join(t.TempDir(), "docscan.yaml")
		cfgContent := "roots:\n  \"./docs\":\n    extensions: [.markdown]\n"
		if err := os.WriteFile(cfgPath, []byte(cfgContent), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		out := filepath.Join(t.TempDir(), "report.json")
		if err := runScanArgs("./docs", "--no-history", "-c", cfgPath, "-j", "-o", out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}

		var decoded struct {
			Report struct {
				PagesScanned int `json:"pages_scanned"`
			} `json:"report"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		if decoded.Report.PagesScanned != 1 {
			t.Errorf("expected the override to apply, got %d pages scanned", decoded.Report.PagesScanned)
		}
	})

	t.Run("no-timestamp makes repeated runs byte-identical", func(t *testing.T) {
		dir := t.TempDir()
		writeDoc(t, dir, "index.md",
			"# Welcome\n"+
				"\n"+
				"See [types](/book/types).\n")
		writeDoc(t, dir, "book/types.md", "# Types\n")

		outDir := t.TempDir()
		first := filepath.Join(outDir, "first.json")
		second := filepath.Join(outDir, "second.json")

		if err := runScanArgs(dir, "--no-history", "--no-timestamp", "-j", "-o", first); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := runScanArgs(dir, "--no-history", "--no-timestamp", "-j", "-o", second); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		a, err := os.ReadFile(first)
		if err != nil {
			t.Fatalf("expected first report: %v", err)
		}
		b, err := os.ReadFile(second)
		if err != nil {
			t.Fatalf("expected second report: %v", err)
		}
		if !bytes.Equal(a, b) {
			t.Error("expected byte-identical reports for identical input")
		}
		if strings.Contains(string(a), "date_scanned") {
			t.Error("expected the timestamp to be omitted from the report")
		}
	})
}
