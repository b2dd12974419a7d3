package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/PavelVaskou/docscan/internal/model"
)

// createTestReport builds a report with one finding per severity level.
func createTestReport() *model.ScanReport {
	r := model.NewScanReport("docs")
	r.PagesScanned = 3
	r.AnchorsIndexed = 12
	r.LinksChecked = 8
	r.ExternalLinks = 2
	r.SnippetsChecked = 5

	r.AddFinding(model.NewFinding(
		"dangling_page_link", "Dangling Page Link",
		"Link points to a page that does not exist",
		"guide", 14, "book/missing",
	))
	r.AddFinding(model.NewFinding(
		"missing_language_tag", "Missing Language Tag",
		"Fenced code block declares no language",
		"book/types", 33, "",
	))

	return r
}

// createCleanReport builds a report with no findings.
func createCleanReport() *model.ScanReport {
	r := model.NewScanReport("docs")
	r.PagesScanned = 1
	return r
}

// TestSimpleWriter tests the human-readable text format.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header, summary, and findings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes but wrote %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"DOCSCAN REPORT",
			"Documentation Root: docs",
			"Pages Scanned:      3",
			"SEVERITY SUMMARY",
			"ERROR:   1",
			"WARNING: 1",
			"Status:             FAILED",
			"Dangling Page Link",
			"Location: guide:14",
			"Value: book/missing",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("clean run gets an explicit confirmation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createCleanReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "All checks passed. No issues found.") {
			t.Error("expected clean-run confirmation line")
		}
		if !strings.Contains(out, "Status:             PASSED") {
			t.Error("expected PASSED status")
		}
		if strings.Contains(out, "FINDINGS") {
			t.Error("expected findings section to be omitted for a clean run")
		}
	})

	t.Run("zero timestamp omits the scan date line", func(t *testing.T) {
		t.Parallel()

		r := createTestReport()
		r.DateScanned = time.Time{}

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if strings.Contains(out, "Scan Date") {
			t.Error("expected the scan date line to be omitted")
		}
		if !strings.Contains(out, "Documentation Root: docs") {
			t.Error("expected the rest of the header to survive")
		}
	})

	t.Run("aborted scan reports its error", func(t *testing.T) {
		t.Parallel()

		r := createCleanReport()
		r.ErrorMessage = "unterminated code fence"

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "ABORTED - unterminated code fence") {
			t.Error("expected aborted status with the error message")
		}
	})

	t.Run("verbose adds recommendations", func(t *testing.T) {
		t.Parallel()

		var terse, verbose bytes.Buffer
		if _, err := NewSimpleWriter(&terse).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewSimpleWriter(&verbose, WithVerbose(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(terse.String(), "Recommendation:") {
			t.Error("expected no recommendations without verbose")
		}
		if !strings.Contains(verbose.String(), "Recommendation:") {
			t.Error("expected recommendations with verbose")
		}
	})

	t.Run("output is deterministic", func(t *testing.T) {
		t.Parallel()

		var first, second bytes.Buffer
		r := createTestReport()
		if _, err := NewSimpleWriter(&first).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewSimpleWriter(&second).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if first.String() != second.String() {
			t.Error("expected identical output for identical reports")
		}
	})
}

// TestJSONWriter tests the machine-readable format.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("produces valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded["pages_scanned"] != float64(3) {
			t.Errorf("expected pages_scanned 3, got %v", decoded["pages_scanned"])
		}
	})

	t.Run("pretty print indents the output", func(t *testing.T) {
		t.Parallel()

		var compact, pretty bytes.Buffer
		r := createTestReport()
		if _, err := NewJSONWriter(&compact).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewJSONWriter(&pretty, WithPrettyPrint()).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(pretty.String(), "\n  ") {
			t.Error("expected indented output with pretty print")
		}
		if len(pretty.String()) <= len(compact.String()) {
			t.Error("expected pretty output to be longer than compact")
		}
	})

	t.Run("full writer wraps the report with metadata", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewFullJSONWriter(&buf, "1.2.3").Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Version string          `json:"version"`
			Passed  bool            `json:"passed"`
			Report  json.RawMessage `json:"report"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Version != "1.2.3" {
			t.Errorf("expected version 1.2.3, got %q", decoded.Version)
		}
		if decoded.Passed {
			t.Error("expected passed=false for a report with an error finding")
		}
		if len(decoded.Report) == 0 {
			t.Error("expected embedded report")
		}
	})

	t.Run("zero timestamp is omitted from the JSON", func(t *testing.T) {
		t.Parallel()

		r := createTestReport()
		r.DateScanned = time.Time{}

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(buf.String(), "date_scanned") {
			t.Error("expected date_scanned to be omitted for a zero timestamp")
		}
	})
}

// TestMarkdownWriter tests the CI summary format.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders tables and findings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# Docscan Report",
			"Documentation Root",
			"## Severity Summary",
			"### 🔴 Error",
			"### 🟡 Warning",
			"`guide:14`",
			"mermaid",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected markdown output to contain %q", want)
			}
		}
	})

	t.Run("clean run omits the pie chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createCleanReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if strings.Contains(out, "mermaid") {
			t.Error("expected no pie chart without findings")
		}
		if !strings.Contains(out, "No issues found.") {
			t.Error("expected clean-run note")
		}
	})

	t.Run("zero timestamp omits the scan date row", func(t *testing.T) {
		t.Parallel()

		r := createTestReport()
		r.DateScanned = time.Time{}

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(buf.String(), "Scan Date") {
			t.Error("expected the scan date row to be omitted")
		}
	})
}

// TestMultiWriter tests fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, jsonBuf bytes.Buffer
	mw := NewMultiWriter(
		NewSimpleWriter(&text),
		NewJSONWriter(&jsonBuf),
	)

	n, err := mw.Write(createTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text.Len() == 0 || jsonBuf.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
	if n != text.Len()+jsonBuf.Len() {
		t.Errorf("expected total %d bytes, got %d", text.Len()+jsonBuf.Len(), n)
	}
}

// TestTruncateString tests table cell truncation.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short string unchanged", "abc", 10, "abc"},
		{"exact length unchanged", "abcde", 5, "abcde"},
		{"long string gets ellipsis", "abcdefghij", 8, "abcde..."},
		{"tiny width cuts hard", "abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}
