package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/PavelVaskou/docscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and per-page finding locations.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeFindings(&sb, report)
	w.writeFooter(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          DOCSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Documentation Root: %s\n", report.Root))
	if !report.DateScanned.IsZero() {
		sb.WriteString(fmt.Sprintf("Scan Date:          %s\n", report.DateScanned.Format("2006-01-02 15:04:05 MST")))
	}
	sb.WriteString(fmt.Sprintf("Pages Scanned:      %d\n", report.PagesScanned))
	sb.WriteString(fmt.Sprintf("Anchors Indexed:    %d\n", report.AnchorsIndexed))
	sb.WriteString(fmt.Sprintf("Links Checked:      %d (plus %d external, skipped)\n",
		report.LinksChecked, report.ExternalLinks))
	sb.WriteString(fmt.Sprintf("Snippets Checked:   %d\n", report.SnippetsChecked))

	switch {
	case report.ErrorMessage != "":
		sb.WriteString(fmt.Sprintf("Status:             ABORTED - %s\n", report.ErrorMessage))
	case report.Passed():
		sb.WriteString("Status:             PASSED\n")
	default:
		sb.WriteString("Status:             FAILED\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the severity summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEVERITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  ERROR:   %d\n", report.ErrorCount))
	sb.WriteString(fmt.Sprintf("  WARNING: %d\n", report.WarningCount))
	sb.WriteString(fmt.Sprintf("  INFO:    %d\n", report.InfoCount))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  TOTAL:   %d findings\n", report.TotalFindings()))
	sb.WriteString("\n")
}

// writeFindings writes all findings grouped by severity.
// Within each severity, findings are ordered by page then line so two
// identical scans always render identically.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.ScanReport) {
	if !report.HasFindings() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sorted := report.SortedFindings()

	severities := []model.Severity{
		model.SeverityError,
		model.SeverityWarning,
		model.SeverityInfo,
	}

	for _, severity := range severities {
		var findings []model.Finding
		for _, f := range sorted {
			if f.Severity == severity {
				findings = append(findings, f)
			}
		}
		if len(findings) == 0 && !w.showEmpty {
			continue
		}

		w.writeFindingsForSeverity(sb, severity, findings)
	}
}

// writeFindingsForSeverity writes findings of a specific severity level.
func (w *SimpleWriter) writeFindingsForSeverity(sb *strings.Builder, severity model.Severity, findings []model.Finding) {
	indicator := w.getSeverityIndicator(severity)
	sb.WriteString(fmt.Sprintf("[%s] %s\n", indicator, severity.String()))

	if len(findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, finding := range findings {
		sb.WriteString(fmt.Sprintf("  * %s\n", finding.Title))
		sb.WriteString(fmt.Sprintf("    Location: %s:%d\n", finding.Page, finding.Line))
		if finding.Value != "" {
			sb.WriteString(fmt.Sprintf("    Value: %s\n", finding.Value))
		}
		if finding.Description != "" {
			sb.WriteString(fmt.Sprintf("    Detail: %s\n", finding.Description))
		}
		if w.verbose && finding.Recommendation != "" {
			sb.WriteString(fmt.Sprintf("    Recommendation: %s\n", finding.Recommendation))
		}
	}
	sb.WriteString("\n")
}

// getSeverityIndicator returns a visual indicator for the severity level.
func (w *SimpleWriter) getSeverityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityError:
		return "!!"
	case model.SeverityWarning:
		return "!"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// writeFooter writes the report footer. A clean run gets an explicit
// confirmation line so "no output" is never ambiguous.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.ScanReport) {
	if report.Passed() && !report.HasFindings() {
		sb.WriteString("All checks passed. No issues found.\n\n")
	}

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by docscan\n")
	sb.WriteString("https://github.com/PavelVaskou/docscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
