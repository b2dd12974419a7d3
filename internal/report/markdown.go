package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/PavelVaskou/docscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for CI summaries and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeFindings(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("Docscan Report")
	md.PlainText("")

	rows := [][]string{
		{"Documentation Root", "`" + report.Root + "`"},
	}
	if !report.DateScanned.IsZero() {
		rows = append(rows, []string{"Scan Date", report.DateScanned.Format("2006-01-02 15:04:05 MST")})
	}
	rows = append(rows,
		[]string{"Pages Scanned", strconv.Itoa(report.PagesScanned)},
		[]string{"Anchors Indexed", strconv.Itoa(report.AnchorsIndexed)},
		[]string{"Links Checked", strconv.Itoa(report.LinksChecked)},
		[]string{"External Links Skipped", strconv.Itoa(report.ExternalLinks)},
		[]string{"Snippets Checked", strconv.Itoa(report.SnippetsChecked)},
		[]string{"Status", w.getStatusText(report)},
	)
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ScanReport) string {
	if report.ErrorMessage != "" {
		return "❌ Aborted - " + report.ErrorMessage
	}
	if report.Passed() {
		return "✅ Passed"
	}
	return "❌ Failed"
}

// writeSummary writes the severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Severity Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Error", strconv.Itoa(report.ErrorCount)},
			{"🟡 Warning", strconv.Itoa(report.WarningCount)},
			{"⚪ Info", strconv.Itoa(report.InfoCount)},
			{"**Total**", "**" + strconv.Itoa(report.TotalFindings()) + "**"},
		},
	})
	md.PlainText("")

	// Add pie chart if there are findings
	if report.HasFindings() {
		w.writePieChart(md, report)
	}

	// Add alert based on severity
	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.ScanReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Severity Distribution"),
		piechart.WithShowData(true),
	)

	if report.ErrorCount > 0 {
		chart.LabelAndIntValue("Error", uint64(report.ErrorCount))
	}
	if report.WarningCount > 0 {
		chart.LabelAndIntValue("Warning", uint64(report.WarningCount))
	}
	if report.InfoCount > 0 {
		chart.LabelAndIntValue("Info", uint64(report.InfoCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ScanReport) {
	switch {
	case report.ErrorMessage != "":
		md.Cautionf("Scan aborted: %s. Results are incomplete.", report.ErrorMessage)
	case report.ErrorCount > 0:
		md.Cautionf(
			"Documentation integrity violations detected. %d error(s) must be fixed before the docs are consistent.",
			report.ErrorCount,
		)
	case report.WarningCount > 0:
		md.Warningf(
			"%d warning(s) found. The docs are consistent but could be improved.",
			report.WarningCount,
		)
	case report.TotalFindings() > 0:
		md.Note("Only informational findings detected.")
	default:
		md.Tip("No documentation issues detected.")
	}
	md.PlainText("")
}

// writeFindings writes all findings grouped by severity.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Findings")
	md.PlainText("")

	if !report.HasFindings() {
		md.PlainText("No issues found.")
		md.PlainText("")
		return
	}

	sorted := report.SortedFindings()

	severities := []struct {
		level  model.Severity
		header string
	}{
		{model.SeverityError, "### 🔴 Error"},
		{model.SeverityWarning, "### 🟡 Warning"},
		{model.SeverityInfo, "### ⚪ Info"},
	}

	for _, sev := range severities {
		var findings []model.Finding
		for _, f := range sorted {
			if f.Severity == sev.level {
				findings = append(findings, f)
			}
		}
		if len(findings) == 0 {
			continue
		}

		md.PlainText(sev.header)
		md.PlainText("")
		w.writeFindingsTable(md, findings)
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	headers := []string{"Title", "Location", "Value", "Recommendation"}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		value := f.Value
		if value == "" {
			value = "-"
		}
		rec := f.Recommendation
		if rec == "" {
			rec = "-"
		}

		rows[i] = []string{
			f.Title,
			fmt.Sprintf("`%s:%d`", f.Page, f.Line),
			truncateString(value, 50),
			truncateString(rec, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")

	// Add detailed descriptions for all findings
	for _, f := range findings {
		if f.Description != "" {
			md.Details(f.Title, f.Description)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [docscan](https://github.com/PavelVaskou/docscan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
