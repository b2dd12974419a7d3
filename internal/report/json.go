package report

import (
	"encoding/json"
	"io"

	"github.com/PavelVaskou/docscan/internal/model"
)

// JSONWriter renders reports as JSON for CI pipelines and other tools.
//
// Design decision: encoding/json over a faster third-party codec. Report
// output happens once per scan, so throughput is irrelevant, and the
// standard encoder keeps field ordering stable across Go versions.
type JSONWriter struct {
	baseWriter

	// indent switches between compact and pretty-printed output.
	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printing with an explicit prefix and
// per-level indent string.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printing with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// Output is compact unless an indent option is supplied.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the bare report in JSON format.
func (w *JSONWriter) Write(report *model.ScanReport) (int, error) {
	return w.writeJSON(report)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline so terminal prompts and line-oriented consumers
	// see a complete line.
	data = append(data, '\n')
	return w.output.Write(data)
}

// JSONReport wraps a scan report with tool metadata.
//
// Design decision: wrap rather than add fields to ScanReport. The
// version and the derived pass flag belong to the output envelope, not
// to the report the checkers build.
type JSONReport struct {
	// Version is the docscan version that generated this report.
	Version string `json:"version"`

	// Passed mirrors report.Passed() so consumers don't re-derive it.
	Passed bool `json:"passed"`

	// Report is the full scan report.
	Report *model.ScanReport `json:"report"`
}

// NewJSONReport creates the metadata envelope around a report.
func NewJSONReport(report *model.ScanReport, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Passed:  report.Passed(),
		Report:  report,
	}
}

// FullJSONWriter renders the report inside its metadata envelope.
type FullJSONWriter struct {
	*JSONWriter

	version string
}

// NewFullJSONWriter creates a writer that wraps reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report wrapped with version and pass metadata.
func (w *FullJSONWriter) Write(report *model.ScanReport) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}
