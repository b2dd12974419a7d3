package report

import (
	"io"

	"github.com/PavelVaskou/docscan/internal/model"
)

// Writer renders a scan report to some destination.
//
// Design decision: a narrow interface keeps the output formats
// interchangeable. The scan command picks one implementation from CLI
// flags and the rest of the code never cares whether it is printing
// plain text to a terminal or JSON into a file.
type Writer interface {
	// Write renders the report and returns the bytes written.
	Write(report *model.ScanReport) (int, error)
}

// MultiWriter fans a report out to several Writers, typically the
// terminal plus an output file.
//
// Design decision: io.MultiWriter does not fit here because Writers
// consume reports, not byte streams, so each destination renders the
// report itself.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the report to every destination in order.
// It returns the total bytes written and stops at the first error.
func (m *MultiWriter) Write(report *model.ScanReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter holds the output destination shared by the concrete writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
