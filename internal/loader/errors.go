package loader

import "fmt"

// MalformedInputError reports a documentation unit that could not be
// parsed into Page/Section structure at all.
//
// This error is fatal and aborts the run: downstream components assume
// well-formed Page objects, so there is nothing useful to check once a
// unit fails structural parsing. Content-level issues, by contrast, are
// reported as findings and never abort.
type MalformedInputError struct {
	// Page is the identifier of the unit that failed to parse.
	Page string

	// Line is the 1-based line where parsing failed, or 0 when the
	// failure concerns the unit as a whole.
	Line int

	// Reason describes what made the unit unparseable.
	Reason string
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed input in page %q at line %d: %s", e.Page, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed input in page %q: %s", e.Page, e.Reason)
}
