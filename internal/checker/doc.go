// Package checker implements the content-level checks: cross-reference
// resolution against the anchor index and structural validation of
// embedded code snippets.
//
// Checkers only read pages and the index, so per-page checking is safe
// to run concurrently once the index is built. All issues are reported
// as findings; checkers never abort a run.
package checker
