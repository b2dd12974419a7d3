// Package model defines the core data structures shared across docscan:
// pages and their sections, snippets, findings with severity levels, and
// the scan report that accumulates results during a single pass.
//
// Pages are loaded once per run and never mutated. Findings accumulate
// monotonically during a pass and are discarded after the report is
// emitted; the scanner is stateless across invocations apart from the
// optional history database.
package model
