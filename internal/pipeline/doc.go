// Package pipeline orchestrates documentation scans as an ordered
// sequence of steps: load pages, build the anchor index, check links,
// and validate snippets.
//
// Steps execute strictly in order, so the anchor index is complete and
// immutable before any checking step reads it. Within the checking
// steps, pages are processed concurrently; results are merged back in
// page order so the finding order of a scan is deterministic.
//
// BatchProcessor layers multi-root scanning on top of the single-root
// Pipeline.
package pipeline
