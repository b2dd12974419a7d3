// Package index builds the anchor index: a precomputed immutable mapping
// from (page id, slug) to the owning section, plus the single slug
// generation algorithm applied to both heading text and explicit anchor
// overrides.
package index
