package index

import (
	"fmt"

	"github.com/PavelVaskou/docscan/internal/model"
)

// AnchorIndex maps (page id, slug) pairs to their owning sections.
// It is built once, before any link checking starts, and is immutable
// afterwards. That two-phase barrier is what allows the link checker to
// read it concurrently from many goroutines without locking.
type AnchorIndex struct {
	// pages maps page ids to their Page.
	pages map[string]*model.Page

	// anchors maps page id -> slug -> owning section.
	anchors map[string]map[string]*model.Section

	// anchorCount is the total number of registered anchors.
	anchorCount int
}

// Build constructs the anchor index for the given pages and returns it
// together with any duplicate-anchor findings.
//
// Duplicate slugs within a single page are reported once per extra
// occurrence; the first occurrence stays registered so links to the slug
// still resolve. Cross-page duplicates are permitted (they are
// disambiguated by page id) and not reported.
func Build(pages []*model.Page) (*AnchorIndex, []model.Finding) {
	idx := &AnchorIndex{
		pages:   make(map[string]*model.Page, len(pages)),
		anchors: make(map[string]map[string]*model.Section, len(pages)),
	}

	var findings []model.Finding

	for _, page := range pages {
		idx.pages[page.ID] = page
		pageAnchors := make(map[string]*model.Section)
		idx.anchors[page.ID] = pageAnchors

		prevLevel := 0
		for i := range page.Sections {
			sec := &page.Sections[i]
			if sec.Level == 0 {
				// The implicit preamble registers no anchor.
				continue
			}

			if sec.Heading == "" && !sec.ExplicitSlug {
				findings = append(findings, model.NewFinding(
					"empty_heading",
					"Empty Heading",
					"Heading has no text and registers no anchor",
					page.ID,
					sec.Line,
					"",
				))
				prevLevel = sec.Level
				continue
			}

			// The first heading of a page sets the baseline; after that,
			// jumping more than one level down breaks generated TOCs.
			if prevLevel > 0 && sec.Level > prevLevel+1 {
				findings = append(findings, model.NewFinding(
					"skipped_heading_level",
					"Skipped Heading Level",
					fmt.Sprintf("Heading %q is level %d but follows a level %d heading", sec.Heading, sec.Level, prevLevel),
					page.ID,
					sec.Line,
					sec.Heading,
				))
			}
			prevLevel = sec.Level

			if sec.Slug == "" {
				continue
			}

			if _, exists := pageAnchors[sec.Slug]; exists {
				findings = append(findings, model.NewFinding(
					"duplicate_anchor",
					"Duplicate Anchor",
					fmt.Sprintf("Heading %q generates anchor %q, which is already registered on this page", sec.Heading, sec.Slug),
					page.ID,
					sec.Line,
					sec.Slug,
				))
				continue
			}

			pageAnchors[sec.Slug] = sec
			idx.anchorCount++
		}
	}

	return idx, findings
}

// HasPage reports whether a page with the given id was loaded.
func (idx *AnchorIndex) HasPage(pageID string) bool {
	_, ok := idx.pages[pageID]
	return ok
}

// Page returns the page with the given id, or nil if it was not loaded.
func (idx *AnchorIndex) Page(pageID string) *model.Page {
	return idx.pages[pageID]
}

// Resolve looks up a slug on a page. It returns the owning section, or
// nil if either the page or the slug is unknown.
func (idx *AnchorIndex) Resolve(pageID, slug string) *model.Section {
	pageAnchors, ok := idx.anchors[pageID]
	if !ok {
		return nil
	}
	return pageAnchors[slug]
}

// PageCount returns the number of indexed pages.
func (idx *AnchorIndex) PageCount() int {
	return len(idx.pages)
}

// AnchorCount returns the total number of registered anchors.
func (idx *AnchorIndex) AnchorCount() int {
	return idx.anchorCount
}
