package checker

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/PavelVaskou/docscan/internal/index"
	"github.com/PavelVaskou/docscan/internal/model"
)

// AnchorRef is a single cross-reference occurrence found in prose.
// References exist only for the duration of a check; they are resolved
// against the anchor index and never persisted beyond report generation.
type AnchorRef struct {
	// SourcePage is the id of the page containing the reference.
	SourcePage string

	// TargetPage is the id of the referenced page. Empty means the
	// reference is same-page.
	TargetPage string

	// TargetSlug is the referenced anchor. Empty means the reference
	// points at the page as a whole.
	TargetSlug string

	// Text is the raw link text or target, used in finding messages.
	Text string

	// Line is the 1-based source line of the occurrence.
	Line int

	// External is true for links the scanner never validates
	// (http, https, mailto, and protocol-relative targets).
	External bool
}

// markdownLinkPattern matches inline markdown links, capturing the
// optional image marker, the link text, and the destination. Titles
// after the destination are tolerated and ignored.
var markdownLinkPattern = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)

// LinkChecker resolves internal cross-references against the anchor
// index. The index must be fully built and immutable before any
// CheckPage call; CheckPage itself only reads, so it is safe to run for
// many pages concurrently.
type LinkChecker struct {
	index *index.AnchorIndex
}

// LinkStats counts what one CheckPage call looked at.
type LinkStats struct {
	// Internal is the number of internal references resolved.
	Internal int

	// External is the number of external links seen and skipped.
	External int
}

// NewLinkChecker creates a LinkChecker over a fully built index.
func NewLinkChecker(idx *index.AnchorIndex) *LinkChecker {
	return &LinkChecker{index: idx}
}

// CheckPage scans every prose block of the page for cross-references and
// reports a dangling-link finding for each internal reference whose
// target page or anchor does not exist. External links are never
// validated; that is a deliberate non-goal, not an omission.
func (c *LinkChecker) CheckPage(page *model.Page) ([]model.Finding, LinkStats) {
	var findings []model.Finding
	var stats LinkStats

	for _, sec := range page.Sections {
		for _, block := range sec.Blocks {
			if block.Kind != model.BlockProse {
				continue
			}

			for _, ref := range c.collectRefs(page, block) {
				if ref.External {
					stats.External++
					continue
				}
				stats.Internal++

				if f, ok := c.resolve(ref); !ok {
					findings = append(findings, f)
				}
			}
		}
	}

	return findings, stats
}

// collectRefs extracts all cross-reference occurrences from one prose
// block: inline markdown links plus raw HTML anchors (MDX pages embed
// <a href> elements directly in prose).
func (c *LinkChecker) collectRefs(page *model.Page, block model.Block) []AnchorRef {
	var refs []AnchorRef

	lines := strings.Split(block.Text, "\n")
	for offset, line := range lines {
		for _, m := range markdownLinkPattern.FindAllStringSubmatch(line, -1) {
			if m[1] == "!" {
				// Image references address assets, not pages.
				continue
			}
			refs = append(refs, makeRef(page.ID, m[2], m[3], block.Line+offset))
		}
	}

	if strings.Contains(block.Text, "<a") {
		refs = append(refs, collectHTMLAnchors(page.ID, block)...)
	}

	return refs
}

// collectHTMLAnchors tokenizes a prose block as HTML and extracts href
// attributes from <a> elements. We use a real tokenizer rather than a
// regex so attribute order, quoting style, and surrounding markup don't
// matter; line numbers are recovered by counting newlines in the raw
// token stream.
func collectHTMLAnchors(pageID string, block model.Block) []AnchorRef {
	var refs []AnchorRef

	tokenizer := html.NewTokenizer(strings.NewReader(block.Text))
	line := block.Line

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return refs
		}

		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			name, hasAttr := tokenizer.TagName()
			if string(name) == "a" && hasAttr {
				for {
					key, val, more := tokenizer.TagAttr()
					if string(key) == "href" {
						refs = append(refs, makeRef(pageID, "", string(val), line))
					}
					if !more {
						break
					}
				}
			}
		}

		line += strings.Count(string(tokenizer.Raw()), "\n")
	}
}

// makeRef classifies a raw link target into an AnchorRef.
//
// Internal forms: "/path", "/path#slug", "#slug", and "relative#slug"
// (resolved against the source page's directory). Anything carrying a
// scheme is external.
func makeRef(sourcePage, text, target string, line int) AnchorRef {
	ref := AnchorRef{
		SourcePage: sourcePage,
		Text:       text,
		Line:       line,
	}
	if ref.Text == "" {
		ref.Text = target
	}

	if isExternal(target) {
		ref.External = true
		return ref
	}

	pagePart := target
	if i := strings.IndexByte(target, '#'); i >= 0 {
		pagePart = target[:i]
		ref.TargetSlug = target[i+1:]
	}

	switch {
	case pagePart == "":
		// Same-page anchor.
	case strings.HasPrefix(pagePart, "/"):
		ref.TargetPage = normalizePageID(strings.TrimPrefix(pagePart, "/"))
	default:
		ref.TargetPage = normalizePageID(path.Join(path.Dir(sourcePage), pagePart))
	}

	return ref
}

// isExternal reports whether a link target leaves the documentation set.
func isExternal(target string) bool {
	return strings.Contains(target, "://") ||
		strings.HasPrefix(target, "mailto:") ||
		strings.HasPrefix(target, "tel:") ||
		strings.HasPrefix(target, "//")
}

// normalizePageID cleans a page reference into the canonical page id
// form: forward slashes, no trailing slash, no markup extension.
func normalizePageID(p string) string {
	p = path.Clean(p)
	p = strings.TrimSuffix(p, "/")
	p = strings.TrimSuffix(p, ".mdx")
	p = strings.TrimSuffix(p, ".md")
	return p
}

// resolve checks one internal reference against the index. It returns
// the dangling-link finding and false when the reference does not
// resolve, or a zero Finding and true when it does.
func (c *LinkChecker) resolve(ref AnchorRef) (model.Finding, bool) {
	targetPage := ref.TargetPage
	if targetPage == "" {
		targetPage = ref.SourcePage
	}

	if !c.index.HasPage(targetPage) {
		return model.NewFinding(
			"dangling_page_link",
			"Dangling Page Link",
			fmt.Sprintf("Link %q points to page %q, which does not exist", ref.Text, targetPage),
			ref.SourcePage,
			ref.Line,
			targetPage,
		), false
	}

	if ref.TargetSlug != "" && c.index.Resolve(targetPage, ref.TargetSlug) == nil {
		return model.NewFinding(
			"dangling_anchor_link",
			"Dangling Anchor Link",
			fmt.Sprintf("Link %q points to anchor %q, which is not registered on page %q", ref.Text, ref.TargetSlug, targetPage),
			ref.SourcePage,
			ref.Line,
			targetPage+"#"+ref.TargetSlug,
		), false
	}

	return model.Finding{}, true
}
