package model

// Severity represents the impact level of a documentation finding.
// This allows categorizing findings by whether they break the rendered
// documentation or merely degrade it.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates informational findings with no impact on
	// documentation integrity. These never affect the pass/fail result.
	SeverityInfo Severity = iota

	// SeverityWarning indicates issues that degrade documentation quality
	// but do not break navigation or rendering.
	// Examples: missing snippet language tags, skipped heading levels.
	// Warnings never fail a run.
	SeverityWarning

	// SeverityError indicates issues that break the documentation for
	// readers: dangling cross-references, colliding anchors, snippets
	// that cannot be well-formed code.
	// Any error-severity finding fails the run.
	SeverityError
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Finding categories. A category groups related finding types and is part
// of the stable machine-readable report format.
const (
	// CategoryDuplicateAnchor covers anchor slugs that collide within one page.
	CategoryDuplicateAnchor = "duplicate-anchor"

	// CategoryDanglingLink covers internal cross-references that cannot
	// be resolved to a loaded page or a registered anchor.
	CategoryDanglingLink = "dangling-link"

	// CategoryMalformedSnippet covers embedded code samples that are not
	// structurally well-formed.
	CategoryMalformedSnippet = "malformed-snippet"

	// CategoryStructure covers heading-structure issues that do not break
	// navigation but indicate sloppy document structure.
	CategoryStructure = "structure"
)

// FindingInfo contains metadata about a finding type including severity,
// category, impact description, and remediation recommendation.
type FindingInfo struct {
	Severity       Severity
	Category       string
	Impact         string
	Recommendation string
}

// findingInfoMapping maps finding types to their metadata.
// This centralized mapping ensures consistent assessment across the checkers.
//
// Design decision: We use a map rather than embedding severity in each finding
// type because:
// 1. It allows updating assessments without modifying type definitions
// 2. It provides a single source of truth for severity and category
// 3. It makes it easy to generate finding documentation
var findingInfoMapping = map[string]FindingInfo{
	// ERROR - breaks the rendered documentation
	"duplicate_anchor": {
		Severity:       SeverityError,
		Category:       CategoryDuplicateAnchor,
		Impact:         "Two headings on the same page generate the same anchor slug, so links to it resolve ambiguously.",
		Recommendation: "Rename one heading or give it an explicit [#anchor] override.",
	},
	"dangling_page_link": {
		Severity:       SeverityError,
		Category:       CategoryDanglingLink,
		Impact:         "An internal link points to a page that does not exist, producing a 404 for readers.",
		Recommendation: "Fix the link target or add the missing page.",
	},
	"dangling_anchor_link": {
		Severity:       SeverityError,
		Category:       CategoryDanglingLink,
		Impact:         "An internal link points to an anchor that is not registered on the target page, so the browser lands at the top of the page.",
		Recommendation: "Fix the anchor fragment or add the missing heading.",
	},
	"malformed_snippet": {
		Severity:       SeverityError,
		Category:       CategoryMalformedSnippet,
		Impact:         "A code snippet has unbalanced delimiters and cannot be valid code, which misleads readers copying it.",
		Recommendation: "Balance the braces, parentheses, and brackets in the snippet.",
	},

	// WARNING - degrades quality, never fails a run
	"missing_language_tag": {
		Severity:       SeverityWarning,
		Category:       CategoryMalformedSnippet,
		Impact:         "A fenced code block has no language tag, so it renders without syntax highlighting.",
		Recommendation: "Add a language tag to the code fence.",
	},
	"unknown_language_tag": {
		Severity:       SeverityWarning,
		Category:       CategoryMalformedSnippet,
		Impact:         "A fenced code block declares a language outside the configured allow-list.",
		Recommendation: "Use one of the configured snippet languages or extend the allow-list.",
	},
	"empty_snippet": {
		Severity:       SeverityWarning,
		Category:       CategoryMalformedSnippet,
		Impact:         "A fenced code block has no content and renders as an empty box.",
		Recommendation: "Fill in the snippet or remove the empty fence.",
	},
	"skipped_heading_level": {
		Severity:       SeverityWarning,
		Category:       CategoryStructure,
		Impact:         "A heading skips one or more levels, which breaks generated tables of contents and screen-reader navigation.",
		Recommendation: "Use consecutive heading levels.",
	},
	"empty_heading": {
		Severity:       SeverityWarning,
		Category:       CategoryStructure,
		Impact:         "A heading has no text and therefore no usable anchor.",
		Recommendation: "Give the heading text or remove it.",
	},
}

// GetSeverity returns the severity level for a finding type.
// Returns SeverityInfo if the finding type is not in the mapping.
func GetSeverity(findingType string) Severity {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetFindingInfo returns the full finding information for a finding type.
// Returns a default FindingInfo with SeverityInfo if the type is not in the mapping.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Severity:       SeverityInfo,
		Category:       CategoryStructure,
		Impact:         "Unknown finding type. Review manually.",
		Recommendation: "Investigate the finding and assess impact.",
	}
}
