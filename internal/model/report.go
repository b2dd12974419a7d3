package model

import (
	"sort"
	"time"
)

// Finding represents a single reported documentation issue.
type Finding struct {
	// Type is the finding type identifier.
	// This maps to the findingInfoMapping in severity.go.
	Type string `json:"type"`

	// Category is the machine-readable finding category
	// (duplicate-anchor, dangling-link, malformed-snippet, structure).
	Category string `json:"category"`

	// Severity is the impact level.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Title is a short description of the finding.
	Title string `json:"title"`

	// Description provides more detail about the finding.
	Description string `json:"description,omitempty"`

	// Impact explains why this finding matters.
	Impact string `json:"impact,omitempty"`

	// Recommendation provides guidance on how to address this finding.
	Recommendation string `json:"recommendation,omitempty"`

	// Page is the identifier of the page where the issue was found.
	Page string `json:"page"`

	// Line is the 1-based source line of the occurrence.
	Line int `json:"line"`

	// Value is the specific value involved (slug, link target, etc.).
	Value string `json:"value,omitempty"`
}

// NewFinding builds a Finding of the given type, filling severity,
// category, impact, and recommendation from the central mapping.
func NewFinding(findingType, title, description, page string, line int, value string) Finding {
	info := GetFindingInfo(findingType)
	return Finding{
		Type:           findingType,
		Category:       info.Category,
		Severity:       info.Severity,
		SeverityText:   info.Severity.String(),
		Title:          title,
		Description:    description,
		Impact:         info.Impact,
		Recommendation: info.Recommendation,
		Page:           page,
		Line:           line,
		Value:          value,
	}
}

// ScanReport is the main scan result structure. It accumulates findings
// from all checkers during a single pass and carries the loaded pages
// between pipeline steps.
//
// Design decision: We use a single struct shared by all pipeline steps,
// with the heavyweight intermediate data (Pages) excluded from JSON, so
// the serialized report stays a compact record list.
type ScanReport struct {
	// Root is the documentation root that was scanned.
	Root string `json:"root"`

	// DateScanned is the timestamp when the scan was performed. A zero
	// value means timestamps were suppressed for reproducible output,
	// and writers omit it.
	DateScanned time.Time `json:"date_scanned,omitzero"`

	// === Intermediate scan data ===

	// Pages holds the loaded pages in deterministic (lexicographic
	// source path) order. Populated by the load step, read-only after.
	Pages []*Page `json:"-"` // Excluded from JSON due to size

	// === Statistics ===

	// PagesScanned is the number of pages loaded.
	PagesScanned int `json:"pages_scanned"`

	// AnchorsIndexed is the number of anchors registered in the index.
	AnchorsIndexed int `json:"anchors_indexed"`

	// LinksChecked is the number of internal links resolved.
	LinksChecked int `json:"links_checked"`

	// ExternalLinks is the number of external links seen and skipped.
	ExternalLinks int `json:"external_links"`

	// SnippetsChecked is the number of code snippets validated.
	SnippetsChecked int `json:"snippets_checked"`

	// === Findings ===

	// Findings holds all findings in discovery order.
	Findings []Finding `json:"findings"`

	// ErrorCount is the number of error-severity findings.
	ErrorCount int `json:"error_count"`

	// WarningCount is the number of warning-severity findings.
	WarningCount int `json:"warning_count"`

	// InfoCount is the number of informational findings.
	InfoCount int `json:"info_count"`

	// === Scan state ===

	// PerformedChecks lists the pipeline steps that actually ran.
	PerformedChecks []string `json:"performed_checks,omitempty"`

	// Error contains any fatal error that occurred during scanning.
	Error error `json:"-"` // Excluded from JSON

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewScanReport creates a new report for the given documentation root.
func NewScanReport(root string) *ScanReport {
	return &ScanReport{
		Root:        root,
		DateScanned: time.Now(),
		Findings:    make([]Finding, 0),
	}
}

// AddFinding appends a finding and updates the severity counters.
// Duplicate findings (same type, page, line, and value) are dropped so
// that re-scanned blocks never double-report.
func (r *ScanReport) AddFinding(finding Finding) {
	for _, f := range r.Findings {
		if f.Type == finding.Type && f.Page == finding.Page &&
			f.Line == finding.Line && f.Value == finding.Value {
			return
		}
	}

	r.Findings = append(r.Findings, finding)

	switch finding.Severity {
	case SeverityError:
		r.ErrorCount++
	case SeverityWarning:
		r.WarningCount++
	case SeverityInfo:
		r.InfoCount++
	}
}

// AddFindings appends multiple findings in order.
func (r *ScanReport) AddFindings(findings []Finding) {
	for _, f := range findings {
		r.AddFinding(f)
	}
}

// Passed reports whether the run succeeded: no error-severity findings
// and no fatal error. Warnings and informational findings never fail a run.
func (r *ScanReport) Passed() bool {
	return r.ErrorCount == 0 && r.Error == nil && r.ErrorMessage == ""
}

// TotalFindings returns the total number of findings.
func (r *ScanReport) TotalFindings() int {
	return len(r.Findings)
}

// HasFindings returns true if there are any findings.
func (r *ScanReport) HasFindings() bool {
	return len(r.Findings) > 0
}

// GetFindingsBySeverity returns findings filtered by severity,
// preserving discovery order.
func (r *ScanReport) GetFindingsBySeverity(severity Severity) []Finding {
	var result []Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			result = append(result, f)
		}
	}
	return result
}

// SortedFindings returns a copy of the findings ordered by page id, then
// line, then discovery order. This is the stable rendering order for
// human consumption; the Findings field itself keeps discovery order for
// machine consumption.
func (r *ScanReport) SortedFindings() []Finding {
	sorted := make([]Finding, len(r.Findings))
	copy(sorted, r.Findings)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Page != sorted[j].Page {
			return sorted[i].Page < sorted[j].Page
		}
		return sorted[i].Line < sorted[j].Line
	})

	return sorted
}
