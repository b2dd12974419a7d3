package model

import "testing"

// TestSeverityString tests the string representation of severity levels.
func TestSeverityString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		severity Severity
		want     string
	}{
		{"info severity", SeverityInfo, "INFO"},
		{"warning severity", SeverityWarning, "WARNING"},
		{"error severity", SeverityError, "ERROR"},
		{"unknown severity", Severity(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSeverityOrdering verifies that severities compare in impact order,
// which the pass/fail logic and sorting rely on.
func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	if !(SeverityInfo < SeverityWarning && SeverityWarning < SeverityError) {
		t.Error("expected SeverityInfo < SeverityWarning < SeverityError")
	}
}

// TestGetSeverity tests severity lookup for finding types.
func TestGetSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		findingType string
		want        Severity
	}{
		{"duplicate anchor is error", "duplicate_anchor", SeverityError},
		{"dangling page link is error", "dangling_page_link", SeverityError},
		{"dangling anchor link is error", "dangling_anchor_link", SeverityError},
		{"malformed snippet is error", "malformed_snippet", SeverityError},
		{"missing language tag is warning", "missing_language_tag", SeverityWarning},
		{"unknown language tag is warning", "unknown_language_tag", SeverityWarning},
		{"empty snippet is warning", "empty_snippet", SeverityWarning},
		{"skipped heading level is warning", "skipped_heading_level", SeverityWarning},
		{"empty heading is warning", "empty_heading", SeverityWarning},
		{"unknown type defaults to info", "something_new", SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GetSeverity(tt.findingType); got != tt.want {
				t.Errorf("GetSeverity(%q) = %v, want %v", tt.findingType, got, tt.want)
			}
		})
	}
}

// TestGetFindingInfo tests the full finding metadata lookup.
func TestGetFindingInfo(t *testing.T) {
	t.Parallel()

	t.Run("known type carries category and recommendation", func(t *testing.T) {
		t.Parallel()

		info := GetFindingInfo("dangling_page_link")
		if info.Severity != SeverityError {
			t.Errorf("expected error severity, got %v", info.Severity)
		}
		if info.Category != CategoryDanglingLink {
			t.Errorf("expected category %q, got %q", CategoryDanglingLink, info.Category)
		}
		if info.Impact == "" {
			t.Error("expected non-empty impact")
		}
		if info.Recommendation == "" {
			t.Error("expected non-empty recommendation")
		}
	})

	t.Run("unknown type returns safe default", func(t *testing.T) {
		t.Parallel()

		info := GetFindingInfo("no_such_type")
		if info.Severity != SeverityInfo {
			t.Errorf("expected info severity, got %v", info.Severity)
		}
		if info.Impact == "" || info.Recommendation == "" {
			t.Error("expected default impact and recommendation to be set")
		}
	})

	t.Run("every mapped type has complete metadata", func(t *testing.T) {
		t.Parallel()

		for findingType, info := range findingInfoMapping {
			if info.Category == "" {
				t.Errorf("finding type %q has empty category", findingType)
			}
			if info.Impact == "" {
				t.Errorf("finding type %q has empty impact", findingType)
			}
			if info.Recommendation == "" {
				t.Errorf("finding type %q has empty recommendation", findingType)
			}
		}
	})
}
