package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/PavelVaskou/docscan/internal/config"
	"github.com/PavelVaskou/docscan/internal/database"
	"github.com/PavelVaskou/docscan/internal/model"
)

// Constants for health direction and summary messages.
const (
	healthDirectionWorsened  = "worsened"
	healthDirectionImproved  = "improved"
	healthDirectionUnchanged = "unchanged"
	noFindingsMessage        = "No findings"
)

// NewCompareCmd creates the compare command.
// This command compares scan results with historical data stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [docs-dir]",
		Short: "Compare scan results with historical data",
		Long: `Compare displays differences between the current and previous scan results.

This command retrieves historical scan data from the database and shows:
- New findings that appeared since the last scan
- Fixed findings that are no longer present
- Changes in severity counts

The comparison requires at least two scans in the database for the specified
documentation root. Use 'docscan scan' to perform scans and save results.

Examples:
  # Compare latest two scans for a root
  docscan compare ./docs

  # List all scan history for a root
  docscan compare --list ./docs

  # Compare with a specific historical scan by ID
  docscan compare --with-scan-id 5 ./docs

  # Compare scans since a specific date
  docscan compare --since "2026-01-01" ./docs

  # Output comparison in JSON format
  docscan compare --json ./docs

  # List all scanned roots in the database
  docscan compare --list-roots`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List scan history for the specified documentation root")
	cmd.Flags().BoolP("list-roots", "L", false,
		"List all scanned roots in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-scan-id", "i", 0,
		"Compare with a specific scan by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first scan after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-roots flag first (requires database but no root)
	listRoots, err := cmd.Flags().GetBool("list-roots")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-roots)
	// This prevents database lock issues when validation fails
	var root string
	if !listRoots {
		// Require a documentation root for other operations
		if len(args) == 0 {
			return errors.New("documentation root is required (use --list-roots to see available roots)")
		}
		root = args[0]
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	// Open database
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Handle --list-roots flag
	if listRoots {
		return listScannedRoots(ctx, db)
	}

	// Handle --list flag
	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listScanHistory(ctx, db, root)
	}

	// Get output format flags
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	// Get comparison target flags
	withScanID, err := cmd.Flags().GetInt64("with-scan-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	// Perform comparison
	return runComparison(ctx, db, root, withScanID, sinceDate, jsonOutput, markdownOutput)
}

// listScannedRoots lists all roots that have scan records in the database.
func listScannedRoots(ctx context.Context, db *database.HistoryDB) error {
	roots, err := db.ListScannedRoots(ctx)
	if err != nil {
		return fmt.Errorf("failed to list roots: %w", err)
	}

	if len(roots) == 0 {
		fmt.Println("No scanned roots found in the database.")
		fmt.Println("\nUse 'docscan scan <directory>' to scan a documentation tree.")
		return nil
	}

	fmt.Printf("Scanned roots (%d):\n\n", len(roots))
	for _, root := range roots {
		fmt.Printf("  • %s\n", root)
	}
	fmt.Println("\nUse 'docscan compare --list <directory>' to see scan history for a root.")

	return nil
}

// listScanHistory lists all scan records for a specific documentation root.
func listScanHistory(ctx context.Context, db *database.HistoryDB, root string) error {
	reports, err := db.GetScanHistoryWithMetadata(ctx, root)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(reports) == 0 {
		fmt.Printf("No scan history found for %s\n", root)
		fmt.Println("\nUse 'docscan scan' to scan this documentation tree.")
		return nil
	}

	fmt.Printf("Scan history for %s (%d scans):\n\n", root, len(reports))
	fmt.Printf("  %-6s  %-20s  %s\n", "ID", "Date", "Severity Summary")
	fmt.Println("  " + strings.Repeat("-", 60))

	for _, meta := range reports {
		summary := formatSeveritySummary(meta.SeveritySummary)
		fmt.Printf("  %-6d  %-20s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			summary,
		)
	}

	fmt.Println("\nUse 'docscan compare <directory>' to compare the latest two scans.")
	fmt.Println("Use 'docscan compare --with-scan-id <id> <directory>' to compare with a specific scan.")

	return nil
}

// formatSeveritySummary formats the severity summary map into a human-readable string.
func formatSeveritySummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary["error"]; v > 0 {
		parts = append(parts, fmt.Sprintf("E:%d", v))
	}
	if v := summary["warning"]; v > 0 {
		parts = append(parts, fmt.Sprintf("W:%d", v))
	}
	if v := summary["info"]; v > 0 {
		parts = append(parts, fmt.Sprintf("I:%d", v))
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between scan reports.
func runComparison(ctx context.Context, db *database.HistoryDB, root string, withScanID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	// Get the scan history metadata (IDs are needed for page hash lookups)
	metas, err := db.GetScanHistoryWithMetadata(ctx, root)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(metas) == 0 {
		return fmt.Errorf("no scan history found for %s", root)
	}

	if len(metas) < 2 && withScanID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 scans are required for comparison (found %d)", len(metas))
	}

	// Latest scan is always the current one
	currentID := metas[0].ID
	currentReport, err := db.GetScanReportByID(ctx, currentID)
	if err != nil {
		return fmt.Errorf("failed to get scan with ID %d: %w", currentID, err)
	}
	if currentReport == nil {
		return fmt.Errorf("scan with ID %d not found", currentID)
	}

	// Determine the previous scan to compare against
	var previousID int64

	if withScanID > 0 {
		previousID = withScanID
	} else if sinceDate != "" {
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Scans are sorted by timestamp DESC (newest first), so iterate in
		// reverse to find the first (oldest) scan at or after the date
		for i := len(metas) - 1; i >= 0; i-- {
			if !metas[i].Timestamp.Before(parsedDate) {
				previousID = metas[i].ID
				break // Stop at the first (oldest) matching scan
			}
		}
		if previousID == 0 {
			return fmt.Errorf("no scans found since %s", sinceDate)
		}
		// If only one scan matches and it's the current report, we can't compare
		if previousID == currentID {
			return fmt.Errorf("only one scan found since %s; at least 2 scans are required for comparison", sinceDate)
		}
	} else {
		// Default: compare with the previous scan
		previousID = metas[1].ID
	}

	previousReport, err := db.GetScanReportByID(ctx, previousID)
	if err != nil {
		return fmt.Errorf("failed to get scan with ID %d: %w", previousID, err)
	}
	if previousReport == nil {
		return fmt.Errorf("scan with ID %d not found", previousID)
	}
	// Validate that the scan ID belongs to the same root
	if previousReport.Root != root {
		return fmt.Errorf("scan ID %d belongs to %s, not %s", previousID, previousReport.Root, root)
	}

	// Generate comparison result
	comparison := compareReports(previousReport, currentReport)

	// Annotate the comparison with the pages whose content actually
	// changed between the two scans, from the stored page hashes.
	previousHashes, err := db.GetPageHashes(ctx, previousID)
	if err != nil {
		return fmt.Errorf("failed to get page hashes for scan %d: %w", previousID, err)
	}
	currentHashes, err := db.GetPageHashes(ctx, currentID)
	if err != nil {
		return fmt.Errorf("failed to get page hashes for scan %d: %w", currentID, err)
	}
	comparison.ChangedPages = diffPageHashes(previousHashes, currentHashes)

	// Output the result
	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two scan reports.
type ComparisonResult struct {
	// Root is the scanned documentation root.
	Root string `json:"root"`

	// PreviousScan contains metadata about the previous scan.
	PreviousScan ScanMetadata `json:"previous_scan"`

	// CurrentScan contains metadata about the current scan.
	CurrentScan ScanMetadata `json:"current_scan"`

	// NewFindings contains findings that are new in the current scan.
	NewFindings []model.Finding `json:"new_findings,omitempty"`

	// FixedFindings contains findings that were in the previous scan but not in current.
	FixedFindings []model.Finding `json:"fixed_findings,omitempty"`

	// ChangedPages lists the pages whose content hash differs between
	// the two scans, including pages added or removed.
	ChangedPages []string `json:"changed_pages,omitempty"`

	// UnchangedCount is the number of findings that remain unchanged.
	UnchangedCount int `json:"unchanged_count"`

	// HealthChange describes the overall change in documentation health.
	HealthChange HealthChange `json:"health_change"`
}

// ScanMetadata contains metadata about a scan for comparison display.
type ScanMetadata struct {
	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// TotalFindings is the total number of findings in this scan.
	TotalFindings int `json:"total_findings"`

	// ErrorCount is the number of error-severity findings.
	ErrorCount int `json:"error_count"`

	// WarningCount is the number of warning-severity findings.
	WarningCount int `json:"warning_count"`

	// InfoCount is the number of informational findings.
	InfoCount int `json:"info_count"`
}

// HealthChange describes the change in documentation health between scans.
type HealthChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// ErrorDelta is the change in error findings count.
	ErrorDelta int `json:"error_delta"`

	// WarningDelta is the change in warning findings count.
	WarningDelta int `json:"warning_delta"`

	// InfoDelta is the change in informational findings count.
	InfoDelta int `json:"info_delta"`
}

// compareReports compares two scan reports and generates a comparison result.
func compareReports(previous, current *model.ScanReport) *ComparisonResult {
	result := &ComparisonResult{
		Root: current.Root,
		PreviousScan: ScanMetadata{
			DateScanned:   previous.DateScanned,
			TotalFindings: len(previous.Findings),
			ErrorCount:    previous.ErrorCount,
			WarningCount:  previous.WarningCount,
			InfoCount:     previous.InfoCount,
		},
		CurrentScan: ScanMetadata{
			DateScanned:   current.DateScanned,
			TotalFindings: len(current.Findings),
			ErrorCount:    current.ErrorCount,
			WarningCount:  current.WarningCount,
			InfoCount:     current.InfoCount,
		},
	}

	// Build finding maps for comparison
	previousFindings := make(map[string]model.Finding)
	currentFindings := make(map[string]model.Finding)

	for _, f := range previous.Findings {
		previousFindings[findingKey(f)] = f
	}
	for _, f := range current.Findings {
		currentFindings[findingKey(f)] = f
	}

	// Find new findings (in current but not in previous)
	for key, finding := range currentFindings {
		if _, exists := previousFindings[key]; !exists {
			result.NewFindings = append(result.NewFindings, finding)
		}
	}

	// Find fixed findings (in previous but not in current)
	for key, finding := range previousFindings {
		if _, exists := currentFindings[key]; !exists {
			result.FixedFindings = append(result.FixedFindings, finding)
		} else {
			result.UnchangedCount++
		}
	}

	// Map iteration order varies run to run; sort so the comparison
	// renders as deterministically as the scan report does.
	sortFindingsByLocation(result.NewFindings)
	sortFindingsByLocation(result.FixedFindings)

	// Calculate health change
	result.HealthChange = calculateHealthChange(result.PreviousScan, result.CurrentScan)

	return result
}

// sortFindingsByLocation orders findings by page, then line, then type,
// matching the ordering scan reports use.
func sortFindingsByLocation(findings []model.Finding) {
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Page != findings[j].Page {
			return findings[i].Page < findings[j].Page
		}
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Type < findings[j].Type
	})
}

// diffPageHashes returns the ids of pages whose content hash differs
// between two scans. Pages present in only one scan count as changed.
func diffPageHashes(previous, current map[string]string) []string {
	var changed []string
	for id, hash := range current {
		if prev, ok := previous[id]; !ok || prev != hash {
			changed = append(changed, id)
		}
	}
	for id := range previous {
		if _, ok := current[id]; !ok {
			changed = append(changed, id)
		}
	}
	sort.Strings(changed)
	return changed
}

// findingKey generates a unique key for a finding for comparison purposes.
// Line numbers are deliberately excluded: unrelated edits shift lines, and
// a finding that merely moved is not new.
func findingKey(f model.Finding) string {
	return f.Type + "|" + f.Page + "|" + f.Value
}

// calculateHealthChange calculates the change in health between two scans.
func calculateHealthChange(previous, current ScanMetadata) HealthChange {
	change := HealthChange{
		ErrorDelta:   current.ErrorCount - previous.ErrorCount,
		WarningDelta: current.WarningCount - previous.WarningCount,
		InfoDelta:    current.InfoCount - previous.InfoCount,
	}

	// Determine overall direction based on weighted score.
	// Error changes dominate warning changes, which dominate info.
	previousScore := previous.ErrorCount*100 + previous.WarningCount*10 + previous.InfoCount
	currentScore := current.ErrorCount*100 + current.WarningCount*10 + current.InfoCount

	if currentScore < previousScore {
		change.Direction = healthDirectionImproved
	} else if currentScore > previousScore {
		change.Direction = healthDirectionWorsened
	} else {
		change.Direction = healthDirectionUnchanged
	}

	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(result *ComparisonResult) error {
	fmt.Printf("# Scan Comparison: %s\n\n", result.Root)

	// Health change summary
	fmt.Println("## Summary")
	fmt.Printf("\n**Documentation Health:** %s\n\n", formatHealthDirection(result.HealthChange.Direction))

	// Scan metadata table
	fmt.Println("| Metric | Previous | Current | Change |")
	fmt.Println("|--------|----------|---------|--------|")
	fmt.Printf("| Date | %s | %s | - |\n",
		result.PreviousScan.DateScanned.Format("2006-01-02 15:04"),
		result.CurrentScan.DateScanned.Format("2006-01-02 15:04"))
	fmt.Printf("| Error | %d | %d | %s |\n",
		result.PreviousScan.ErrorCount,
		result.CurrentScan.ErrorCount,
		formatDelta(result.HealthChange.ErrorDelta))
	fmt.Printf("| Warning | %d | %d | %s |\n",
		result.PreviousScan.WarningCount,
		result.CurrentScan.WarningCount,
		formatDelta(result.HealthChange.WarningDelta))
	fmt.Printf("| Info | %d | %d | %s |\n",
		result.PreviousScan.InfoCount,
		result.CurrentScan.InfoCount,
		formatDelta(result.HealthChange.InfoDelta))
	fmt.Printf("| **Total** | **%d** | **%d** | **%s** |\n",
		result.PreviousScan.TotalFindings,
		result.CurrentScan.TotalFindings,
		formatDelta(result.CurrentScan.TotalFindings-result.PreviousScan.TotalFindings))

	// New findings
	if len(result.NewFindings) > 0 {
		fmt.Printf("\n## New Findings (%d)\n\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Printf("- **[%s]** %s: %s\n", f.SeverityText, f.Title, f.Value)
			fmt.Printf("  - Location: `%s:%d`\n", f.Page, f.Line)
		}
	}

	// Fixed findings
	if len(result.FixedFindings) > 0 {
		fmt.Printf("\n## Fixed Findings (%d)\n\n", len(result.FixedFindings))
		for _, f := range result.FixedFindings {
			fmt.Printf("- ~~**[%s]** %s: %s~~\n", f.SeverityText, f.Title, f.Value)
		}
	}

	// Changed pages
	if len(result.ChangedPages) > 0 {
		fmt.Printf("\n## Changed Pages (%d)\n\n", len(result.ChangedPages))
		for _, page := range result.ChangedPages {
			fmt.Printf("- `%s`\n", page)
		}
	}

	// Unchanged count
	if result.UnchangedCount > 0 {
		fmt.Printf("\n---\n\n*%d findings unchanged*\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Scan Comparison: %s\n", result.Root)
	fmt.Println(strings.Repeat("=", 60))

	// Health change summary
	fmt.Printf("\nDocumentation Health: %s\n", formatHealthDirection(result.HealthChange.Direction))

	// Scan dates
	fmt.Printf("\nPrevious scan: %s\n", result.PreviousScan.DateScanned.Format("2006-01-02 15:04:05"))
	fmt.Printf("Current scan:  %s\n", result.CurrentScan.DateScanned.Format("2006-01-02 15:04:05"))

	// Summary table
	fmt.Println("\nFindings Summary:")
	fmt.Printf("  %-10s  %-10s  %-10s  %-10s\n", "Severity", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Error",
		result.PreviousScan.ErrorCount, result.CurrentScan.ErrorCount,
		formatDelta(result.HealthChange.ErrorDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Warning",
		result.PreviousScan.WarningCount, result.CurrentScan.WarningCount,
		formatDelta(result.HealthChange.WarningDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Info",
		result.PreviousScan.InfoCount, result.CurrentScan.InfoCount,
		formatDelta(result.HealthChange.InfoDelta))
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.PreviousScan.TotalFindings, result.CurrentScan.TotalFindings,
		formatDelta(result.CurrentScan.TotalFindings-result.PreviousScan.TotalFindings))

	// New findings
	if len(result.NewFindings) > 0 {
		fmt.Printf("\nNew Findings (%d):\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Printf("  [+] [%s] %s: %s\n", f.SeverityText, f.Title, f.Value)
			fmt.Printf("      Location: %s:%d\n", f.Page, f.Line)
		}
	}

	// Fixed findings
	if len(result.FixedFindings) > 0 {
		fmt.Printf("\nFixed Findings (%d):\n", len(result.FixedFindings))
		for _, f := range result.FixedFindings {
			fmt.Printf("  [-] [%s] %s: %s\n", f.SeverityText, f.Title, f.Value)
		}
	}

	// Changed pages
	if len(result.ChangedPages) > 0 {
		fmt.Printf("\nChanged Pages (%d):\n", len(result.ChangedPages))
		for _, page := range result.ChangedPages {
			fmt.Printf("  ~ %s\n", page)
		}
	}

	// Unchanged count
	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d findings\n", result.UnchangedCount)
	}

	return nil
}

// formatHealthDirection formats the health change direction for display.
func formatHealthDirection(direction string) string {
	switch direction {
	case healthDirectionImproved:
		return "IMPROVED (fewer issues)"
	case healthDirectionWorsened:
		return "WORSENED (more issues)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
