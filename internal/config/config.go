package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen for typical documentation tree sizes; large
// monorepo doc sets may need them raised via CLI flags.
const (
	// DefaultWorkers is the per-page check concurrency. Checking is
	// CPU-bound string work, so a small fixed pool is enough; higher
	// values give diminishing returns on typical doc trees.
	DefaultWorkers = 8

	// DefaultBatchSize of 4 concurrent root scans balances throughput
	// with file descriptor and memory usage when several documentation
	// roots are scanned in one invocation.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "docscan"
)

// DefaultExtensions are the file extensions recognized as documentation
// pages when none are configured.
var DefaultExtensions = []string{".md", ".mdx"}

// Config holds all configuration options for docscan.
// This struct is designed to be populated from CLI flags and the config
// file, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ScanConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// Roots is the list of documentation root directories to scan.
	// Must contain at least one existing directory.
	Roots []string

	// Extensions are the file extensions treated as documentation pages.
	// Entries must start with a dot. Empty means DefaultExtensions.
	Extensions []string

	// Languages is the snippet language allow-list. When non-empty,
	// snippets declaring a tag outside the list produce a warning.
	// Empty means any language tag is accepted.
	Languages []string

	// Workers is the per-page check concurrency within one root scan.
	Workers int

	// BatchSize is the number of concurrent root scans when multiple
	// roots are given.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .docscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// PathConfigs holds per-root configurations loaded from the config file.
	// This is populated by LoadConfigFile and used during scanning.
	PathConfigs *File

	// JSONReport enables JSON report output instead of human-readable format.
	// When true, outputs the full report with all findings as JSON.
	// When false, outputs human-readable simple report (default).
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable format.
	// When true, outputs GitHub Flavored Markdown with tables, alerts, and pie charts.
	// When false, outputs human-readable simple report (default).
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// NoTimestamp omits the scan timestamp from report output, so two
	// runs over identical input produce byte-identical reports. Useful
	// for diffing reports in CI.
	NoTimestamp bool

	// DBDir is the directory path for storing the SQLite database.
	// When set, scan results are saved to the database for historical comparison.
	// When empty, scan results are not persisted.
	// Defaults to XDG data directory (~/.local/share/docscan on Linux).
	DBDir string

	// SaveToDB indicates whether to save scan results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (workers, batch size,
// extensions). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Extensions: append([]string(nil), DefaultExtensions...),
		Workers:    DefaultWorkers,
		BatchSize:  DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for docscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/docscan
// On macOS: ~/Library/Application Support/docscan
// On Windows: %LOCALAPPDATA%\docscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for docscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/docscan
// On macOS: ~/Library/Application Support/docscan
// On Windows: %APPDATA%\docscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for docscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/docscan
// On macOS: ~/Library/Caches/docscan
// On Windows: %LOCALAPPDATA%\docscan\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any scanning begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one root to scan
	if len(c.Roots) == 0 {
		return ErrNoRoot
	}

	// Workers must be positive; zero would mean no checking
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	// BatchSize must be positive; zero would mean no scanning
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// Extensions must start with a dot so path matching stays unambiguous
	for _, ext := range c.Extensions {
		if len(ext) < 2 || ext[0] != '.' {
			return ErrInvalidExtension
		}
	}

	return nil
}
