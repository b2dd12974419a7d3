package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/PavelVaskou/docscan/internal/config"
	"github.com/PavelVaskou/docscan/internal/database"
	"github.com/PavelVaskou/docscan/internal/log"
	"github.com/PavelVaskou/docscan/internal/model"
	"github.com/PavelVaskou/docscan/internal/pipeline"
	"github.com/PavelVaskou/docscan/internal/report"
)

// errScanFailed is returned when at least one scanned root has
// error-severity findings or aborted. Cobra surfaces it and Execute
// turns it into a non-zero exit code for CI gating.
var errScanFailed = errors.New("documentation check failed")

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [docs-dir...]",
		Short: "Scan documentation trees for integrity issues",
		Long: `Scan checks one or more documentation roots for integrity issues.

It loads every recognized page under each root and verifies:
- Anchor uniqueness (no two headings produce the same slug on a page)
- Cross-reference integrity (page links and #fragment links resolve)
- Snippet well-formedness (balanced delimiters, language tags)
- Heading structure (no skipped levels, no empty headings)

Examples:
  # Scan a single documentation tree
  docscan scan ./docs

  # Scan several trees concurrently
  docscan scan ./docs ./guides ./reference

  # Restrict snippet languages and output JSON
  docscan scan --langs tact,func,typescript --json ./docs

  # Use a custom configuration file
  docscan scan -c myconfig.yaml ./docs

Configuration file (.docscan) example:
  defaults:
    languages: [tact, func, typescript]
  roots:
    ./docs:
      extensions: [.mdx]
      workers: 16`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Scan behavior flags
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Per-page check concurrency within one root")
	cmd.Flags().StringSliceP("ext", "e", nil,
		"Page file extensions (default: .md,.mdx)")
	cmd.Flags().StringSliceP("langs", "l", nil,
		"Snippet language allow-list (default: any language accepted)")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent root scans")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .docscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-timestamp", false,
		"Omit the scan timestamp so identical input produces byte-identical reports")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not save scan results to the history database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging. A single root gets its paths rewritten
	// to be root-relative in log output; multi-root scans keep absolute
	// paths so entries stay attributable.
	verbose := getVerboseFlag(cmd)
	logRoot := ""
	if len(cfg.Roots) == 1 {
		logRoot = cfg.Roots[0]
	}
	logger := log.NewLogger(os.Stderr, logRoot, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	exts, err := cmd.Flags().GetStringSlice("ext")
	if err != nil {
		return nil, err
	}
	if len(exts) > 0 {
		cfg.Extensions = exts
	}

	cfg.Languages, err = cmd.Flags().GetStringSlice("langs")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-root configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.PathConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.PathConfigs = &config.File{
			Roots: make(map[string]config.PathConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.NoTimestamp, err = cmd.Flags().GetBool("no-timestamp")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if !noHistory {
		cfg.SaveToDB = true
		cfg.DBDir = config.XDGDataDir()
	}

	// Get positional arguments (documentation roots)
	cfg.Roots = args

	return cfg, nil
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Roots) == 0 {
		return errors.New("no documentation root provided (specify one or more directories as arguments)")
	}

	// Validate roots up front so a typo fails fast instead of producing
	// an empty "passed" scan.
	for i, root := range cfg.Roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("documentation root %q: %w", root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("documentation root %q is not a directory", root)
		}
		cfg.Roots[i] = filepath.Clean(root)
	}

	logger.Info("starting scan",
		"roots", cfg.Roots,
		"workers", cfg.Workers,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Use batch processor for parallel scanning if multiple roots
	if len(cfg.Roots) > 1 && cfg.BatchSize > 1 {
		return runBatchScan(ctx, cfg, db, logger)
	}

	// Single root or sequential scanning
	return runSequentialScan(ctx, cfg, db, logger)
}

// runSequentialScan scans roots one at a time.
func runSequentialScan(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	failed := false

	for _, root := range cfg.Roots {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := createPipelineForRoot(root, logger, cfg)

		scanReport := model.NewScanReport(root)
		if cfg.NoTimestamp {
			scanReport.DateScanned = time.Time{}
		}

		fmt.Printf("Scanning %s...\n", root)
		startTime := time.Now()

		// Execute the pipeline. A fatal error (malformed input) is
		// recorded on the report; the run still produces output.
		if err := p.Execute(ctx, scanReport); err != nil {
			logger.Error("scan failed", "root", root, "error", err)
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Scan completed in %s\n\n", elapsed.Round(time.Millisecond))

		// Generate and output report
		if err := outputReport(cfg, scanReport); err != nil {
			logger.Error("report failed", "root", root, "error", err)
		}

		// Save to database if enabled
		if err := saveScanReport(ctx, db, scanReport, logger); err != nil {
			logger.Error("failed to save scan report", "root", root, "error", err)
		}

		if !scanReport.Passed() {
			failed = true
		}
	}

	if failed {
		return errScanFailed
	}
	return nil
}

// runBatchScan scans multiple roots concurrently using BatchProcessor.
func runBatchScan(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch scan of %d roots (concurrency: %d)...\n\n",
		len(cfg.Roots), cfg.BatchSize)

	startTime := time.Now()

	// Create batch processor with pipeline factory
	bp := pipeline.NewBatchProcessor(
		func(root string) *pipeline.Pipeline {
			return createPipelineForRoot(root, logger, cfg)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	failed := false
	err := bp.ProcessBatchWithCallback(ctx, cfg.Roots, func(scanReport *model.ScanReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		if cfg.NoTimestamp {
			scanReport.DateScanned = time.Time{}
		}

		fmt.Printf("[%d/%d] Scan completed: %s\n", index+1, len(cfg.Roots), scanReport.Root)

		// Generate and output report
		if err := outputReport(cfg, scanReport); err != nil {
			logger.Error("report failed", "root", scanReport.Root, "error", err)
		}

		// Save to database if enabled
		if err := saveScanReport(ctx, db, scanReport, logger); err != nil {
			logger.Error("failed to save scan report", "root", scanReport.Root, "error", err)
		}

		if !scanReport.Passed() {
			failed = true
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch scan completed in %s\n", elapsed.Round(time.Millisecond))

	if err != nil {
		return err
	}
	if failed {
		return errScanFailed
	}
	return nil
}

// createPipelineForRoot creates a pipeline with the given configuration.
// Per-root overrides from the config file take precedence over global
// flag values.
func createPipelineForRoot(root string, logger *slog.Logger, cfg *config.Config) *pipeline.Pipeline {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
	}

	exts := cfg.Extensions
	langs := cfg.Languages
	workers := cfg.Workers

	if cfg.PathConfigs != nil {
		pathConfig := cfg.PathConfigs.GetPathConfig(root)
		if len(pathConfig.Extensions) > 0 {
			exts = pathConfig.Extensions
		}
		if len(pathConfig.Languages) > 0 {
			langs = pathConfig.Languages
		}
		if pathConfig.Workers > 0 {
			workers = pathConfig.Workers
		}
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineExtensions(exts),
		pipeline.WithPipelineWorkers(workers),
		pipeline.WithPipelineLanguages(langs),
	}

	return pipeline.DefaultPipeline(root, pipelineOpts, configOpts...)
}

// outputReport outputs the scan report in the requested format.
func outputReport(cfg *config.Config, scanReport *model.ScanReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Append when scanning multiple roots so one file holds all reports
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (full report with version metadata)
	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(scanReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(scanReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output)
	_, err := writer.Write(scanReport)
	return err
}

// saveScanReport saves the scan report to the database if enabled.
// If db is nil, this function is a no-op.
func saveScanReport(ctx context.Context, db *database.HistoryDB, scanReport *model.ScanReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveScanReport(ctx, scanReport)
	if err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	logger.Info("scan report saved to database", "root", scanReport.Root, "id", id)
	return nil
}
