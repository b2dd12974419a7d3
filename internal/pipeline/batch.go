package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PavelVaskou/docscan/internal/model"
)

// BatchProcessor handles concurrent scanning of multiple documentation
// roots. It uses errgroup to manage goroutines and respect concurrency
// limits.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-root execution
// 2. It allows different batch strategies later (e.g., fail-fast)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each root.
	// A factory ensures each scan gets a fresh pipeline instance and no
	// state leaks between roots.
	pipelineFactory func(root string) *Pipeline

	// concurrency is the maximum number of concurrent scans.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed scan reports.
	// Access is synchronized via mutex.
	results []*model.ScanReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scans.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func(root string) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
		results:         make([]*model.ScanReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch scans multiple documentation roots concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Returns all reports collected, even for roots that failed; failed
// scans carry their error in the report. The error return indicates
// batch-level cancellation.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, roots []string) ([]*model.ScanReport, error) {
	bp.logger.Info("starting batch scan",
		"total_roots", len(roots),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order.
	bp.results = make([]*model.ScanReport, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, root := range roots {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("scanning root",
				"root", root,
				"index", i+1,
				"total", len(roots),
			)

			report := model.NewScanReport(root)
			err := bp.pipelineFactory(root).Execute(ctx, report)

			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("scan failed",
					"root", root,
					"error", err,
				)
				// Don't return the error to errgroup: the other roots
				// should still be scanned, and the report records it.
				return nil
			}

			bp.logger.Info("scan completed",
				"root", root,
				"findings", report.TotalFindings(),
			)

			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch scan complete",
		"total_roots", len(roots),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback scans multiple roots and calls a callback for
// each completed scan. This is useful for streaming results.
//
// The callback receives the report and the index of the root in the
// original slice. It is called from the goroutine that completed the
// scan, so it must be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	roots []string,
	callback func(report *model.ScanReport, index int),
) error {
	bp.logger.Info("starting batch scan with callback",
		"total_roots", len(roots),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, root := range roots {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewScanReport(root)
			_ = bp.pipelineFactory(root).Execute(ctx, report) //nolint:errcheck // Error is stored in report

			callback(report, i)

			return nil
		})
	}

	return g.Wait()
}
