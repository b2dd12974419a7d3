package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/PavelVaskou/docscan/internal/checker"
	"github.com/PavelVaskou/docscan/internal/index"
	"github.com/PavelVaskou/docscan/internal/loader"
	"github.com/PavelVaskou/docscan/internal/model"
)

// DefaultWorkers is the per-page check concurrency when none is configured.
const DefaultWorkers = 8

// indexHolder passes the anchor index from the index step to the link
// step. The pipeline executes steps sequentially, so by the time the
// link step reads the holder the index is complete and immutable; that
// is the two-phase barrier.
type indexHolder struct {
	idx *index.AnchorIndex
}

// LoadStep reads and parses every documentation unit under the root.
// A structural parse failure is fatal and aborts the pipeline.
type LoadStep struct {
	// root is the documentation root directory.
	root string

	// exts are the file extensions recognized as pages.
	exts []string
}

// NewLoadStep creates a LoadStep for the given root. An empty exts slice
// means the loader defaults apply.
func NewLoadStep(root string, exts []string) *LoadStep {
	return &LoadStep{root: root, exts: exts}
}

// Name implements Step.
func (s *LoadStep) Name() string { return "load" }

// Do implements Step.
func (s *LoadStep) Do(ctx context.Context, report *model.ScanReport) error {
	opts := []loader.Option{}
	if len(s.exts) > 0 {
		opts = append(opts, loader.WithExtensions(s.exts))
	}

	pages, err := loader.New(s.root, opts...).Load(ctx)
	if err != nil {
		return err
	}

	report.Pages = pages
	report.PagesScanned = len(pages)
	return nil
}

// IndexStep builds the anchor index over all loaded pages and records
// duplicate-anchor and heading-structure findings.
type IndexStep struct {
	holder *indexHolder
}

// NewIndexStep creates an IndexStep publishing into the given holder.
func NewIndexStep(holder *indexHolder) *IndexStep {
	return &IndexStep{holder: holder}
}

// Name implements Step.
func (s *IndexStep) Name() string { return "index" }

// Do implements Step.
func (s *IndexStep) Do(_ context.Context, report *model.ScanReport) error {
	idx, findings := index.Build(report.Pages)
	s.holder.idx = idx
	report.AnchorsIndexed = idx.AnchorCount()
	report.AddFindings(findings)
	return nil
}

// LinkStep resolves every internal cross-reference against the index.
// Pages are checked in parallel; the index is read-only by now.
type LinkStep struct {
	holder  *indexHolder
	workers int
}

// NewLinkStep creates a LinkStep reading the index from the given holder.
func NewLinkStep(holder *indexHolder, workers int) *LinkStep {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &LinkStep{holder: holder, workers: workers}
}

// Name implements Step.
func (s *LinkStep) Name() string { return "links" }

// Do implements Step.
func (s *LinkStep) Do(ctx context.Context, report *model.ScanReport) error {
	lc := checker.NewLinkChecker(s.holder.idx)

	findings := make([][]model.Finding, len(report.Pages))
	stats := make([]checker.LinkStats, len(report.Pages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, page := range report.Pages {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			findings[i], stats[i] = lc.CheckPage(page)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// Merging replays original page order, not completion order, so the
	// final finding order is deterministic.
	for i := range report.Pages {
		report.AddFindings(findings[i])
		report.LinksChecked += stats[i].Internal
		report.ExternalLinks += stats[i].External
	}

	return nil
}

// SnippetStep validates every embedded code snippet. Pages are checked
// in parallel; snippet validation touches no shared state at all.
type SnippetStep struct {
	workers   int
	languages []string
}

// NewSnippetStep creates a SnippetStep. A non-empty languages list
// becomes the snippet language allow-list.
func NewSnippetStep(workers int, languages []string) *SnippetStep {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &SnippetStep{workers: workers, languages: languages}
}

// Name implements Step.
func (s *SnippetStep) Name() string { return "snippets" }

// Do implements Step.
func (s *SnippetStep) Do(ctx context.Context, report *model.ScanReport) error {
	sv := checker.NewSnippetValidator(s.languages)

	findings := make([][]model.Finding, len(report.Pages))
	stats := make([]checker.SnippetStats, len(report.Pages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, page := range report.Pages {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			findings[i], stats[i] = sv.CheckPage(page)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i := range report.Pages {
		report.AddFindings(findings[i])
		report.SnippetsChecked += stats[i].Checked
	}

	return nil
}

// DefaultPipelineOption configures the steps built by DefaultPipeline.
type DefaultPipelineOption func(*defaultPipelineConfig)

// defaultPipelineConfig carries the step parameters.
type defaultPipelineConfig struct {
	exts      []string
	workers   int
	languages []string
}

// WithPipelineExtensions sets the recognized page file extensions.
func WithPipelineExtensions(exts []string) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.exts = exts
	}
}

// WithPipelineWorkers sets the per-page check concurrency.
func WithPipelineWorkers(n int) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithPipelineLanguages sets the snippet language allow-list.
func WithPipelineLanguages(languages []string) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.languages = languages
	}
}

// DefaultPipeline assembles the standard scan pipeline for one
// documentation root: load, index, links, snippets. The index step
// completes before the link step starts, which is the two-phase barrier
// the concurrent checking relies on.
func DefaultPipeline(root string, pipelineOpts []Option, opts ...DefaultPipelineOption) *Pipeline {
	cfg := &defaultPipelineConfig{workers: DefaultWorkers}
	for _, opt := range opts {
		opt(cfg)
	}

	holder := &indexHolder{}

	p := New(pipelineOpts...)
	p.AddSteps(
		NewLoadStep(root, cfg.exts),
		NewIndexStep(holder),
		NewLinkStep(holder, cfg.workers),
		NewSnippetStep(cfg.workers, cfg.languages),
	)
	return p
}
