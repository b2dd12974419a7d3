package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/PavelVaskou/docscan/internal/model"
)

// testFactory builds pipelines whose single step tags the report with
// its root, so batch tests can verify ordering without touching disk.
func testFactory() func(root string) *Pipeline {
	return func(root string) *Pipeline {
		p := New(WithLogger(quietLogger()))
		p.AddStep(&mockStep{name: "scan-" + root})
		return p
	}
}

// TestProcessBatch tests concurrent multi-root scanning.
func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("reports come back in input order", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(testFactory(),
			WithBatchLogger(quietLogger()),
			WithConcurrency(2),
		)

		roots := []string{"docs-a", "docs-b", "docs-c"}
		reports, err := bp.ProcessBatch(context.Background(), roots)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(reports) != 3 {
			t.Fatalf("expected 3 reports, got %d", len(reports))
		}
		for i, root := range roots {
			if reports[i].Root != root {
				t.Errorf("expected report %d for %q, got %q", i, root, reports[i].Root)
			}
		}
	})

	t.Run("failed roots still yield reports", func(t *testing.T) {
		t.Parallel()

		// A real load failure: the factory builds the standard pipeline
		// over directories that do not exist.
		factory := func(root string) *Pipeline {
			return DefaultPipeline(root, []Option{WithLogger(quietLogger())})
		}
		bp := NewBatchProcessor(factory, WithBatchLogger(quietLogger()))

		reports, err := bp.ProcessBatch(context.Background(), []string{"/nonexistent-a", "/nonexistent-b"})
		if err != nil {
			t.Fatalf("expected per-root failures to be swallowed, got %v", err)
		}

		if len(reports) != 2 {
			t.Fatalf("expected 2 reports, got %d", len(reports))
		}
		for _, r := range reports {
			if r.ErrorMessage == "" {
				t.Errorf("expected failure recorded for root %q", r.Root)
			}
			if r.Passed() {
				t.Errorf("expected failed root %q not to pass", r.Root)
			}
		}
	})

	t.Run("empty batch completes immediately", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(testFactory(), WithBatchLogger(quietLogger()))

		reports, err := bp.ProcessBatch(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reports) != 0 {
			t.Errorf("expected no reports, got %d", len(reports))
		}
	})
}

// TestProcessBatchWithCallback tests the streaming variant.
func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(testFactory(),
		WithBatchLogger(quietLogger()),
		WithConcurrency(2),
	)

	roots := []string{"docs-a", "docs-b", "docs-c"}

	var mu sync.Mutex
	seen := make(map[int]string)

	err := bp.ProcessBatchWithCallback(context.Background(), roots,
		func(report *model.ScanReport, index int) {
			mu.Lock()
			defer mu.Unlock()
			seen[index] = report.Root
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 3 {
		t.Fatalf("expected 3 callbacks, got %d", len(seen))
	}
	for i, root := range roots {
		if seen[i] != root {
			t.Errorf("expected callback %d for %q, got %q", i, root, seen[i])
		}
	}
}
