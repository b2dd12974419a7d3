package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/PavelVaskou/docscan/internal/model"
)

// mockStep is a controllable Step implementation for pipeline tests.
type mockStep struct {
	name     string
	err      error
	executed bool
}

func (s *mockStep) Do(_ context.Context, _ *model.ScanReport) error {
	s.executed = true
	return s.err
}

func (s *mockStep) Name() string { return s.name }

// quietLogger discards all pipeline log output in tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestPipelineExecute tests step orchestration and error handling.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		first := &mockStep{name: "first"}
		second := &mockStep{name: "second"}

		p := New(WithLogger(quietLogger()))
		p.AddSteps(first, second)

		report := model.NewScanReport("docs")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !first.executed || !second.executed {
			t.Error("expected both steps to execute")
		}
		if len(report.PerformedChecks) != 2 ||
			report.PerformedChecks[0] != "first" || report.PerformedChecks[1] != "second" {
			t.Errorf("unexpected performed checks: %v", report.PerformedChecks)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		stepErr := errors.New("load failed")
		failing := &mockStep{name: "failing", err: stepErr}
		after := &mockStep{name: "after"}

		p := New(WithLogger(quietLogger()))
		p.AddSteps(failing, after)

		report := model.NewScanReport("docs")
		err := p.Execute(context.Background(), report)

		if !errors.Is(err, stepErr) {
			t.Errorf("expected step error, got %v", err)
		}
		if after.executed {
			t.Error("expected later steps to be skipped after a failure")
		}
		if report.ErrorMessage != "load failed" {
			t.Errorf("expected error recorded in report, got %q", report.ErrorMessage)
		}
	})

	t.Run("continue-on-error runs remaining steps", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{name: "failing", err: errors.New("boom")}
		after := &mockStep{name: "after"}

		p := New(WithLogger(quietLogger()), WithContinueOnError(true))
		p.AddSteps(failing, after)

		report := model.NewScanReport("docs")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("expected nil error with continue-on-error, got %v", err)
		}

		if !after.executed {
			t.Error("expected later steps to execute")
		}
		if report.ErrorMessage == "" {
			t.Error("expected failure to be recorded in report")
		}
	})

	t.Run("cancelled context stops the pipeline", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "never"}
		p := New(WithLogger(quietLogger()))
		p.AddStep(step)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report := model.NewScanReport("docs")
		err := p.Execute(ctx, report)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.executed {
			t.Error("expected no step to run after cancellation")
		}
		if !errors.Is(report.Error, context.Canceled) {
			t.Errorf("expected cancellation recorded in report, got %v", report.Error)
		}
	})

	t.Run("step introspection", func(t *testing.T) {
		t.Parallel()

		p := New(WithLogger(quietLogger()))
		p.AddSteps(&mockStep{name: "a"}, &mockStep{name: "b"})

		if p.StepCount() != 2 {
			t.Errorf("expected 2 steps, got %d", p.StepCount())
		}
		names := p.StepNames()
		if len(names) != 2 || names[0] != "a" || names[1] != "b" {
			t.Errorf("unexpected step names: %v", names)
		}
	})
}

// TestDefaultPipelineSteps verifies the standard pipeline composition:
// indexing finishes before any link checking starts.
func TestDefaultPipelineSteps(t *testing.T) {
	t.Parallel()

	p := DefaultPipeline("docs", []Option{WithLogger(quietLogger())})

	want := []string{"load", "index", "links", "snippets"}
	got := p.StepNames()
	if len(got) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected step %d to be %q, got %q", i, want[i], got[i])
		}
	}
}
