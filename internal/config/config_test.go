package config

import (
	"errors"
	"strings"
	"testing"
)

// TestNewConfig tests the default configuration values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Workers != DefaultWorkers {
		t.Errorf("expected %d workers, got %d", DefaultWorkers, cfg.Workers)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("expected batch size %d, got %d", DefaultBatchSize, cfg.BatchSize)
	}
	if len(cfg.Extensions) != 2 || cfg.Extensions[0] != ".md" || cfg.Extensions[1] != ".mdx" {
		t.Errorf("unexpected default extensions: %v", cfg.Extensions)
	}
	if cfg.Verbose {
		t.Error("expected verbose to default to false")
	}
	if cfg.SaveToDB {
		t.Error("expected database persistence to default to false")
	}

	// The defaults slice is a copy; mutating it must not leak back.
	cfg.Extensions[0] = ".txt"
	if DefaultExtensions[0] != ".md" {
		t.Error("expected DefaultExtensions to be unaffected by config mutation")
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Roots = []string{"docs"}
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()

		if err := valid().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Roots = nil

		if err := cfg.Validate(); !errors.Is(err, ErrNoRoot) {
			t.Errorf("expected ErrNoRoot, got %v", err)
		}
	})

	t.Run("invalid workers", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Workers = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidWorkers) {
			t.Errorf("expected ErrInvalidWorkers, got %v", err)
		}
	})

	t.Run("invalid batch size", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.BatchSize = -1

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidBatchSize) {
			t.Errorf("expected ErrInvalidBatchSize, got %v", err)
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.JSONReport = true
		cfg.MarkdownReport = true

		if err := cfg.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("extension without a dot", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Extensions = []string{"md"}

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("expected ErrInvalidExtension, got %v", err)
		}
	})

	t.Run("bare dot extension", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Extensions = []string{"."}

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("expected ErrInvalidExtension, got %v", err)
		}
	})
}

// TestXDGDirs verifies that XDG paths end with the application name.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
		"cache":  XDGCacheDir(),
	} {
		if dir == "" {
			t.Errorf("expected non-empty %s dir", name)
		}
		if !strings.HasSuffix(dir, AppName) {
			t.Errorf("expected %s dir to end with %q, got %q", name, AppName, dir)
		}
	}
}
