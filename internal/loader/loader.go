package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PavelVaskou/docscan/internal/model"
)

// DefaultExtensions are the file extensions treated as documentation
// units when no explicit list is configured.
var DefaultExtensions = []string{".md", ".mdx"}

// Loader reads a tree of documentation units from disk and parses them
// into validated Page entities. It is a pure transform: it never mutates
// the tree and holds no state between Load calls.
type Loader struct {
	// root is the documentation root directory.
	root string

	// exts are the file extensions recognized as pages.
	exts []string

	// logger is used for structured logging during loading.
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithExtensions overrides the recognized file extensions.
// Extensions must include the leading dot.
func WithExtensions(exts []string) Option {
	return func(l *Loader) {
		if len(exts) > 0 {
			l.exts = exts
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader for the given documentation root.
func New(root string, opts ...Option) *Loader {
	l := &Loader{
		root: root,
		exts: DefaultExtensions,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = slog.Default()
	}

	return l
}

// Load walks the documentation root and parses every recognized unit
// into a Page. Pages are returned in lexicographic source-path order so
// repeated runs over identical input produce identical results.
//
// Hidden directories and files (leading dot or underscore) are skipped.
// A unit that fails structural parsing aborts the load with a
// *MalformedInputError; there are no partial results.
func (l *Loader) Load(ctx context.Context) ([]*model.Page, error) {
	paths, err := l.collectPaths()
	if err != nil {
		return nil, err
	}

	pages := make([]*model.Page, 0, len(paths))
	seen := make(map[string]string, len(paths))

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return nil, fmt.Errorf("failed to relativize %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)
		pageID := strings.TrimSuffix(rel, filepath.Ext(rel))

		if prev, dup := seen[pageID]; dup {
			return nil, &MalformedInputError{
				Page:   pageID,
				Reason: fmt.Sprintf("duplicate page id: %s and %s resolve to the same identifier", prev, rel),
			}
		}
		seen[pageID] = rel

		raw, err := os.ReadFile(path) //nolint:gosec // Paths come from walking the user-provided root
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", rel, err)
		}

		page, err := ParsePage(pageID, rel, raw)
		if err != nil {
			return nil, err
		}

		l.logger.Debug("loaded page",
			"page", page.ID,
			"sections", len(page.Sections),
			"bytes", page.SourceLen,
		)

		pages = append(pages, page)
	}

	l.logger.Info("documentation loaded",
		"root", l.root,
		"pages", len(pages),
	)

	return pages, nil
}

// collectPaths walks the root and returns the sorted list of page files.
func (l *Loader) collectPaths() ([]string, error) {
	var paths []string

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != l.root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return nil
		}

		ext := filepath.Ext(name)
		for _, want := range l.exts {
			if ext == want {
				paths = append(paths, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk documentation root %s: %w", l.root, err)
	}

	// WalkDir visits in lexical order already; sorting again makes the
	// determinism guarantee independent of that implementation detail.
	sort.Strings(paths)

	return paths, nil
}
