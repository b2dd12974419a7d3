package log

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// PortableHandler wraps an slog.Handler to rewrite absolute filesystem
// paths in attribute values into paths relative to the scan root. Scan
// logs are often attached to CI runs and bug reports; stripping the
// machine-specific prefix makes two runs of the same tree comparable and
// keeps usernames and checkout locations out of shared logs.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components keep logging real paths; only the output is rewritten
type PortableHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// root is the absolute scan root that gets stripped from path values.
	// Empty means no rewriting.
	root string
}

// NewPortableHandler creates a new PortableHandler wrapping the given
// handler. Attribute values beginning with root are rewritten to be
// root-relative before being passed on.
// If handler is nil, the returned PortableHandler uses slog.Default().Handler().
func NewPortableHandler(handler slog.Handler, root string) *PortableHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	return &PortableHandler{handler: handler, root: root}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *PortableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it to the underlying handler.
func (h *PortableHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})

	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are rewritten before being added.
func (h *PortableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewrittenAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewrittenAttrs[i] = h.rewriteAttr(a)
	}
	return &PortableHandler{handler: h.handler.WithAttrs(rewrittenAttrs), root: h.root}
}

// WithGroup returns a new handler with the given group name.
func (h *PortableHandler) WithGroup(name string) slog.Handler {
	return &PortableHandler{handler: h.handler.WithGroup(name), root: h.root}
}

// rewriteAttr rewrites a single attribute, recursively handling groups.
func (h *PortableHandler) rewriteAttr(a slog.Attr) slog.Attr {
	// Handle groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewrittenAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewrittenAttrs[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewrittenAttrs...)}
	}

	if h.root == "" || a.Value.Kind() != slog.KindString {
		return a
	}

	val := a.Value.String()
	rel := h.relativize(val)
	if rel == val {
		return a
	}
	return slog.String(a.Key, rel)
}

// relativize converts an absolute path under the scan root into a
// root-relative path with forward slashes. The root itself becomes ".".
func (h *PortableHandler) relativize(val string) string {
	clean := filepath.Clean(val)
	if clean == h.root {
		return "."
	}

	prefix := h.root + string(filepath.Separator)
	if !strings.HasPrefix(clean, prefix) {
		return val
	}

	return filepath.ToSlash(strings.TrimPrefix(clean, prefix))
}

// NewLogger creates a new slog.Logger with portable path handling.
// Paths under root in log attributes are rewritten to be root-relative.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - root: The documentation root used for path rewriting (may be empty)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewLogger(w io.Writer, root string, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	portableHandler := NewPortableHandler(textHandler, root)

	return slog.New(portableHandler)
}

// NewJSONLogger creates a new slog.Logger with portable path handling
// that outputs JSON format. Useful for structured log aggregation.
//
// Parameters:
//   - w: The io.Writer to write log output to
//   - root: The documentation root used for path rewriting (may be empty)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger configured for JSON output with path rewriting.
func NewJSONLogger(w io.Writer, root string, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	portableHandler := NewPortableHandler(jsonHandler, root)

	return slog.New(portableHandler)
}
