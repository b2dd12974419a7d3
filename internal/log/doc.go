// Package log provides logging utilities built on top of the standard
// slog package.
//
// This package extends slog to provide:
//   - Rewriting of absolute paths under the scan root to relative ones
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Portable log output
//
// The PortableHandler rewrites absolute filesystem paths in attribute
// values into scan-root-relative paths. Logs from two machines scanning
// the same tree then diff cleanly, and checkout locations or usernames
// never leak into shared CI output.
//
// # Usage
//
//	// Create a logger for a scan of ./docs
//	logger := log.NewLogger(os.Stderr, "./docs", true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("page loaded",
//	    "path", "/home/user/project/docs/guide.mdx", // Logged as "guide.mdx"
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
