package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoRoot is returned when no documentation root is specified.
	// This error occurs when no positional argument provides a directory.
	ErrNoRoot = errors.New("no documentation root specified: provide at least one directory")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	// A worker count of zero would mean no pages get checked.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent scans, effectively
	// stopping the scanning process.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidExtension is returned when a configured page extension
	// does not start with a dot (e.g. "md" instead of ".md").
	ErrInvalidExtension = errors.New("invalid extension: must start with a dot, e.g. .mdx")
)
