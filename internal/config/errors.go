package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so that callers can use
// errors.Is() while users still get a readable message.
var (
	// ErrNoPagesPath is returned when no page records path is configured.
	ErrNoPagesPath = errors.New("no pages path specified: use --pages or set pages in the config file")

	// ErrNoTaxonomyPath is returned when no taxonomy path is configured.
	ErrNoTaxonomyPath = errors.New("no taxonomy path specified: use --taxonomy or set taxonomy in the config file")

	// ErrInvalidThreshold is returned when a confidence threshold is negative,
	// NaN or infinite.
	ErrInvalidThreshold = errors.New("invalid threshold: must be a finite, non-negative number")

	// ErrEmptyFallback is returned when the fallback hub or subhub name is empty.
	ErrEmptyFallback = errors.New("invalid fallback: hub and subhub names must not be empty")

	// ErrInvalidLimit is returned when the limit is negative. Use 0 for no limit.
	ErrInvalidLimit = errors.New("invalid limit: must be non-negative")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be at least 1")

	// ErrInvalidBaselineRun is returned when the baseline run ID is negative.
	ErrInvalidBaselineRun = errors.New("invalid baseline run: must be a positive run ID")

	// ErrConflictingBaselines is returned when both a baseline file and a
	// baseline run are given.
	ErrConflictingBaselines = errors.New("conflicting baselines: --baseline-taxonomy and --baseline-run cannot be used together")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
