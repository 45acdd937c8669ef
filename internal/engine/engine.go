package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
	"github.com/Led-adel-pilot/CogniGuide/internal/signature"
)

var (
	// ErrNoSubhubs is returned when there is no subhub to score against.
	ErrNoSubhubs = errors.New("no subhubs to score against")

	// ErrFallbackNotFound is returned when the fallback subhub is not in
	// the taxonomy.
	ErrFallbackNotFound = errors.New("fallback subhub not found in taxonomy")
)

// Engine assigns and audits placements with fixed thresholds.
type Engine struct {
	builder    *signature.Builder
	thresholds model.Thresholds
	fallback   model.Key
	logger     *slog.Logger
	workers    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for per-page decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWorkers sets how many pages the audit scores in parallel.
// Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = max(n, 1)
	}
}

// New returns an engine that builds signatures with builder.
func New(builder *signature.Builder, thresholds model.Thresholds, fallback model.Key, opts ...Option) *Engine {
	e := &Engine{
		builder:    builder,
		thresholds: thresholds,
		fallback:   fallback,
		logger:     slog.Default(),
		workers:    1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Builder returns the signature builder.
func (e *Engine) Builder() *signature.Builder {
	return e.builder
}

// CheckFallback verifies that the fallback subhub exists in t.
func (e *Engine) CheckFallback(t *model.Taxonomy) error {
	if !t.HasHub(e.fallback.Hub) {
		return fmt.Errorf("%w: hub %q", ErrFallbackNotFound, e.fallback.Hub)
	}
	if !t.Has(e.fallback) {
		return fmt.Errorf("%w: subhub %q under hub %q", ErrFallbackNotFound, e.fallback.Subhub, e.fallback.Hub)
	}
	return nil
}
