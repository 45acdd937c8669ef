package signature

import (
	"log/slog"

	"github.com/Led-adel-pilot/CogniGuide/internal/tokenize"
)

// Builder derives page and subhub signatures with one vocabulary.
// A Builder holds no per-run state and is safe for concurrent use.
type Builder struct {
	vocab  *tokenize.Vocabulary
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithVocabulary replaces the built-in stopword and number tables.
func WithVocabulary(v *tokenize.Vocabulary) Option {
	return func(b *Builder) {
		if v != nil {
			b.vocab = v
		}
	}
}

// WithLogger sets the logger used for skipped and duplicate records.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder returns a Builder using the default vocabulary.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		vocab:  tokenize.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Vocabulary returns the vocabulary the builder normalizes with.
func (b *Builder) Vocabulary() *tokenize.Vocabulary {
	return b.vocab
}
