package pagesource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
)

var (
	// ErrNoArray is returned when no JSON array can be located in the input.
	ErrNoArray = errors.New("no page array found")

	// ErrNotObject is returned when an array element is not a JSON object.
	ErrNotObject = errors.New("page record is not an object")
)

// Loader reads page records.
type Loader struct {
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for warnings about malformed records.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes the page records at path.
func (l *Loader) Load(path string) ([]model.Page, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read pages: %w", err)
	}
	pages, err := l.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pages from %s: %w", path, err)
	}
	l.logger.Debug("loaded pages", slog.String("path", path), slog.Int("count", len(pages)))
	return pages, nil
}

// Decode extracts the page array from data and decodes every record.
//
// A record whose sections have the wrong shape is kept with whatever
// decoded cleanly, and a warning is logged. The result has one entry per
// array element, in file order.
func (l *Loader) Decode(data []byte) ([]model.Page, error) {
	array, err := ExtractArray(data)
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(array, &raw); err != nil {
		return nil, err
	}

	pages := make([]model.Page, len(raw))
	for i, record := range raw {
		if !bytes.HasPrefix(bytes.TrimSpace(record), []byte("{")) {
			return nil, fmt.Errorf("record %d: %w", i, ErrNotObject)
		}
		err := json.Unmarshal(record, &pages[i])
		if err == nil {
			continue
		}
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		l.logger.Warn("page record has an unexpected shape",
			slog.Int("index", i),
			slog.String("slug", pages[i].Slug),
			slog.String("field", typeErr.Field),
			slog.String("type", typeErr.Value),
		)
	}
	return pages, nil
}

// ExtractArray returns the JSON array held in data.
// A document that starts with "[" is returned as is; otherwise the array
// embedded after the first "=" is sliced out.
func ExtractArray(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		return trimmed, nil
	}

	assign := bytes.IndexByte(data, '=')
	if assign < 0 {
		return nil, ErrNoArray
	}
	start := bytes.IndexByte(data[assign:], '[')
	if start < 0 {
		return nil, ErrNoArray
	}
	start += assign
	end := bytes.LastIndexByte(data, ']')
	if end < start {
		return nil, ErrNoArray
	}
	return data[start : end+1], nil
}
