package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	// MaxStringLen is the number of runes kept from a string attribute.
	MaxStringLen = 200

	// MaxListItems is the number of items shown from a list attribute.
	MaxListItems = 8

	// Ellipsis marks truncated output.
	Ellipsis = "…"
)

// sortedLister is implemented by token sets.
type sortedLister interface {
	Sorted() []string
}

// CompactHandler wraps an slog.Handler and shortens attribute values before
// passing them on. Long strings are truncated and string lists or token
// sets are summarised as "N items: a, b, c, …", so that debug output of
// page and subhub signatures stays on one readable line.
type CompactHandler struct {
	handler slog.Handler
}

// NewCompactHandler creates a new CompactHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewCompactHandler(handler slog.Handler) *CompactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &CompactHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *CompactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle compacts the record's attributes and passes it to the underlying handler.
func (h *CompactHandler) Handle(ctx context.Context, r slog.Record) error {
	compacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		compacted.AddAttrs(compactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, compacted)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	compacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		compacted[i] = compactAttr(a)
	}
	return &CompactHandler{handler: h.handler.WithAttrs(compacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *CompactHandler) WithGroup(name string) slog.Handler {
	return &CompactHandler{handler: h.handler.WithGroup(name)}
}

// compactAttr shortens a single attribute, recursively handling groups.
func compactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		compacted := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			compacted[i] = compactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(compacted...)}
	case slog.KindString:
		return slog.String(a.Key, Truncate(a.Value.String(), MaxStringLen))
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case []string:
			return slog.String(a.Key, Summarize(v, MaxListItems))
		case sortedLister:
			return slog.String(a.Key, Summarize(v.Sorted(), MaxListItems))
		}
	}
	return a
}

// Truncate shortens s to at most n runes, marking the cut with Ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + Ellipsis
}

// Summarize renders items as "N items: a, b, …" showing at most limit of them.
func Summarize(items []string, limit int) string {
	if len(items) == 0 {
		return "0 items"
	}
	shown := items
	if limit > 0 && len(items) > limit {
		shown = items[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d items: %s", len(items), strings.Join(shown, ", "))
	if len(shown) < len(items) {
		b.WriteString(", ")
		b.WriteString(Ellipsis)
	}
	return b.String()
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a text logger with compact attribute output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewCompactHandler(slog.NewTextHandler(w, opts)))
}

// NewJSONLogger creates a JSON logger with compact attribute output.
// Useful when the run is driven by CI and logs are collected.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewCompactHandler(slog.NewJSONHandler(w, opts)))
}
