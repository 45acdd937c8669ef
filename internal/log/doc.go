// Package log provides the loggers used by subhubs, built on top of the
// standard slog package.
//
// CompactHandler wraps any slog.Handler and shortens attribute values
// before they are written:
//   - strings longer than MaxStringLen runes are truncated
//   - string slices and token sets are summarised as "N items: a, b, …"
//
// Signatures carry hundreds of tokens, so without this a single debug
// line of the assignment engine can run to several kilobytes.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("built subhub", "key", key.String(), "tokens", sub.Tokens)
//	slog.SetDefault(logger)
package log
