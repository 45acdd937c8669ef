// Package database provides the SQLite run history for subhubs.
//
// RunDB stores:
//   - every assign or audit run as a JSON report with its headline counts
//   - the taxonomy as it stood after the run, keyed by run ID
//
// A stored snapshot can be used as the baseline of a later audit, which
// then only looks at slugs placed since that run.
//
// The driver is modernc.org/sqlite, a CGO-free SQLite, so the history is a
// single file that needs no server.
package database
