// Package report renders run results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: the plain-text run log printed to the terminal
//   - JSONWriter and FullJSONWriter: structured JSON for tooling
//   - MarkdownWriter: tables and an outcome chart for review notes
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. WriteLowConfidence
// produces the standalone JSON array of audit findings.
package report
