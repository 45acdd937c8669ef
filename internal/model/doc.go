// Package model defines the data structures shared by the subhubs packages.
//
// This package contains the following main types:
//   - Page: a generated landing page record with its optional text sections
//   - Taxonomy: the ordered hub → subhub → slug placement map
//   - AssignmentResult: the outcome of placing one unplaced page
//   - LowConfidenceEntry: an existing placement flagged by the audit
//   - Run: one assign or audit invocation, as reported and stored
//
// The models are serializable to JSON for report output and database
// storage. Taxonomy keeps the key order of the file it was loaded from.
package model
