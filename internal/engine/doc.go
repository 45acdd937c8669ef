// Package engine places unplaced pages into subhubs and audits existing
// placements.
//
// # Assignment
//
// Assign scores each page against every subhub, keeps the best and the
// runner-up, and classifies the result against three thresholds:
//
//   - best < FallbackMinConfidence: routed to the fallback subhub
//   - best < MinConfidence: placed, annotated "below min confidence"
//   - best < AmbiguousConfidence and gap < GapThreshold: placed,
//     annotated "small gap"
//   - otherwise: placed confidently
//
// The chosen subhub absorbs each page before the next one is scored, so a
// batch is deterministic for a given order but not commutative. Callers
// pass slugs sorted.
//
// Ties for the best score keep the subhub that comes first in declared
// taxonomy order.
//
// # Audit
//
// Audit re-scores every placed page against subhub signatures built
// without that page and flags placements whose best candidate is
// elsewhere and would not clear the thresholds today. It never mutates the
// taxonomy; Reassign frees flagged slugs so that Assign can place them
// again.
package engine
