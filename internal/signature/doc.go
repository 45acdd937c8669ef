// Package signature builds the token signatures that similarity scoring
// works on.
//
// A page signature is derived once per page from every text-bearing section
// of the record. A subhub signature aggregates the signatures of its member
// pages together with the tokens of its own name and its hub's name. Subhub
// signatures are mutable: the assignment engine enriches them in place as
// pages are placed, and the audit builds throwaway views that leave one
// slug out.
//
// Score combines a Jaccard base signal with weighted exact-overlap counts:
//
//	score = jaccard(tokens)
//	      + 0.8 * |keyword phrases ∩|
//	      + 0.7 * |page slug tokens ∩ (subhub slug tokens ∪ name tokens)|
//	      + 0.3 * |page slug tokens ∩ hub tokens|
//
// The score is not normalized; overlap counts make it unbounded above.
package signature
