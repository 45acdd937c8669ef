package model

// AssignmentResult is the placement decision for one previously unplaced page.
type AssignmentResult struct {
	Slug string `json:"slug"`

	// Target is where the page was placed.
	Target Key `json:"target"`

	// Score is the best similarity score over all subhubs.
	Score float64 `json:"score"`

	// RunnerUp is the second best score, 0 when only one subhub exists.
	RunnerUp float64 `json:"runnerUp"`

	// Gap is Score minus RunnerUp, or Score itself with a single subhub.
	Gap float64 `json:"gap"`

	// FallbackUsed is set when the page was routed to the fallback subhub.
	FallbackUsed bool `json:"fallbackUsed"`

	// Reason explains a low-confidence or fallback placement.
	// It is empty for confident placements.
	Reason string `json:"reason,omitempty"`

	// OriginalBest is the best scoring subhub that the fallback overrode.
	// Only set when FallbackUsed is true.
	OriginalBest *Key `json:"originalBest,omitempty"`

	Outcome Outcome `json:"outcome"`
}

// NeedsReview reports whether the placement was not confident.
func (r AssignmentResult) NeedsReview() bool {
	return r.Outcome.NeedsReview()
}

// LowConfidenceEntry is an existing placement the audit could not confirm.
// The JSON shape is the one consumed by the content review tooling.
type LowConfidenceEntry struct {
	Slug          string  `json:"slug"`
	CurrentHub    string  `json:"currentHub"`
	CurrentSubhub string  `json:"currentSubhub"`
	Score         float64 `json:"score"`
	RunnerUpScore float64 `json:"runnerUpScore"`
	Gap           float64 `json:"gap"`
	BestHub       string  `json:"bestHub"`
	BestSubhub    string  `json:"bestSubhub"`
	Reason        string  `json:"reason"`
}

// Current returns the slug's present placement.
func (e LowConfidenceEntry) Current() Key {
	return Key{Hub: e.CurrentHub, Subhub: e.CurrentSubhub}
}

// Best returns the best scoring candidate subhub.
func (e LowConfidenceEntry) Best() Key {
	return Key{Hub: e.BestHub, Subhub: e.BestSubhub}
}
