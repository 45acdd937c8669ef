package model

import "time"

// ReviewPreviewSize is how many review candidates a summary shows inline.
const ReviewPreviewSize = 10

// Summary is the condensed view of a Run used by the terminal and
// markdown reports and stored alongside each run.
type Summary struct {
	RunID     string    `json:"runId"`
	Mode      Mode      `json:"mode"`
	StartedAt time.Time `json:"startedAt"`
	DryRun    bool      `json:"dryRun"`

	// === Assignment counts ===

	Assigned       int `json:"assigned"`
	ConfidentCount int `json:"confidentCount"`
	SmallGapCount  int `json:"smallGapCount"`
	BelowMinCount  int `json:"belowMinCount"`
	FallbackCount  int `json:"fallbackCount"`

	// MinScore and MaxScore are only meaningful when Assigned > 0.
	MinScore float64 `json:"minScore"`
	MaxScore float64 `json:"maxScore"`

	// Review lists non-fallback assignments that carry a reason.
	Review []AssignmentResult `json:"review,omitempty"`

	// === Audit and persistence ===

	LowConfidence int  `json:"lowConfidence"`
	Reassigned    int  `json:"reassigned"`
	Updates       int  `json:"updates"`
	Written       bool `json:"written"`

	Error string `json:"error,omitempty"`
}

// NewSummary condenses a run.
func NewSummary(run *Run) *Summary {
	s := &Summary{
		RunID:         run.ID,
		Mode:          run.Mode,
		StartedAt:     run.StartedAt,
		DryRun:        run.DryRun,
		Assigned:      len(run.Assignments),
		Review:        run.ReviewNeeded(),
		LowConfidence: len(run.LowConfidence),
		Reassigned:    len(run.Reassigned),
		Updates:       run.Updates,
		Written:       run.Written,
		Error:         run.ErrorMessage,
	}
	s.MinScore, s.MaxScore, _ = run.ScoreRange()
	s.countByOutcome(run.Assignments)
	return s
}

func (s *Summary) countByOutcome(results []AssignmentResult) {
	for _, r := range results {
		switch r.Outcome {
		case OutcomeConfident:
			s.ConfidentCount++
		case OutcomeSmallGap:
			s.SmallGapCount++
		case OutcomeBelowMin:
			s.BelowMinCount++
		case OutcomeFallback:
			s.FallbackCount++
		}
	}
}

// Count returns the number of assignments with the given outcome.
func (s *Summary) Count(o Outcome) int {
	switch o {
	case OutcomeConfident:
		return s.ConfidentCount
	case OutcomeSmallGap:
		return s.SmallGapCount
	case OutcomeBelowMin:
		return s.BelowMinCount
	case OutcomeFallback:
		return s.FallbackCount
	default:
		return 0
	}
}

// HasAssignments reports whether the run placed any page.
func (s *Summary) HasAssignments() bool {
	return s.Assigned > 0
}

// ReviewPreview returns at most ReviewPreviewSize review candidates.
func (s *Summary) ReviewPreview() []AssignmentResult {
	if len(s.Review) <= ReviewPreviewSize {
		return s.Review
	}
	return s.Review[:ReviewPreviewSize]
}
