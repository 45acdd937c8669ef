package model

import (
	"time"

	"github.com/google/uuid"
)

// Mode is the kind of run.
type Mode string

const (
	// ModeAssign places unplaced pages, optionally after reassigning
	// low-confidence placements.
	ModeAssign Mode = "assign"

	// ModeAudit only reports low-confidence placements.
	ModeAudit Mode = "audit"
)

// Thresholds are the three interacting confidence policies.
// Every comparison against them is strict "<".
type Thresholds struct {
	// MinConfidence is the score below which a placement is low confidence.
	MinConfidence float64 `json:"minConfidence" yaml:"min_confidence"`

	// AmbiguousConfidence is the score below which a small gap is flagged.
	AmbiguousConfidence float64 `json:"ambiguousConfidence" yaml:"ambiguous_confidence"`

	// GapThreshold is the best-minus-runner-up gap treated as a tie.
	GapThreshold float64 `json:"gapThreshold" yaml:"gap_threshold"`

	// FallbackMinConfidence is the score below which a page is routed to
	// the fallback subhub.
	FallbackMinConfidence float64 `json:"fallbackMinConfidence" yaml:"fallback_min_confidence"`
}

// DefaultThresholds returns the tuned production thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinConfidence:         0.18,
		AmbiguousConfidence:   0.6,
		GapThreshold:          0.02,
		FallbackMinConfidence: 0.08,
	}
}

// Run records one assign or audit invocation.
// It is filled in by the pipeline steps, printed by the report writers and
// stored by the run database.
type Run struct {
	// === Identity ===

	// ID is a random UUID, stable across storage and reports.
	ID string `json:"id"`

	Mode Mode `json:"mode"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`

	// === Inputs ===

	PagesPath    string     `json:"pagesPath,omitempty"`
	TaxonomyPath string     `json:"taxonomyPath,omitempty"`
	Thresholds   Thresholds `json:"thresholds"`
	Fallback     Key        `json:"fallback"`
	DryRun       bool       `json:"dryRun"`

	// ReassignRequested is set when low-confidence placements were to be
	// freed and placed again.
	ReassignRequested bool `json:"reassignRequested,omitempty"`

	// PagesLoaded is the number of page records read.
	PagesLoaded int `json:"pagesLoaded"`

	// PagesExcluded counts records skipped for having no slug.
	PagesExcluded int `json:"pagesExcluded"`

	// RestrictedTo is the number of slugs the audit was limited to.
	// Zero means the audit covered every placed slug.
	RestrictedTo int `json:"restrictedTo,omitempty"`

	// === Results ===

	// Missing are the unplaced slugs handed to the assignment step.
	Missing []string `json:"missing,omitempty"`

	Assignments   []AssignmentResult   `json:"assignments,omitempty"`
	LowConfidence []LowConfidenceEntry `json:"lowConfidence,omitempty"`

	// Reassigned are slugs removed from their subhub for reassignment.
	Reassigned []string `json:"reassigned,omitempty"`

	// ReportOutput is where the low-confidence entries were saved, if anywhere.
	ReportOutput string `json:"reportOutput,omitempty"`

	// Updates is the number of slugs added to the taxonomy.
	Updates int `json:"updates"`

	// Written is true when the taxonomy file was rewritten.
	Written bool `json:"written"`

	// TaxonomyDigest fingerprints the taxonomy as it stood after the run.
	TaxonomyDigest string `json:"taxonomyDigest,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performedSteps,omitempty"`

	// === State ===

	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// NewRun starts a run of the given mode.
func NewRun(mode Mode) *Run {
	return &Run{
		ID:         uuid.NewString(),
		Mode:       mode,
		StartedAt:  time.Now(),
		Thresholds: DefaultThresholds(),
	}
}

// AddStep records that a pipeline step ran.
func (r *Run) AddStep(name string) {
	r.PerformedSteps = append(r.PerformedSteps, name)
}

// Finish stamps the end time and records err, if any.
func (r *Run) Finish(err error) {
	r.FinishedAt = time.Now()
	if err != nil {
		r.Error = err
		r.ErrorMessage = err.Error()
	}
}

// Duration returns how long the run took, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FallbackCount returns the number of pages routed to the fallback subhub.
func (r *Run) FallbackCount() int {
	n := 0
	for _, a := range r.Assignments {
		if a.FallbackUsed {
			n++
		}
	}
	return n
}

// ReviewNeeded returns assignments with a reason that were not fallbacks,
// in processing order.
func (r *Run) ReviewNeeded() []AssignmentResult {
	var out []AssignmentResult
	for _, a := range r.Assignments {
		if a.Reason != "" && !a.FallbackUsed {
			out = append(out, a)
		}
	}
	return out
}

// ScoreRange returns the lowest and highest assignment score.
// ok is false when there are no assignments.
func (r *Run) ScoreRange() (lo, hi float64, ok bool) {
	if len(r.Assignments) == 0 {
		return 0, 0, false
	}
	lo, hi = r.Assignments[0].Score, r.Assignments[0].Score
	for _, a := range r.Assignments[1:] {
		lo = min(lo, a.Score)
		hi = max(hi, a.Score)
	}
	return lo, hi, true
}
