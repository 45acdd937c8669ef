package model

import "fmt"

// Outcome classifies how a page was placed.
// Outcomes are ordered from most to least trustworthy, so sorting by
// Outcome puts the placements that need review last.
type Outcome int

const (
	// OutcomeConfident means the best score cleared every threshold.
	OutcomeConfident Outcome = iota

	// OutcomeSmallGap means the best score was below the ambiguity bar and
	// the runner-up was too close. The page still goes to the best subhub.
	OutcomeSmallGap

	// OutcomeBelowMin means the best score was below the minimum confidence.
	// The page still goes to the best subhub.
	OutcomeBelowMin

	// OutcomeFallback means the best score was below the fallback threshold
	// and the page was routed to the fallback subhub.
	OutcomeFallback
)

var outcomeNames = map[Outcome]string{
	OutcomeConfident: "confident",
	OutcomeSmallGap:  "small-gap",
	OutcomeBelowMin:  "below-min",
	OutcomeFallback:  "fallback",
}

// Outcomes lists every outcome in order.
func Outcomes() []Outcome {
	return []Outcome{OutcomeConfident, OutcomeSmallGap, OutcomeBelowMin, OutcomeFallback}
}

// String returns the outcome's wire name.
func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Label returns a human-readable name for reports.
func (o Outcome) Label() string {
	switch o {
	case OutcomeConfident:
		return "Confident"
	case OutcomeSmallGap:
		return "Small gap"
	case OutcomeBelowMin:
		return "Below min confidence"
	case OutcomeFallback:
		return "Fallback"
	default:
		return "Unknown"
	}
}

// NeedsReview reports whether a human should look at the placement.
func (o Outcome) NeedsReview() bool {
	return o != OutcomeConfident
}

// MarshalText encodes the outcome as its wire name.
func (o Outcome) MarshalText() ([]byte, error) {
	if _, ok := outcomeNames[o]; !ok {
		return nil, fmt.Errorf("unknown outcome %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes a wire name.
func (o *Outcome) UnmarshalText(text []byte) error {
	for k, name := range outcomeNames {
		if name == string(text) {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}
