package engine

import (
	"fmt"
	"math"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
	"github.com/Led-adel-pilot/CogniGuide/internal/signature"
)

// Match is the best and second best subhub for one page.
type Match struct {
	Key   model.Key
	Best  *signature.Subhub
	Score float64

	// Breakdown holds the components of Score.
	Breakdown signature.Breakdown

	// RunnerUp is the second best score, 0 when HasRunnerUp is false.
	RunnerUp    float64
	HasRunnerUp bool

	// Gap is Score - RunnerUp, or Score when there is no runner-up.
	Gap float64
}

// FindBest scores page against every subhub in order. A later subhub
// replaces the best only with a strictly higher score, so ties keep the
// first one.
func FindBest(page *signature.Page, subhubs []*signature.Subhub) (Match, error) {
	if len(subhubs) == 0 {
		return Match{}, fmt.Errorf("%w: slug %q", ErrNoSubhubs, page.Slug)
	}

	var (
		best      *signature.Subhub
		breakdown signature.Breakdown
	)
	bestScore := math.Inf(-1)
	runnerUp := math.Inf(-1)

	for _, s := range subhubs {
		b := signature.Explain(page, s)
		score := b.Total()
		if score > bestScore {
			runnerUp = bestScore
			bestScore = score
			best = s
			breakdown = b
		} else if score > runnerUp {
			runnerUp = score
		}
	}

	m := Match{Key: best.Key, Best: best, Score: bestScore, Breakdown: breakdown, Gap: bestScore}
	if !math.IsInf(runnerUp, -1) {
		m.RunnerUp = runnerUp
		m.HasRunnerUp = true
		m.Gap = bestScore - runnerUp
	}
	return m, nil
}

// classify applies the confidence policies to a match, leaving the
// fallback decision to the caller.
func (e *Engine) classify(m Match) (model.Outcome, string) {
	th := e.thresholds
	switch {
	case m.Score < th.MinConfidence:
		return model.OutcomeBelowMin, fmt.Sprintf("score %.3f below min confidence %.3f", m.Score, th.MinConfidence)
	case m.Score < th.AmbiguousConfidence && m.Gap < th.GapThreshold:
		return model.OutcomeSmallGap, fmt.Sprintf("score %.3f with small gap %.3f", m.Score, m.Gap)
	default:
		return model.OutcomeConfident, ""
	}
}
