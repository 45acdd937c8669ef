package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
	"github.com/Led-adel-pilot/CogniGuide/internal/signature"
)

// Assign places each slug, in the given order, into the best scoring
// subhub of subhubs. Slugs without a page signature are skipped.
//
// The chosen subhub absorbs each placed page, so subhubs is mutated and
// later slugs see the enriched signatures.
func (e *Engine) Assign(slugs []string, pages signature.PageIndex, subhubs *signature.SubhubIndex) ([]model.AssignmentResult, error) {
	if subhubs.Len() == 0 {
		return nil, ErrNoSubhubs
	}
	if !subhubs.Has(e.fallback) {
		return nil, fmt.Errorf("%w: %s", ErrFallbackNotFound, e.fallback)
	}

	results := make([]model.AssignmentResult, 0, len(slugs))
	for _, slug := range slugs {
		page, ok := pages[slug]
		if !ok {
			e.logger.Debug("skipping slug without page record", slog.String("slug", slug))
			continue
		}

		m, err := FindBest(page, subhubs.List())
		if err != nil {
			return results, err
		}
		r := e.decide(slug, m)
		subhubs.Get(r.Target).Absorb(page)

		e.logger.Debug("assigned page",
			slog.String("slug", slug),
			slog.String("target", r.Target.String()),
			slog.String("outcome", r.Outcome.String()),
			slog.Float64("score", r.Score),
			slog.Float64("runner_up", r.RunnerUp),
			slog.Float64("gap", r.Gap),
			slog.Any("best", m.Breakdown),
		)
		results = append(results, r)
	}
	return results, nil
}

func (e *Engine) decide(slug string, m Match) model.AssignmentResult {
	r := model.AssignmentResult{
		Slug:     slug,
		Target:   m.Key,
		Score:    m.Score,
		RunnerUp: m.RunnerUp,
		Gap:      m.Gap,
	}

	if m.Score < e.thresholds.FallbackMinConfidence {
		best := m.Key
		r.Target = e.fallback
		r.FallbackUsed = true
		r.OriginalBest = &best
		r.Outcome = model.OutcomeFallback
		r.Reason = fmt.Sprintf("score %.3f < fallback threshold %.3f; defaulting to %s",
			m.Score, e.thresholds.FallbackMinConfidence, e.fallback)
		return r
	}

	r.Outcome, r.Reason = e.classify(m)
	return r
}

// Missing returns the slugs that have a page signature but no placement,
// sorted. A positive limit keeps only the first limit slugs.
func Missing(t *model.Taxonomy, pages signature.PageIndex, limit int) []string {
	var out []string
	for slug := range pages {
		if !t.Contains(slug) {
			out = append(out, slug)
		}
	}
	slices.Sort(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MergeSlugs returns the sorted union of a and b without duplicates.
func MergeSlugs(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)
	return slices.Compact(out)
}
