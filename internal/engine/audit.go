package engine

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
	"github.com/Led-adel-pilot/CogniGuide/internal/signature"
)

type auditJob struct {
	slug    string
	current model.Key
	page    *signature.Page
}

// Audit re-scores placed slugs and returns the placements that would not
// be confirmed today, worst first (ascending score, then ascending gap).
//
// Each slug is scored against signatures built as if it were not placed.
// A slug sits in exactly one subhub, so only that subhub is rebuilt; every
// other signature is shared with a single base build. A non-empty restrict
// set limits the audit to its slugs. Slugs in the fallback subhub and slugs
// without a page record are never flagged.
//
// Audit reads t and pages concurrently but never mutates them.
func (e *Engine) Audit(ctx context.Context, t *model.Taxonomy, pages signature.PageIndex, restrict map[string]struct{}) ([]model.LowConfidenceEntry, error) {
	base := e.builder.BuildSubhubs(t, pages)

	members := make(map[model.Key][]string)
	var jobs []auditJob
	for _, key := range t.Keys() {
		slugs := t.Slugs(key)
		members[key] = slugs
		if key == e.fallback {
			continue
		}
		for _, slug := range slugs {
			if len(restrict) > 0 {
				if _, ok := restrict[slug]; !ok {
					continue
				}
			}
			page, ok := pages[slug]
			if !ok {
				continue
			}
			jobs = append(jobs, auditJob{slug: slug, current: key, page: page})
		}
	}

	e.logger.Debug("auditing placements",
		slog.Int("slugs", len(jobs)),
		slog.Int("subhubs", base.Len()),
		slog.Int("workers", e.workers),
	)

	found := make([]*model.LowConfidenceEntry, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			excluded := e.builder.BuildSubhub(job.current, members[job.current], pages, job.slug)
			m, err := FindBest(job.page, base.With(excluded).List())
			if err != nil {
				return err
			}
			found[i] = e.flag(job, m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []model.LowConfidenceEntry
	for _, entry := range found {
		if entry != nil {
			entries = append(entries, *entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score < entries[j].Score
		}
		return entries[i].Gap < entries[j].Gap
	})
	return entries, nil
}

// flag returns an entry when the best candidate differs from the current
// placement and the match does not clear the thresholds.
func (e *Engine) flag(job auditJob, m Match) *model.LowConfidenceEntry {
	if m.Key == job.current {
		return nil
	}
	outcome, reason := e.classify(m)
	if outcome == model.OutcomeConfident {
		return nil
	}
	e.logger.Debug("low-confidence placement",
		slog.String("slug", job.slug),
		slog.String("current", job.current.String()),
		slog.String("best", m.Key.String()),
		slog.Float64("score", m.Score),
		slog.Float64("gap", m.Gap),
		slog.Any("breakdown", m.Breakdown),
	)
	return &model.LowConfidenceEntry{
		Slug:          job.slug,
		CurrentHub:    job.current.Hub,
		CurrentSubhub: job.current.Subhub,
		Score:         m.Score,
		RunnerUpScore: m.RunnerUp,
		Gap:           m.Gap,
		BestHub:       m.Key.Hub,
		BestSubhub:    m.Key.Subhub,
		Reason:        reason,
	}
}

// Reassign removes every flagged slug from t and returns the slugs that
// were freed, in entry order.
func Reassign(t *model.Taxonomy, entries []model.LowConfidenceEntry) []string {
	var freed []string
	for _, entry := range entries {
		if _, ok := t.Remove(entry.Slug); ok {
			freed = append(freed, entry.Slug)
		}
	}
	return freed
}
