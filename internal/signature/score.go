package signature

import (
	"log/slog"

	"github.com/Led-adel-pilot/CogniGuide/internal/tokenize"
)

// Score weights. Exact keyword phrase overlap is the strongest signal and
// bare hub-name overlap the weakest.
const (
	KeywordWeight = 0.8
	SlugWeight    = 0.7
	HubWeight     = 0.3
)

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func Jaccard(a, b tokenize.Set) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := tokenize.IntersectionSize(a, b)
	return float64(inter) / float64(len(a)+len(b)-inter)
}

// Breakdown holds the components of a similarity score.
type Breakdown struct {
	Jaccard        float64 `json:"jaccard"`
	KeywordOverlap int     `json:"keywordOverlap"`
	SlugOverlap    int     `json:"slugOverlap"`
	HubOverlap     int     `json:"hubOverlap"`
}

// Total combines the components into the score.
// Each product is rounded on its own so the sum never depends on whether
// the platform fuses multiply-add.
func (b Breakdown) Total() float64 {
	return b.Jaccard +
		float64(KeywordWeight*float64(b.KeywordOverlap)) +
		float64(SlugWeight*float64(b.SlugOverlap)) +
		float64(HubWeight*float64(b.HubOverlap))
}

// LogValue implements slog.LogValuer.
func (b Breakdown) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("jaccard", b.Jaccard),
		slog.Int("keyword", b.KeywordOverlap),
		slog.Int("slug", b.SlugOverlap),
		slog.Int("hub", b.HubOverlap),
		slog.Float64("total", b.Total()),
	)
}

// Explain computes the score components of page p against subhub s.
func Explain(p *Page, s *Subhub) Breakdown {
	return Breakdown{
		Jaccard:        Jaccard(p.Tokens, s.Tokens),
		KeywordOverlap: tokenize.IntersectionSize(p.KeywordPhrases, s.KeywordPhrases),
		SlugOverlap:    slugOverlap(p.SlugTokens, s.SlugTokens, s.NameTokens),
		HubOverlap:     tokenize.IntersectionSize(p.SlugTokens, s.HubTokens),
	}
}

// Score returns the similarity of page p to subhub s.
func Score(p *Page, s *Subhub) float64 {
	return Explain(p, s).Total()
}

// slugOverlap returns |page ∩ (slugs ∪ names)| without building the union.
func slugOverlap(page, slugs, names tokenize.Set) int {
	n := 0
	for t := range page {
		if slugs.Has(t) || names.Has(t) {
			n++
		}
	}
	return n
}
