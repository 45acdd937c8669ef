package signature

import (
	"log/slog"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
	"github.com/Led-adel-pilot/CogniGuide/internal/tokenize"
)

// Page is the signature of one page record.
type Page struct {
	Slug string

	// Tokens aggregates every text-bearing section, the slug included.
	Tokens tokenize.Set

	// KeywordPhrases are the metadata keywords, lowercased and trimmed but
	// otherwise verbatim.
	KeywordPhrases tokenize.Set

	// SlugTokens are the normalized pieces of the slug itself.
	SlugTokens tokenize.Set
}

// PageIndex maps slugs to their signatures.
type PageIndex map[string]*Page

// BuildPage derives the signature of p. It returns nil when p has no slug.
func (b *Builder) BuildPage(p *model.Page) *Page {
	if !p.HasSlug() {
		return nil
	}

	sig := &Page{
		Slug:           p.Slug,
		Tokens:         tokenize.Set{},
		KeywordPhrases: tokenize.Set{},
		SlugTokens:     tokenize.NewSet(b.vocab.NormalizeSlug(p.Slug)...),
	}
	for token := range sig.SlugTokens {
		b.vocab.Incorporate(sig.Tokens, token)
	}

	w := pageWalker{vocab: b.vocab, sig: sig}
	w.metadata(p.Metadata)
	w.slug(p.Path)
	w.hero(p.Hero)
	w.features(p.FeaturesSection)
	w.howItWorks(p.HowItWorksSection)
	w.seo(p.SEOSection)
	w.faq(p.FAQSection)
	w.related(p.RelatedTopicsSection)
	w.linking(p.LinkingRecommendations)
	for _, card := range p.EmbeddedFlashcards {
		w.text(card.Question, card.Answer)
	}

	return sig
}

// BuildPages indexes the signatures of pages. Records without a slug are
// skipped and counted in excluded. When two records share a slug the later
// one wins.
func (b *Builder) BuildPages(pages []model.Page) (index PageIndex, excluded int) {
	index = make(PageIndex, len(pages))
	for i := range pages {
		sig := b.BuildPage(&pages[i])
		if sig == nil {
			excluded++
			b.logger.Debug("skipping page without slug", slog.Int("index", i))
			continue
		}
		if _, dup := index[sig.Slug]; dup {
			b.logger.Warn("duplicate page slug, later record wins", slog.String("slug", sig.Slug))
		}
		index[sig.Slug] = sig
	}
	if excluded > 0 {
		b.logger.Info("excluded pages without slug", slog.Int("count", excluded))
	}
	return index, excluded
}

// pageWalker folds page sections into a signature.
type pageWalker struct {
	vocab *tokenize.Vocabulary
	sig   *Page
}

func (w pageWalker) text(values ...string) {
	for _, v := range values {
		w.vocab.IncorporateText(w.sig.Tokens, v)
	}
}

func (w pageWalker) slug(value string) {
	w.vocab.IncorporateSlug(w.sig.Tokens, value)
}

func (w pageWalker) metadata(m *model.Metadata) {
	if m == nil {
		return
	}
	w.text(m.Title, m.Description)
	for _, kw := range m.Keywords {
		phrase := tokenize.NormalizePhrase(kw)
		if phrase == "" {
			continue
		}
		w.sig.KeywordPhrases.Add(phrase)
		w.text(phrase)
	}
	w.slug(m.Canonical)
}

func (w pageWalker) hero(h *model.Hero) {
	if h == nil {
		return
	}
	w.text(h.Eyebrow, h.Heading, h.Subheading)
}

func (w pageWalker) features(s *model.FeaturesSection) {
	if s == nil {
		return
	}
	w.text(s.Heading, s.Subheading)
	for _, f := range s.Features {
		w.text(f.Title, f.Description)
	}
}

func (w pageWalker) howItWorks(s *model.HowItWorksSection) {
	if s == nil {
		return
	}
	w.text(s.Heading, s.Subheading)
	for _, step := range s.Steps {
		w.text(step.Title, step.Description)
	}
}

func (w pageWalker) seo(s *model.SEOSection) {
	if s == nil {
		return
	}
	w.text(s.Heading)
	for _, block := range s.Body {
		switch block.Type {
		case model.BlockParagraph:
			w.text(StripMarkup(block.HTML))
		case model.BlockList:
			for _, item := range block.Items {
				w.text(StripMarkup(item))
			}
		}
	}
}

func (w pageWalker) faq(s *model.FAQSection) {
	if s == nil {
		return
	}
	w.text(s.Heading, s.Subheading)
	for _, item := range s.Items {
		w.text(item.Question, item.Answer)
	}
}

func (w pageWalker) related(s *model.RelatedTopicsSection) {
	if s == nil {
		return
	}
	w.text(s.Heading)
	for _, link := range s.Links {
		w.text(link.Label, link.Description)
	}
}

func (w pageWalker) linking(l *model.LinkingRecommendations) {
	if l == nil {
		return
	}
	w.text(l.AnchorText)
	w.text(l.DescriptionVariants...)
}
