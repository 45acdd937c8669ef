package signature

import (
	"slices"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
	"github.com/Led-adel-pilot/CogniGuide/internal/tokenize"
)

// Subhub is the aggregated signature of one subhub.
// The assignment engine mutates it through Absorb; everything else treats
// it as read-only.
type Subhub struct {
	Key model.Key

	// Tokens starts as NameTokens and absorbs every member's tokens.
	Tokens         tokenize.Set
	KeywordPhrases tokenize.Set
	SlugTokens     tokenize.Set

	// NameTokens are the hub tokens plus the incorporated subhub name.
	NameTokens tokenize.Set

	// HubTokens are the plain tokens of the hub name.
	HubTokens tokenize.Set

	// Slugs are the members that contributed, in placement order.
	Slugs []string
}

// Absorb adds a page to the subhub.
func (s *Subhub) Absorb(p *Page) {
	s.Slugs = append(s.Slugs, p.Slug)
	s.Tokens.Merge(p.Tokens)
	s.KeywordPhrases.Merge(p.KeywordPhrases)
	s.SlugTokens.Merge(p.SlugTokens)
}

// SubhubIndex holds subhub signatures in declared taxonomy order.
type SubhubIndex struct {
	list  []*Subhub
	byKey map[model.Key]int
}

func newSubhubIndex(n int) *SubhubIndex {
	return &SubhubIndex{
		list:  make([]*Subhub, 0, n),
		byKey: make(map[model.Key]int, n),
	}
}

// NewSubhubIndex indexes prebuilt signatures in the given order.
// A later signature with a duplicate key replaces the earlier one.
func NewSubhubIndex(subhubs ...*Subhub) *SubhubIndex {
	x := newSubhubIndex(len(subhubs))
	for _, s := range subhubs {
		if i, ok := x.byKey[s.Key]; ok {
			x.list[i] = s
			continue
		}
		x.add(s)
	}
	return x
}

func (x *SubhubIndex) add(s *Subhub) {
	x.byKey[s.Key] = len(x.list)
	x.list = append(x.list, s)
}

// List returns the signatures in declared order.
// The slice must not be modified.
func (x *SubhubIndex) List() []*Subhub {
	return x.list
}

// Get returns the signature for key, or nil.
func (x *SubhubIndex) Get(key model.Key) *Subhub {
	if i, ok := x.byKey[key]; ok {
		return x.list[i]
	}
	return nil
}

// Has reports whether key is indexed.
func (x *SubhubIndex) Has(key model.Key) bool {
	_, ok := x.byKey[key]
	return ok
}

// Len returns the number of subhubs.
func (x *SubhubIndex) Len() int {
	return len(x.list)
}

// With returns a view of x in which the entry with the same key as s is
// replaced by s. Signatures are shared, not copied, so the view must be
// treated as read-only. x itself is unchanged.
func (x *SubhubIndex) With(s *Subhub) *SubhubIndex {
	i, ok := x.byKey[s.Key]
	if !ok {
		return x
	}
	return &SubhubIndex{
		list:  slices.Replace(slices.Clone(x.list), i, i+1, s),
		byKey: x.byKey,
	}
}

// BuildSubhubs builds a signature for every subhub of t in declared order.
// Slugs listed in exclude are left out as if they were not placed.
func (b *Builder) BuildSubhubs(t *model.Taxonomy, pages PageIndex, exclude ...string) *SubhubIndex {
	skip := tokenize.NewSet(exclude...)
	x := newSubhubIndex(len(t.Keys()))
	for _, hub := range t.Hubs() {
		hubTokens := b.vocab.NormalizeText(hub)
		for _, name := range t.Subhubs(hub) {
			key := model.Key{Hub: hub, Subhub: name}
			x.add(b.buildSubhub(key, hubTokens, t.Slugs(key), pages, skip))
		}
	}
	return x
}

// BuildSubhub builds the signature of a single subhub from its member
// slugs, leaving out the slugs in exclude.
func (b *Builder) BuildSubhub(key model.Key, slugs []string, pages PageIndex, exclude ...string) *Subhub {
	return b.buildSubhub(key, b.vocab.NormalizeText(key.Hub), slugs, pages, tokenize.NewSet(exclude...))
}

func (b *Builder) buildSubhub(key model.Key, hubTokens tokenize.Set, slugs []string, pages PageIndex, skip tokenize.Set) *Subhub {
	nameTokens := hubTokens.Clone()
	b.vocab.IncorporateText(nameTokens, key.Subhub)

	s := &Subhub{
		Key:            key,
		Tokens:         nameTokens.Clone(),
		KeywordPhrases: tokenize.Set{},
		SlugTokens:     tokenize.Set{},
		NameTokens:     nameTokens,
		HubTokens:      hubTokens,
		Slugs:          make([]string, 0, len(slugs)),
	}

	for _, slug := range slugs {
		if skip.Has(slug) {
			continue
		}
		if p, ok := pages[slug]; ok {
			s.Absorb(p)
			continue
		}
		// No page record: fall back to the slug text.
		s.Slugs = append(s.Slugs, slug)
		for _, token := range b.vocab.NormalizeSlug(slug) {
			b.vocab.Incorporate(s.Tokens, token)
			s.SlugTokens.Add(token)
		}
	}
	return s
}
