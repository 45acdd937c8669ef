package model

// Page is one generated landing page record.
// Every section is optional. Pages are read-only once loaded; the
// signature builder only walks their text.
type Page struct {
	// Slug uniquely identifies the page. Records without a slug are skipped.
	Slug string `json:"slug"`

	// Path is the site-relative URL path, tokenized like a slug.
	Path string `json:"path,omitempty"`

	Metadata               *Metadata               `json:"metadata,omitempty"`
	Hero                   *Hero                   `json:"hero,omitempty"`
	FeaturesSection        *FeaturesSection        `json:"featuresSection,omitempty"`
	HowItWorksSection      *HowItWorksSection      `json:"howItWorksSection,omitempty"`
	SEOSection             *SEOSection             `json:"seoSection,omitempty"`
	FAQSection             *FAQSection             `json:"faqSection,omitempty"`
	RelatedTopicsSection   *RelatedTopicsSection   `json:"relatedTopicsSection,omitempty"`
	LinkingRecommendations *LinkingRecommendations `json:"linkingRecommendations,omitempty"`

	// EmbeddedFlashcards are the sample question/answer pairs shown on the page.
	EmbeddedFlashcards []QA `json:"embeddedFlashcards,omitempty"`
}

// Metadata holds the page's head metadata.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Keywords are marketing phrases. Exact phrase matches between a page
	// and a subhub are the strongest similarity signal.
	Keywords []string `json:"keywords,omitempty"`

	// Canonical is the canonical URL, tokenized like a slug.
	Canonical string `json:"canonical,omitempty"`
}

// Hero is the page's lead block.
type Hero struct {
	Eyebrow    string `json:"eyebrow,omitempty"`
	Heading    string `json:"heading,omitempty"`
	Subheading string `json:"subheading,omitempty"`
}

// TitledItem is a feature or a how-it-works step.
type TitledItem struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// FeaturesSection lists the product features shown on the page.
type FeaturesSection struct {
	Heading    string       `json:"heading,omitempty"`
	Subheading string       `json:"subheading,omitempty"`
	Features   []TitledItem `json:"features,omitempty"`
}

// HowItWorksSection lists the usage steps shown on the page.
type HowItWorksSection struct {
	Heading    string       `json:"heading,omitempty"`
	Subheading string       `json:"subheading,omitempty"`
	Steps      []TitledItem `json:"steps,omitempty"`
}

// Body block types of an SEO section.
const (
	BlockParagraph = "paragraph"
	BlockList      = "list"
)

// BodyBlock is one block of SEO copy. Paragraph blocks carry HTML;
// list blocks carry HTML fragments as items.
type BodyBlock struct {
	Type  string   `json:"type"`
	HTML  string   `json:"html,omitempty"`
	Items []string `json:"items,omitempty"`
}

// SEOSection is the long-form copy block.
type SEOSection struct {
	Heading string      `json:"heading,omitempty"`
	Body    []BodyBlock `json:"body,omitempty"`
}

// QA is a question and its answer.
type QA struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

// FAQSection is the frequently asked questions block.
type FAQSection struct {
	Heading    string `json:"heading,omitempty"`
	Subheading string `json:"subheading,omitempty"`
	Items      []QA   `json:"items,omitempty"`
}

// RelatedLink points at a related topic page.
type RelatedLink struct {
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

// RelatedTopicsSection is the block of links to related pages.
type RelatedTopicsSection struct {
	Heading string        `json:"heading,omitempty"`
	Links   []RelatedLink `json:"links,omitempty"`
}

// LinkingRecommendations describe how other pages should link to this one.
type LinkingRecommendations struct {
	AnchorText          string   `json:"anchorText,omitempty"`
	DescriptionVariants []string `json:"descriptionVariants,omitempty"`
}

// HasSlug reports whether the record can be indexed.
func (p *Page) HasSlug() bool {
	return p != nil && p.Slug != ""
}
