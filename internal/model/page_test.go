package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPageDecode(t *testing.T) {
	t.Parallel()

	input := `{
		"slug": "cell-biology",
		"path": "/flashcards/cell-biology",
		"metadata": {"title": "Cell Biology", "keywords": ["cell biology flashcards", "organelles"]},
		"hero": {"heading": "Study cells"},
		"seoSection": {"heading": "Why", "body": [
			{"type": "paragraph", "html": "<p>Mitochondria</p>"},
			{"type": "list", "items": ["<b>Ribosomes</b>", "Golgi"]}
		]},
		"faqSection": {"items": [{"question": "What is a cell?", "answer": "A unit."}]},
		"linkingRecommendations": {"anchorText": "cell flashcards", "descriptionVariants": ["one", "two"]},
		"embeddedFlashcards": [{"question": "Q", "answer": "A"}]
	}`

	var p Page
	if err := json.Unmarshal([]byte(input), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !p.HasSlug() || p.Slug != "cell-biology" {
		t.Errorf("Slug = %q", p.Slug)
	}
	if p.Metadata == nil || len(p.Metadata.Keywords) != 2 {
		t.Fatalf("Metadata = %+v", p.Metadata)
	}
	if p.SEOSection == nil || len(p.SEOSection.Body) != 2 {
		t.Fatalf("SEOSection = %+v", p.SEOSection)
	}
	if p.SEOSection.Body[1].Type != BlockList || len(p.SEOSection.Body[1].Items) != 2 {
		t.Errorf("list block = %+v", p.SEOSection.Body[1])
	}
	if p.FAQSection == nil || p.FAQSection.Items[0].Answer != "A unit." {
		t.Errorf("FAQSection = %+v", p.FAQSection)
	}
	if p.LinkingRecommendations == nil || len(p.LinkingRecommendations.DescriptionVariants) != 2 {
		t.Errorf("LinkingRecommendations = %+v", p.LinkingRecommendations)
	}
	if len(p.EmbeddedFlashcards) != 1 {
		t.Errorf("EmbeddedFlashcards = %+v", p.EmbeddedFlashcards)
	}
}

func TestPageDecodeWrongShapeKeepsRest(t *testing.T) {
	t.Parallel()

	input := `{"slug": "algebra", "hero": "not an object", "metadata": {"title": "Algebra", "keywords": ["x", 3]}}`

	var p Page
	err := json.Unmarshal([]byte(input), &p)

	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected UnmarshalTypeError, got %v", err)
	}
	if p.Slug != "algebra" {
		t.Errorf("Slug = %q, want algebra", p.Slug)
	}
	if p.Hero != nil && *p.Hero != (Hero{}) {
		t.Errorf("Hero = %+v, want empty", p.Hero)
	}
	if p.Metadata == nil || p.Metadata.Title != "Algebra" {
		t.Errorf("Metadata = %+v", p.Metadata)
	}
}

func TestPageHasSlug(t *testing.T) {
	t.Parallel()

	var nilPage *Page
	if nilPage.HasSlug() {
		t.Error("nil page has no slug")
	}
	if (&Page{}).HasSlug() {
		t.Error("empty page has no slug")
	}
}
