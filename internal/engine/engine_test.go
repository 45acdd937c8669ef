package engine

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
	"github.com/Led-adel-pilot/CogniGuide/internal/signature"
	"github.com/Led-adel-pilot/CogniGuide/internal/tokenize"
)

var (
	algebra   = model.Key{Hub: "Math", Subhub: "Algebra"}
	biology   = model.Key{Hub: "Science", Subhub: "Biology"}
	chemistry = model.Key{Hub: "Science", Subhub: "Chemistry"}
	general   = model.Key{Hub: "Misc", Subhub: "General"}
)

// sig builds a page signature from plain tokens, with no keyword phrases
// and no slug tokens.
func sig(slug string, tokens ...string) *signature.Page {
	return &signature.Page{
		Slug:           slug,
		Tokens:         tokenize.NewSet(tokens...),
		KeywordPhrases: tokenize.NewSet(),
		SlugTokens:     tokenize.NewSet(),
	}
}

// sub builds a subhub signature whose only tokens are the given ones.
func sub(key model.Key, tokens ...string) *signature.Subhub {
	return &signature.Subhub{
		Key:            key,
		Tokens:         tokenize.NewSet(tokens...),
		KeywordPhrases: tokenize.NewSet(),
		SlugTokens:     tokenize.NewSet(),
		NameTokens:     tokenize.NewSet(),
		HubTokens:      tokenize.NewSet(),
	}
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return New(signature.NewBuilder(), model.DefaultThresholds(), general, opts...)
}

// fixture is a taxonomy with four subhubs where "stray" and "tie" sit in
// subhubs that do not suit them.
//
//	Math → Algebra:       alg-1 {algebra, equation, variable}
//	Science → Biology:    bio-1 {cell, organism}, tie {equation, cell}
//	Science → Chemistry:  stray {equation, q1..q7}
//	Misc → General:       fb-1 {zzz}
func fixture(t *testing.T) (*model.Taxonomy, signature.PageIndex) {
	t.Helper()

	tax := model.NewTaxonomy()
	for _, k := range []model.Key{algebra, biology, chemistry, general} {
		tax.AddSubhub(k)
	}
	tax.Add(algebra, "alg-1")
	tax.Add(biology, "bio-1")
	tax.Add(biology, "tie")
	tax.Add(chemistry, "stray")
	tax.Add(general, "fb-1")

	pages := signature.PageIndex{
		"alg-1": sig("alg-1", "algebra", "equation", "variable"),
		"bio-1": sig("bio-1", "cell", "organism"),
		"tie":   sig("tie", "equation", "cell"),
		"stray": sig("stray", "equation", "q1", "q2", "q3", "q4", "q5", "q6", "q7"),
		"fb-1":  sig("fb-1", "zzz"),
	}
	return tax, pages
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestFindBest(t *testing.T) {
	t.Parallel()

	page := sig("p", "a", "b")

	t.Run("best and runner-up", func(t *testing.T) {
		t.Parallel()
		m, err := FindBest(page, []*signature.Subhub{
			sub(algebra, "a", "b", "c", "d"), // 0.5
			sub(biology, "a", "b"),           // 1.0
			sub(general, "a", "x", "y"),      // 0.25
		})
		if err != nil {
			t.Fatal(err)
		}
		if m.Key != biology || m.Score != 1 || m.RunnerUp != 0.5 || !m.HasRunnerUp || m.Gap != 0.5 {
			t.Errorf("FindBest() = %+v", m)
		}
		if want := (signature.Breakdown{Jaccard: 1}); m.Breakdown != want {
			t.Errorf("Breakdown = %+v, want %+v", m.Breakdown, want)
		}
	})

	t.Run("ties keep the first subhub", func(t *testing.T) {
		t.Parallel()
		m, err := FindBest(page, []*signature.Subhub{
			sub(algebra, "a"),
			sub(biology, "b"),
		})
		if err != nil {
			t.Fatal(err)
		}
		if m.Key != algebra || m.Gap != 0 || m.RunnerUp != m.Score {
			t.Errorf("FindBest() = %+v", m)
		}
	})

	t.Run("single subhub gap is the score", func(t *testing.T) {
		t.Parallel()
		m, err := FindBest(page, []*signature.Subhub{sub(algebra, "a", "b", "c", "d")})
		if err != nil {
			t.Fatal(err)
		}
		if m.HasRunnerUp || m.RunnerUp != 0 || m.Gap != m.Score || m.Score != 0.5 {
			t.Errorf("FindBest() = %+v", m)
		}
	})

	t.Run("no subhubs", func(t *testing.T) {
		t.Parallel()
		if _, err := FindBest(page, nil); err == nil {
			t.Error("expected ErrNoSubhubs")
		}
	})
}

func TestAssignLogsBreakdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	subhubs := signature.NewSubhubIndex(sub(algebra, "equation"), sub(general))
	pages := signature.PageIndex{"p": sig("p", "equation")}

	if _, err := newEngine(t, WithLogger(logger)).Assign([]string{"p"}, pages, subhubs); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"best.jaccard=1", "best.keyword=0", "best.slug=0", "best.hub=0", "best.total=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
