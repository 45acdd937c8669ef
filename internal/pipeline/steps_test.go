package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Led-adel-pilot/CogniGuide/internal/config"
	"github.com/Led-adel-pilot/CogniGuide/internal/engine"
	"github.com/Led-adel-pilot/CogniGuide/internal/model"
	"github.com/Led-adel-pilot/CogniGuide/internal/signature"
	"github.com/Led-adel-pilot/CogniGuide/internal/taxonomy"
	"github.com/Led-adel-pilot/CogniGuide/internal/tokenize"
)

var (
	algebra   = model.Key{Hub: "Math", Subhub: "Algebra"}
	biology   = model.Key{Hub: "Science", Subhub: "Biology"}
	chemistry = model.Key{Hub: "Science", Subhub: "Chemistry"}
	general   = model.Key{Hub: "Misc", Subhub: "General"}
)

func sig(slug string, tokens ...string) *signature.Page {
	return &signature.Page{
		Slug:           slug,
		Tokens:         tokenize.NewSet(tokens...),
		KeywordPhrases: tokenize.NewSet(),
		SlugTokens:     tokenize.NewSet(),
	}
}

// fixture places "stray" and "tie" where they do not fit and leaves
// "eq-new" unplaced.
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
		"alg-1":  sig("alg-1", "algebra", "equation", "variable"),
		"bio-1":  sig("bio-1", "cell", "organism"),
		"tie":    sig("tie", "equation", "cell"),
		"stray":  sig("stray", "equation", "q1", "q2", "q3", "q4", "q5", "q6", "q7"),
		"fb-1":   sig("fb-1", "zzz"),
		"eq-new": sig("eq-new", "algebra", "equation", "variable"),
	}
	return tax, pages
}

func newEngine(fallback model.Key) *engine.Engine {
	return engine.New(signature.NewBuilder(), model.DefaultThresholds(), fallback)
}

func newState(t *testing.T, mode model.Mode) *State {
	t.Helper()
	tax, pages := fixture(t)
	return NewState(model.NewRun(mode), tax, pages, nil)
}

func TestValidateStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fallback model.Key
		wantErr  bool
	}{
		{"fallback present", general, false},
		{"fallback hub missing", model.Key{Hub: "Other", Subhub: "General"}, true},
		{"fallback subhub missing", model.Key{Hub: "Misc", Subhub: "Other"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := NewValidateStep(newEngine(tt.fallback)).Do(context.Background(), newState(t, model.ModeAssign))
			if tt.wantErr != errors.Is(err, engine.ErrFallbackNotFound) {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMissingStep(t *testing.T) {
	t.Parallel()

	state := newState(t, model.ModeAssign)
	state.Pages["a-new"] = sig("a-new", "x")

	if err := NewMissingStep(1).Do(context.Background(), state); err != nil {
		t.Fatal(err)
	}
	if want := []string{"a-new"}; !reflect.DeepEqual(state.Run.Missing, want) {
		t.Errorf("Missing = %v, want %v", state.Run.Missing, want)
	}

	if err := NewMissingStep(0).Do(context.Background(), state); err != nil {
		t.Fatal(err)
	}
	if want := []string{"a-new", "eq-new"}; !reflect.DeepEqual(state.Run.Missing, want) {
		t.Errorf("Missing = %v, want %v", state.Run.Missing, want)
	}
}

func TestAuditStep(t *testing.T) {
	t.Parallel()

	t.Run("saves flagged entries", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(t.TempDir(), "low.json")
		state := newState(t, model.ModeAudit)

		if err := NewAuditStep(newEngine(general), output, nil).Do(context.Background(), state); err != nil {
			t.Fatal(err)
		}
		if len(state.Run.LowConfidence) != 2 {
			t.Fatalf("LowConfidence = %+v", state.Run.LowConfidence)
		}
		if state.Run.ReportOutput != output {
			t.Errorf("ReportOutput = %q, want %q", state.Run.ReportOutput, output)
		}
		if _, err := os.Stat(output); err != nil {
			t.Errorf("report not written: %v", err)
		}
	})

	t.Run("skips saving when nothing is flagged", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(t.TempDir(), "low.json")
		state := newState(t, model.ModeAudit)
		state.Restrict = map[string]struct{}{"alg-1": {}}

		if err := NewAuditStep(newEngine(general), output, nil).Do(context.Background(), state); err != nil {
			t.Fatal(err)
		}
		if len(state.Run.LowConfidence) != 0 {
			t.Errorf("LowConfidence = %+v", state.Run.LowConfidence)
		}
		if state.Run.RestrictedTo != 1 {
			t.Errorf("RestrictedTo = %d, want 1", state.Run.RestrictedTo)
		}
		if state.Run.ReportOutput != "" {
			t.Errorf("ReportOutput = %q, want empty", state.Run.ReportOutput)
		}
		if _, err := os.Stat(output); !os.IsNotExist(err) {
			t.Errorf("report should not exist, stat err = %v", err)
		}
	})

	t.Run("never moves placements", func(t *testing.T) {
		t.Parallel()

		state := newState(t, model.ModeAudit)
		before := state.Taxonomy.Clone()
		if err := NewAuditStep(newEngine(general), "", nil).Do(context.Background(), state); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(before.AllSlugs(), state.Taxonomy.AllSlugs()) {
			t.Error("audit changed the taxonomy")
		}
	})
}

func TestReassignStep(t *testing.T) {
	t.Parallel()

	state := newState(t, model.ModeAssign)
	ctx := context.Background()
	e := newEngine(general)

	for _, step := range []Step{NewMissingStep(0), NewAuditStep(e, "", nil), NewReassignStep()} {
		if err := step.Do(ctx, state); err != nil {
			t.Fatalf("%s: %v", step.Name(), err)
		}
	}

	if want := []string{"stray", "tie"}; !reflect.DeepEqual(state.Run.Reassigned, want) {
		t.Errorf("Reassigned = %v, want %v", state.Run.Reassigned, want)
	}
	if want := []string{"eq-new", "stray", "tie"}; !reflect.DeepEqual(state.Run.Missing, want) {
		t.Errorf("Missing = %v, want %v", state.Run.Missing, want)
	}
	if state.Taxonomy.Contains("stray") || state.Taxonomy.Contains("tie") {
		t.Error("reassigned slugs still placed")
	}
}

func TestAssignAndApplySteps(t *testing.T) {
	t.Parallel()

	t.Run("writes the taxonomy", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "taxonomy.json")
		state := newState(t, model.ModeAssign)
		state.Run.Missing = []string{"eq-new"}
		e := newEngine(general)

		if err := NewAssignStep(e).Do(context.Background(), state); err != nil {
			t.Fatal(err)
		}
		if len(state.Run.Assignments) != 1 || state.Run.Assignments[0].Target != algebra {
			t.Fatalf("Assignments = %+v", state.Run.Assignments)
		}

		if err := NewApplyStep(path, false, nil).Do(context.Background(), state); err != nil {
			t.Fatal(err)
		}
		if !state.Run.Written || state.Run.Updates != 1 {
			t.Errorf("Written = %v, Updates = %d", state.Run.Written, state.Run.Updates)
		}

		got, err := taxonomy.Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if key, ok := got.Locate("eq-new"); !ok || key != algebra {
			t.Errorf("eq-new placed at %v (%v)", key, ok)
		}
		digest, err := taxonomy.Digest(got)
		if err != nil {
			t.Fatal(err)
		}
		if state.Run.TaxonomyDigest != digest {
			t.Errorf("TaxonomyDigest = %q, want %q", state.Run.TaxonomyDigest, digest)
		}
	})

	t.Run("dry run leaves the file alone", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "taxonomy.json")
		state := newState(t, model.ModeAssign)
		state.Run.Missing = []string{"eq-new"}

		if err := NewAssignStep(newEngine(general)).Do(context.Background(), state); err != nil {
			t.Fatal(err)
		}
		if err := NewApplyStep(path, true, nil).Do(context.Background(), state); err != nil {
			t.Fatal(err)
		}
		if state.Run.Written || state.Run.Updates != 0 {
			t.Errorf("Written = %v, Updates = %d", state.Run.Written, state.Run.Updates)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("taxonomy should not exist, stat err = %v", err)
		}
	})

	t.Run("nothing missing assigns nothing", func(t *testing.T) {
		t.Parallel()

		state := newState(t, model.ModeAssign)
		if err := NewAssignStep(newEngine(general)).Do(context.Background(), state); err != nil {
			t.Fatal(err)
		}
		if state.Run.Assignments != nil {
			t.Errorf("Assignments = %+v", state.Run.Assignments)
		}
	})
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mode     model.Mode
		reassign bool
		want     []string
	}{
		{"audit", model.ModeAudit, false, []string{"validate", "audit"}},
		{"assign", model.ModeAssign, false, []string{"validate", "missing", "assign", "apply"}},
		{"assign with reassign", model.ModeAssign, true, []string{"validate", "missing", "audit", "reassign", "assign", "apply"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.NewConfig()
			cfg.ReassignLowConfidence = tt.reassign
			p := DefaultPipeline(tt.mode, newEngine(general), cfg)
			if got := p.StepNames(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StepNames() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultPipelineReassignEndToEnd(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "taxonomy.json")
	cfg := config.NewConfig()
	cfg.TaxonomyPath = path
	cfg.ReassignLowConfidence = true

	state := newState(t, model.ModeAssign)
	e := newEngine(general)
	if err := DefaultPipeline(model.ModeAssign, e, cfg).Execute(context.Background(), state); err != nil {
		t.Fatal(err)
	}

	run := state.Run
	if len(run.Assignments) != 3 || run.Updates != 3 || !run.Written {
		t.Fatalf("Assignments = %d, Updates = %d, Written = %v", len(run.Assignments), run.Updates, run.Written)
	}

	written, err := taxonomy.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := e.Audit(context.Background(), written, state.Pages, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("reassigned taxonomy still has low-confidence entries: %+v", entries)
	}
}

func TestDefaultPipelineStopsOnMissingFallback(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.TaxonomyPath = filepath.Join(t.TempDir(), "taxonomy.json")
	cfg.ReassignLowConfidence = true

	state := newState(t, model.ModeAssign)
	err := DefaultPipeline(model.ModeAssign, newEngine(model.Key{Hub: "Misc", Subhub: "Other"}), cfg).
		Execute(context.Background(), state)
	if !errors.Is(err, engine.ErrFallbackNotFound) {
		t.Fatalf("err = %v, want ErrFallbackNotFound", err)
	}
	if !state.Taxonomy.Contains("stray") {
		t.Error("placements were removed before validation failed")
	}
}
