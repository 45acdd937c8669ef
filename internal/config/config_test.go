package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
)

// TestNewConfig verifies that NewConfig returns the documented defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default paths", func(t *testing.T) {
		t.Parallel()
		if cfg.PagesPath != "lib/programmatic/generated/flashcardPages.ts" {
			t.Errorf("unexpected PagesPath %q", cfg.PagesPath)
		}
		if cfg.TaxonomyPath != "data/flashcard_taxonomy.json" {
			t.Errorf("unexpected TaxonomyPath %q", cfg.TaxonomyPath)
		}
	})

	t.Run("default thresholds", func(t *testing.T) {
		t.Parallel()
		want := model.Thresholds{
			MinConfidence:         0.18,
			AmbiguousConfidence:   0.6,
			GapThreshold:          0.02,
			FallbackMinConfidence: 0.08,
		}
		if cfg.Thresholds != want {
			t.Errorf("expected %+v, got %+v", want, cfg.Thresholds)
		}
	})

	t.Run("default fallback", func(t *testing.T) {
		t.Parallel()
		want := model.Key{Hub: "Vocabulary & Specialized Concepts", Subhub: "General Concepts"}
		if cfg.Fallback() != want {
			t.Errorf("expected %v, got %v", want, cfg.Fallback())
		}
	})

	t.Run("default workers is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.Workers != 1 {
			t.Errorf("expected Workers to be 1, got %d", cfg.Workers)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestConfigValidate tests one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"zero thresholds are valid", func(c *Config) { c.Thresholds = model.Thresholds{} }, nil},
		{"unordered thresholds are valid", func(c *Config) { c.Thresholds.MinConfidence = 0.9 }, nil},
		{"empty pages path", func(c *Config) { c.PagesPath = "" }, ErrNoPagesPath},
		{"empty taxonomy path", func(c *Config) { c.TaxonomyPath = "" }, ErrNoTaxonomyPath},
		{"negative min confidence", func(c *Config) { c.Thresholds.MinConfidence = -0.1 }, ErrInvalidThreshold},
		{"NaN gap", func(c *Config) { c.Thresholds.GapThreshold = math.NaN() }, ErrInvalidThreshold},
		{"infinite fallback threshold", func(c *Config) { c.Thresholds.FallbackMinConfidence = math.Inf(1) }, ErrInvalidThreshold},
		{"empty fallback hub", func(c *Config) { c.FallbackHub = "" }, ErrEmptyFallback},
		{"empty fallback subhub", func(c *Config) { c.FallbackSubhub = "" }, ErrEmptyFallback},
		{"negative limit", func(c *Config) { c.Limit = -1 }, ErrInvalidLimit},
		{"zero workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
		{"negative baseline run", func(c *Config) { c.BaselineRun = -3 }, ErrInvalidBaselineRun},
		{
			"two baselines",
			func(c *Config) {
				c.BaselineTaxonomy = "old.json"
				c.BaselineRun = 4
			},
			ErrConflictingBaselines,
		},
		{
			"json and markdown",
			func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigHistoryDir(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if got := cfg.HistoryDir(); got != XDGDataDir() {
		t.Errorf("expected HistoryDir %q, got %q", XDGDataDir(), got)
	}

	cfg.DBDir = "/var/lib/subhubs"
	if got := cfg.HistoryDir(); got != "/var/lib/subhubs" {
		t.Errorf("unexpected HistoryDir %q", got)
	}
}

func TestConfigHasBaseline(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if cfg.HasBaseline() {
		t.Error("expected no baseline by default")
	}
	cfg.BaselineRun = 2
	if !cfg.HasBaseline() {
		t.Error("expected baseline run to count as a baseline")
	}
}

func TestFileApply(t *testing.T) {
	t.Parallel()

	gap := 0.05
	zero := 0.0
	f := &File{
		Pages:    "pages.json",
		Taxonomy: "tax.json",
		Baseline: "old.json",
		Thresholds: ThresholdsConfig{
			GapThreshold:          &gap,
			FallbackMinConfidence: &zero,
		},
		Fallback: FallbackConfig{Subhub: "Other"},
		Workers:  4,
		Vocabulary: VocabularyConfig{
			ExtraStopwords: []string{"flashcards"},
			NumberWords:    map[string]string{"100": "hundred"},
		},
	}

	cfg := NewConfig()
	f.Apply(cfg)

	if cfg.PagesPath != "pages.json" || cfg.TaxonomyPath != "tax.json" || cfg.BaselineTaxonomy != "old.json" {
		t.Errorf("paths not applied: %+v", cfg)
	}
	if cfg.Thresholds.GapThreshold != 0.05 {
		t.Errorf("expected gap 0.05, got %v", cfg.Thresholds.GapThreshold)
	}
	if cfg.Thresholds.FallbackMinConfidence != 0 {
		t.Errorf("expected explicit zero fallback threshold, got %v", cfg.Thresholds.FallbackMinConfidence)
	}
	if cfg.Thresholds.MinConfidence != 0.18 {
		t.Errorf("unset threshold changed to %v", cfg.Thresholds.MinConfidence)
	}
	if cfg.FallbackHub != DefaultFallbackHub || cfg.FallbackSubhub != "Other" {
		t.Errorf("unexpected fallback %v", cfg.Fallback())
	}
	if cfg.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.Vocabulary.IsZero() || cfg.Vocabulary.NumberWords["100"] != "hundred" {
		t.Errorf("vocabulary not applied: %+v", cfg.Vocabulary)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.subhubs.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)

		content := `pages: generated/pages.json
taxonomy: data/taxonomy.json
thresholds:
  min_confidence: 0.2
  gap_threshold: 0.01
fallback:
  hub: Misc
  subhub: General
workers: 3
vocabulary:
  extra_stopwords: [deck]
  keep_words: [how]
  number_words:
    "100": hundred
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.Pages != "generated/pages.json" || cf.Taxonomy != "data/taxonomy.json" {
			t.Errorf("unexpected paths %q, %q", cf.Pages, cf.Taxonomy)
		}
		if cf.Thresholds.MinConfidence == nil || *cf.Thresholds.MinConfidence != 0.2 {
			t.Errorf("unexpected min_confidence %v", cf.Thresholds.MinConfidence)
		}
		if cf.Thresholds.AmbiguousConfidence != nil {
			t.Errorf("expected unset ambiguous_confidence, got %v", *cf.Thresholds.AmbiguousConfidence)
		}
		if cf.Fallback.Hub != "Misc" || cf.Fallback.Subhub != "General" {
			t.Errorf("unexpected fallback %+v", cf.Fallback)
		}
		if cf.Workers != 3 {
			t.Errorf("expected 3 workers, got %d", cf.Workers)
		}
		if len(cf.Vocabulary.ExtraStopwords) != 1 || cf.Vocabulary.KeepWords[0] != "how" || cf.Vocabulary.NumberWords["100"] != "hundred" {
			t.Errorf("unexpected vocabulary %+v", cf.Vocabulary)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)

		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("empty file is valid", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)

		if err := os.WriteFile(configPath, nil, 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg := NewConfig()
		cf.Apply(cfg)
		if err := cfg.Validate(); err != nil {
			t.Errorf("empty file produced invalid config: %v", err)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), "custom.yaml")

		if err := os.WriteFile(configPath, []byte("pages: x.json\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if dir := XDGDataDir(); !strings.HasSuffix(dir, AppName) {
		t.Errorf("unexpected XDG data dir %q", dir)
	}
	if dir := XDGConfigDir(); !strings.HasSuffix(dir, AppName) {
		t.Errorf("unexpected XDG config dir %q", dir)
	}
}
