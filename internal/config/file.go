package config

// ThresholdsConfig holds optional threshold overrides.
// A nil field keeps the current value.
type ThresholdsConfig struct {
	MinConfidence         *float64 `yaml:"min_confidence,omitempty"`
	AmbiguousConfidence   *float64 `yaml:"ambiguous_confidence,omitempty"`
	GapThreshold          *float64 `yaml:"gap_threshold,omitempty"`
	FallbackMinConfidence *float64 `yaml:"fallback_min_confidence,omitempty"`
}

// FallbackConfig names the catch-all subhub.
type FallbackConfig struct {
	Hub    string `yaml:"hub,omitempty"`
	Subhub string `yaml:"subhub,omitempty"`
}

// File represents the structure of the .subhubs.yaml configuration file.
// Every field is optional; empty fields leave the defaults in place.
type File struct {
	// Pages is the path of the page records.
	Pages string `yaml:"pages,omitempty"`

	// Taxonomy is the path of the taxonomy file.
	Taxonomy string `yaml:"taxonomy,omitempty"`

	// Baseline is an optional baseline taxonomy path.
	Baseline string `yaml:"baseline,omitempty"`

	Thresholds ThresholdsConfig `yaml:"thresholds,omitempty"`
	Fallback   FallbackConfig   `yaml:"fallback,omitempty"`

	// Workers bounds the audit worker pool.
	Workers int `yaml:"workers,omitempty"`

	// DBDir overrides the run-history directory.
	DBDir string `yaml:"db_dir,omitempty"`

	Vocabulary VocabularyConfig `yaml:"vocabulary,omitempty"`
}

// Apply copies every value set in the file onto c.
// Command-line flags are applied afterwards by the caller, so they win.
func (f *File) Apply(c *Config) {
	if f.Pages != "" {
		c.PagesPath = f.Pages
	}
	if f.Taxonomy != "" {
		c.TaxonomyPath = f.Taxonomy
	}
	if f.Baseline != "" {
		c.BaselineTaxonomy = f.Baseline
	}

	if v := f.Thresholds.MinConfidence; v != nil {
		c.Thresholds.MinConfidence = *v
	}
	if v := f.Thresholds.AmbiguousConfidence; v != nil {
		c.Thresholds.AmbiguousConfidence = *v
	}
	if v := f.Thresholds.GapThreshold; v != nil {
		c.Thresholds.GapThreshold = *v
	}
	if v := f.Thresholds.FallbackMinConfidence; v != nil {
		c.Thresholds.FallbackMinConfidence = *v
	}

	if f.Fallback.Hub != "" {
		c.FallbackHub = f.Fallback.Hub
	}
	if f.Fallback.Subhub != "" {
		c.FallbackSubhub = f.Fallback.Subhub
	}

	if f.Workers != 0 {
		c.Workers = f.Workers
	}
	if f.DBDir != "" {
		c.DBDir = f.DBDir
	}

	c.Vocabulary.ExtraStopwords = append(c.Vocabulary.ExtraStopwords, f.Vocabulary.ExtraStopwords...)
	c.Vocabulary.KeepWords = append(c.Vocabulary.KeepWords, f.Vocabulary.KeepWords...)
	if len(f.Vocabulary.NumberWords) > 0 {
		if c.Vocabulary.NumberWords == nil {
			c.Vocabulary.NumberWords = make(map[string]string, len(f.Vocabulary.NumberWords))
		}
		for digits, word := range f.Vocabulary.NumberWords {
			c.Vocabulary.NumberWords[digits] = word
		}
	}
}
