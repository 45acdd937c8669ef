package config

import (
	"math"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
)

// Default configuration values.
// These values are chosen to reproduce the behaviour of the content team's
// existing assignment runs without any flags.
const (
	// DefaultPagesPath is the generated module holding the flashcard page records.
	DefaultPagesPath = "lib/programmatic/generated/flashcardPages.ts"

	// DefaultTaxonomyPath is the hub/subhub taxonomy file that is read and rewritten.
	DefaultTaxonomyPath = "data/flashcard_taxonomy.json"

	// DefaultFallbackHub is the hub of the catch-all subhub.
	DefaultFallbackHub = "Vocabulary & Specialized Concepts"

	// DefaultFallbackSubhub is the catch-all subhub that receives pages
	// no other subhub matches well enough.
	DefaultFallbackSubhub = "General Concepts"

	// DefaultWorkers is the number of goroutines used by the audit.
	// One worker keeps the audit strictly sequential.
	DefaultWorkers = 1

	// AppName is the application name used for XDG directories.
	AppName = "subhubs"
)

// Config holds all configuration options for a subhubs run.
// It is populated from defaults, then the configuration file, then
// command-line flags.
type Config struct {
	// PagesPath is the path of the page records (JSON array or generated TS module).
	PagesPath string

	// TaxonomyPath is the path of the taxonomy JSON file.
	TaxonomyPath string

	// BaselineTaxonomy is an optional older taxonomy file. When set, the
	// audit only looks at slugs that are not in the baseline.
	BaselineTaxonomy string

	// BaselineRun is an optional run ID from the history database whose
	// taxonomy snapshot is used as the baseline. Zero means unset.
	BaselineRun int64

	// Thresholds are the confidence thresholds used to classify matches.
	Thresholds model.Thresholds

	// FallbackHub and FallbackSubhub name the catch-all subhub.
	FallbackHub    string
	FallbackSubhub string

	// Limit restricts assignment to the first N missing slugs after sorting.
	// Zero means no limit.
	Limit int

	// DryRun computes assignments without rewriting the taxonomy.
	DryRun bool

	// ReassignLowConfidence removes flagged placements before assigning,
	// so they are placed again together with the missing slugs.
	ReassignLowConfidence bool

	// ReportOutput is an optional path for the JSON array of
	// low-confidence entries produced by an audit.
	ReportOutput string

	// Workers bounds the audit worker pool.
	Workers int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the .subhubs.yaml file.
	// If empty, the default locations are searched.
	ConfigFilePath string

	// JSONReport outputs the run report in JSON format.
	JSONReport bool

	// MarkdownReport outputs the run report in Markdown format.
	MarkdownReport bool

	// ReportFile is the path to write the run report to.
	// If empty, the report is written to stdout.
	ReportFile string

	// DBDir is the directory holding the run-history database.
	// If empty, XDGDataDir() is used.
	DBDir string

	// NoHistory disables recording the run in the history database.
	NoHistory bool

	// Vocabulary holds adjustments to the built-in tokenizer tables.
	Vocabulary VocabularyConfig
}

// VocabularyConfig adjusts the built-in stopword and number-word tables.
type VocabularyConfig struct {
	// ExtraStopwords are dropped from token streams in addition to the defaults.
	ExtraStopwords []string `yaml:"extra_stopwords,omitempty"`

	// KeepWords are removed from the default stopword list.
	KeepWords []string `yaml:"keep_words,omitempty"`

	// NumberWords maps extra digit strings to their spelled-out form.
	NumberWords map[string]string `yaml:"number_words,omitempty"`
}

// IsZero reports whether the configuration leaves the built-in tables untouched.
func (v VocabularyConfig) IsZero() bool {
	return len(v.ExtraStopwords) == 0 && len(v.KeepWords) == 0 && len(v.NumberWords) == 0
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		PagesPath:      DefaultPagesPath,
		TaxonomyPath:   DefaultTaxonomyPath,
		Thresholds:     model.DefaultThresholds(),
		FallbackHub:    DefaultFallbackHub,
		FallbackSubhub: DefaultFallbackSubhub,
		Workers:        DefaultWorkers,
	}
}

// Fallback returns the key of the catch-all subhub.
func (c *Config) Fallback() model.Key {
	return model.Key{Hub: c.FallbackHub, Subhub: c.FallbackSubhub}
}

// HasBaseline reports whether a baseline taxonomy was requested.
func (c *Config) HasBaseline() bool {
	return c.BaselineTaxonomy != "" || c.BaselineRun != 0
}

// HistoryDir returns the directory of the run-history database.
func (c *Config) HistoryDir() string {
	if c.DBDir != "" {
		return c.DBDir
	}
	return XDGDataDir()
}

// XDGDataDir returns the XDG data directory for subhubs.
// On Linux: ~/.local/share/subhubs
// On macOS: ~/Library/Application Support/subhubs
// On Windows: %LOCALAPPDATA%\subhubs
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for subhubs.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.PagesPath == "" {
		return ErrNoPagesPath
	}
	if c.TaxonomyPath == "" {
		return ErrNoTaxonomyPath
	}

	for _, v := range []float64{
		c.Thresholds.MinConfidence,
		c.Thresholds.AmbiguousConfidence,
		c.Thresholds.GapThreshold,
		c.Thresholds.FallbackMinConfidence,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidThreshold
		}
	}

	if c.FallbackHub == "" || c.FallbackSubhub == "" {
		return ErrEmptyFallback
	}

	if c.Limit < 0 {
		return ErrInvalidLimit
	}

	if c.Workers < 1 {
		return ErrInvalidWorkers
	}

	if c.BaselineRun < 0 {
		return ErrInvalidBaselineRun
	}
	if c.BaselineTaxonomy != "" && c.BaselineRun != 0 {
		return ErrConflictingBaselines
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
