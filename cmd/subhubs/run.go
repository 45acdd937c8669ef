package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Led-adel-pilot/CogniGuide/internal/config"
	"github.com/Led-adel-pilot/CogniGuide/internal/database"
	"github.com/Led-adel-pilot/CogniGuide/internal/engine"
	"github.com/Led-adel-pilot/CogniGuide/internal/log"
	"github.com/Led-adel-pilot/CogniGuide/internal/model"
	"github.com/Led-adel-pilot/CogniGuide/internal/pagesource"
	"github.com/Led-adel-pilot/CogniGuide/internal/pipeline"
	"github.com/Led-adel-pilot/CogniGuide/internal/report"
	"github.com/Led-adel-pilot/CogniGuide/internal/signature"
	"github.com/Led-adel-pilot/CogniGuide/internal/taxonomy"
	"github.com/Led-adel-pilot/CogniGuide/internal/tokenize"
)

// runModeCmd builds the configuration for mode from cmd and runs it.
func runModeCmd(cmd *cobra.Command, mode model.Mode) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	if getBoolFlag(cmd, "log-json") {
		logger = log.NewJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	slog.SetDefault(logger)

	return runMode(cmd.Context(), cfg, mode, cmd.OutOrStdout(), logger)
}

// runMode loads the inputs, executes the pipeline for mode, prints the
// report and records the run in the history database.
func runMode(ctx context.Context, cfg *config.Config, mode model.Mode, stdout io.Writer, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	run := model.NewRun(mode)
	run.PagesPath = cfg.PagesPath
	run.TaxonomyPath = cfg.TaxonomyPath
	run.Thresholds = cfg.Thresholds
	run.Fallback = cfg.Fallback()
	if mode == model.ModeAssign {
		run.DryRun = cfg.DryRun
		run.ReassignRequested = cfg.ReassignLowConfidence
	}

	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	records, err := pagesource.NewLoader(pagesource.WithLogger(logger)).Load(cfg.PagesPath)
	if err != nil {
		return err
	}
	vocab := vocabulary(cfg.Vocabulary)
	logger.Debug("vocabulary ready", "stopwords", vocab.StopwordCount())
	builder := signature.NewBuilder(
		signature.WithVocabulary(vocab),
		signature.WithLogger(logger),
	)
	pages, excluded := builder.BuildPages(records)
	run.PagesLoaded = len(records)
	run.PagesExcluded = excluded

	tax, err := taxonomy.Load(cfg.TaxonomyPath)
	if err != nil {
		return err
	}
	original := tax.Clone()
	if run.TaxonomyDigest, err = taxonomy.Digest(tax); err != nil {
		return err
	}
	if db != nil {
		noteExternalChanges(ctx, db, run.TaxonomyDigest, logger)
	}

	baseline, err := loadBaseline(ctx, cfg, db)
	if err != nil {
		return err
	}

	e := engine.New(builder, cfg.Thresholds, cfg.Fallback(),
		engine.WithLogger(logger),
		engine.WithWorkers(cfg.Workers),
	)
	state := pipeline.NewState(run, tax, pages, baseline)
	runErr := pipeline.DefaultPipeline(mode, e, cfg, pipeline.WithLogger(logger)).Execute(ctx, state)
	run.Finish(runErr)
	logger.Debug("run finished", "mode", string(mode), "duration", run.Duration())

	if err := outputReport(cfg, run, stdout); err != nil {
		logger.Error("report failed", "error", err)
	}

	if db != nil && !cfg.NoHistory {
		// The snapshot is the taxonomy as it stands on disk after the run.
		snapshot := original
		if run.Written {
			snapshot = state.Taxonomy
		}
		id, err := db.SaveRun(context.WithoutCancel(ctx), run, snapshot)
		if err != nil {
			logger.Error("failed to save run", "error", err)
		} else {
			logger.Info("run recorded", "id", id, "run", run.ID)
		}
	}

	return runErr
}

// vocabulary returns the tokenizer tables adjusted by v.
func vocabulary(v config.VocabularyConfig) *tokenize.Vocabulary {
	vocab := tokenize.Default()
	if v.IsZero() {
		return vocab
	}
	return vocab.With(v.ExtraStopwords, v.KeepWords, v.NumberWords)
}

// openHistory opens the run-history database when the run is recorded or a
// stored baseline is needed. It returns nil when neither applies.
func openHistory(cfg *config.Config) (*database.RunDB, error) {
	if cfg.NoHistory && cfg.BaselineRun == 0 {
		return nil, nil //nolint:nilnil // no database is a valid outcome
	}

	dir := cfg.HistoryDir()
	opts := database.DefaultOptions()
	if cfg.NoHistory {
		// Only reading a baseline; never create an empty database for it.
		opts.CreateIfNotExists = false
	}

	db, err := database.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}

// noteExternalChanges logs when the taxonomy differs from the one the last
// recorded run left behind.
func noteExternalChanges(ctx context.Context, db *database.RunDB, digest string, logger *slog.Logger) {
	last, err := db.LatestDigest(ctx)
	if err != nil {
		logger.Debug("could not read last taxonomy digest", "error", err)
		return
	}
	if last != "" && last != digest {
		logger.Info("taxonomy changed since the last recorded run",
			"previous", last,
			"current", digest,
		)
	}
}

// loadBaseline returns the baseline slugs from a stored run or a file.
// Both empty yields an empty set.
func loadBaseline(ctx context.Context, cfg *config.Config, db *database.RunDB) (map[string]struct{}, error) {
	if !cfg.HasBaseline() {
		return map[string]struct{}{}, nil
	}
	if cfg.BaselineRun == 0 {
		return taxonomy.LoadBaselineSlugs(cfg.BaselineTaxonomy)
	}
	if db == nil {
		return nil, fmt.Errorf("baseline run %d: %w", cfg.BaselineRun, database.ErrNotFound)
	}
	snapshot, err := db.GetSnapshot(ctx, cfg.BaselineRun)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline run: %w", err)
	}
	return taxonomy.CollectSlugs(snapshot), nil
}

// outputReport writes the run report in the requested format to the report
// file, or to stdout when none is set.
func outputReport(cfg *config.Config, run *model.Run, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	_, err := newReportWriter(cfg.JSONReport, cfg.MarkdownReport, output).Write(run)
	return err
}

// newReportWriter picks the report format.
func newReportWriter(jsonReport, markdownReport bool, output io.Writer) report.Writer {
	switch {
	case jsonReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case markdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output)
	}
}
