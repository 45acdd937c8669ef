package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Led-adel-pilot/CogniGuide/internal/config"
)

// addRunFlags registers the flags shared by assign and audit.
func addRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	// Input flags
	flags.StringP("pages", "p", config.DefaultPagesPath,
		"Page records (JSON array or generated TS/JS module)")
	flags.StringP("taxonomy", "t", config.DefaultTaxonomyPath,
		"Taxonomy JSON file")
	flags.String("baseline-taxonomy", "",
		"Baseline taxonomy; the audit only looks at slugs placed since then")
	flags.Int64("baseline-run", 0,
		"Use the taxonomy stored with this history run as the baseline")

	// Threshold flags
	defaults := config.NewConfig().Thresholds
	flags.Float64("min-confidence", defaults.MinConfidence,
		"Score below which a placement is low confidence")
	flags.Float64("ambiguous-confidence", defaults.AmbiguousConfidence,
		"Score below which a small gap to the runner-up is flagged")
	flags.Float64("gap-threshold", defaults.GapThreshold,
		"Best minus runner-up score treated as a tie")
	flags.Float64("fallback-min-confidence", defaults.FallbackMinConfidence,
		"Score below which a page goes to the fallback subhub")
	flags.String("fallback-hub", config.DefaultFallbackHub, "Hub of the fallback subhub")
	flags.String("fallback-subhub", config.DefaultFallbackSubhub, "Fallback subhub")

	flags.IntP("workers", "w", config.DefaultWorkers,
		"Number of pages scored in parallel during an audit")

	// Report flags
	flags.BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	flags.BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	flags.StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	flags.Bool("no-history", false, "Do not record the run in the history database")
	flags.String("db-dir", "", "Directory of the history database (default: XDG data directory)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	return getBoolFlag(cmd, "verbose")
}

// getBoolFlag retrieves a boolean flag from the command or the root's
// persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// getConfigFlag retrieves the config file flag from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// buildConfig creates a Config from the defaults, the configuration file
// and the flags the user set, in that order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	configPath := getConfigFlag(cmd)
	cfg.ConfigFilePath = configPath

	// An explicitly named file must exist; the default locations are optional.
	if path := config.FindConfigFile(configPath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
	} else if configPath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies every flag the user set onto cfg.
// Flags a command does not define are never marked as changed.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	return errors.Join(
		override(flags, "pages", flags.GetString, &cfg.PagesPath),
		override(flags, "taxonomy", flags.GetString, &cfg.TaxonomyPath),
		override(flags, "baseline-taxonomy", flags.GetString, &cfg.BaselineTaxonomy),
		override(flags, "baseline-run", flags.GetInt64, &cfg.BaselineRun),
		override(flags, "min-confidence", flags.GetFloat64, &cfg.Thresholds.MinConfidence),
		override(flags, "ambiguous-confidence", flags.GetFloat64, &cfg.Thresholds.AmbiguousConfidence),
		override(flags, "gap-threshold", flags.GetFloat64, &cfg.Thresholds.GapThreshold),
		override(flags, "fallback-min-confidence", flags.GetFloat64, &cfg.Thresholds.FallbackMinConfidence),
		override(flags, "fallback-hub", flags.GetString, &cfg.FallbackHub),
		override(flags, "fallback-subhub", flags.GetString, &cfg.FallbackSubhub),
		override(flags, "limit", flags.GetInt, &cfg.Limit),
		override(flags, "dry-run", flags.GetBool, &cfg.DryRun),
		override(flags, "reassign-low-confidence", flags.GetBool, &cfg.ReassignLowConfidence),
		override(flags, "report-output", flags.GetString, &cfg.ReportOutput),
		override(flags, "workers", flags.GetInt, &cfg.Workers),
		override(flags, "json", flags.GetBool, &cfg.JSONReport),
		override(flags, "markdown", flags.GetBool, &cfg.MarkdownReport),
		override(flags, "output", flags.GetString, &cfg.ReportFile),
		override(flags, "no-history", flags.GetBool, &cfg.NoHistory),
		override(flags, "db-dir", flags.GetString, &cfg.DBDir),
	)
}

func override[T any](flags *pflag.FlagSet, name string, get func(string) (T, error), dst *T) error {
	if !flags.Changed(name) {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
