package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Led-adel-pilot/CogniGuide/internal/database"
	"github.com/Led-adel-pilot/CogniGuide/internal/model"
)

// defaultHistoryLimit is the number of runs listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `History lists the assign and audit runs recorded in the history
database, newest first. Runs that stored a taxonomy snapshot can be used as
a baseline with --baseline-run.

Examples:
  # List the last 20 runs
  subhubs history

  # List every run
  subhubs history --limit 0

  # Print the report of run 7
  subhubs history --show 7

  # Print the report of run 7 as JSON
  subhubs history --show 7 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Number of runs to list (0 means all)")
	cmd.Flags().Int64P("show", "s", 0, "Print the stored report of this run")
	cmd.Flags().BoolP("json", "j", false, "Print the stored report as JSON")
	cmd.Flags().BoolP("markdown", "m", false, "Print the stored report as Markdown")
	cmd.Flags().String("db-dir", "", "Directory of the history database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	show, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	out := cmd.OutOrStdout()
	dir := cfg.HistoryDir()
	if _, err := os.Stat(filepath.Join(dir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dir, opts)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if show > 0 {
		run, err := db.GetRun(ctx, show)
		if err != nil {
			return err
		}
		_, err = newReportWriter(cfg.JSONReport, cfg.MarkdownReport, out).Write(run)
		return err
	}

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}
	fmt.Fprintln(out, renderHistory(runs, isTerminal(out)))
	return nil
}

// renderHistory formats runs as a table. Terminals get rounded borders;
// pipes and files get plain ASCII.
func renderHistory(runs []database.RunMetadata, terminal bool) string {
	tw := table.NewWriter()
	if terminal {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	tw.AppendHeader(table.Row{"ID", "Run", "Mode", "Started", "Assigned", "Fallback", "Low conf.", "Updates", "Flags", "Error"})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.ID,
			shortID(r.RunID),
			string(r.Mode),
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.Assigned,
			r.Fallback,
			r.LowConfidence,
			r.Updates,
			runFlags(r),
			r.Error,
		})
	}

	right := text.AlignRight
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: right},
		{Number: 5, Align: right},
		{Number: 6, Align: right},
		{Number: 7, Align: right},
		{Number: 8, Align: right},
		{Number: 10, WidthMax: 40},
	})
	return tw.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// runFlags summarises the booleans of a run in one column.
func runFlags(r database.RunMetadata) string {
	var flags []string
	if r.DryRun && r.Mode == model.ModeAssign {
		flags = append(flags, "dry-run")
	}
	if r.HasSnapshot {
		flags = append(flags, "snapshot")
	}
	return strings.Join(flags, ",")
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
