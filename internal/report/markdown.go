package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
)

// MarkdownWriter outputs reports in Markdown format, for pull request
// descriptions and review notes.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the full run in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	summary := model.NewSummary(run)
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary, run)
	if run.Mode == model.ModeAssign {
		w.writeOutcomes(md, summary)
		w.writeAssignments(md, run.Assignments)
	}
	w.writeLowConfidence(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs the header and outcome sections only.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary, nil)
	if summary.Mode == model.ModeAssign {
		w.writeOutcomes(md, summary)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary, run *model.Run) {
	md.H1("Subhub Assignment Report")
	md.PlainText("")

	rows := [][]string{
		{"Run", "`" + summary.RunID + "`"},
		{"Mode", string(summary.Mode)},
		{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
	}
	if run != nil {
		rows = append(rows,
			[]string{"Taxonomy", "`" + run.TaxonomyPath + "`"},
			[]string{"Pages loaded", strconv.Itoa(run.PagesLoaded)},
			[]string{"Fallback", run.Fallback.String()},
		)
	}
	rows = append(rows, []string{"Status", statusText(summary)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func statusText(summary *model.Summary) string {
	switch {
	case summary.Error != "":
		return "❌ Error - " + summary.Error
	case summary.DryRun:
		return "🧪 Dry run (taxonomy not modified)"
	case summary.Written:
		return fmt.Sprintf("✅ %d new assignments written", summary.Updates)
	default:
		return "✅ Complete"
	}
}

// writeOutcomes writes the outcome table, the pie chart and an alert.
func (w *MarkdownWriter) writeOutcomes(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Outcomes")
	md.PlainText("")

	rows := make([][]string, 0, len(model.Outcomes())+2)
	for _, o := range model.Outcomes() {
		rows = append(rows, []string{o.Label(), strconv.Itoa(summary.Count(o))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(summary.Assigned) + "**"})
	if summary.HasAssignments() {
		rows = append(rows, []string{"Score range", fmt.Sprintf("%.4f → %.4f", summary.MinScore, summary.MaxScore)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.HasAssignments() {
		w.writePieChart(md, summary)
	}
	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart of the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Assignment Outcomes"),
		piechart.WithShowData(true),
	)
	for _, o := range model.Outcomes() {
		if n := summary.Count(o); n > 0 {
			chart.LabelAndIntValue(o.Label(), uint64(n)) //nolint:gosec // counts are non-negative
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert based on how many placements need review.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case !summary.HasAssignments():
		md.Note("No assignments generated.")
	case summary.FallbackCount > 0:
		md.Warningf("%d page(s) fell back to the catch-all subhub and should be reviewed.", summary.FallbackCount)
	case len(summary.Review) > 0:
		md.Importantf("Review recommended for %d assignment(s).", len(summary.Review))
	default:
		md.Tip("Every assignment cleared the confidence thresholds.")
	}
	md.PlainText("")
}

// writeAssignments writes one table row per placement.
func (w *MarkdownWriter) writeAssignments(md *markdown.Markdown, results []model.AssignmentResult) {
	md.H2("Assignments")
	md.PlainText("")

	if len(results) == 0 {
		md.PlainText("All generated flashcard pages already belong to a subhub.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		reason := r.Reason
		if reason == "" {
			reason = "-"
		}
		rows[i] = []string{
			"`" + r.Slug + "`",
			r.Target.String(),
			fmt.Sprintf("%.3f", r.Score),
			fmt.Sprintf("%.3f", r.Gap),
			r.Outcome.Label(),
			truncateString(reason, 80),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Slug", "Target", "Score", "Gap", "Outcome", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeLowConfidence writes the audit findings.
func (w *MarkdownWriter) writeLowConfidence(md *markdown.Markdown, run *model.Run) {
	if run.Mode == model.ModeAssign && !run.ReassignRequested {
		return
	}

	md.H2("Low-Confidence Placements")
	md.PlainText("")

	if len(run.LowConfidence) == 0 {
		md.Tip("No low-confidence assignments detected.")
		md.PlainText("")
		return
	}

	if run.Mode == model.ModeAssign {
		md.Note(fmt.Sprintf("%d placement(s) were freed and assigned again.", len(run.Reassigned)))
	} else {
		md.Cautionf("%d placement(s) could not be confirmed.", len(run.LowConfidence))
	}
	md.PlainText("")

	rows := make([][]string, len(run.LowConfidence))
	for i, e := range run.LowConfidence {
		rows[i] = []string{
			"`" + e.Slug + "`",
			e.Current().String(),
			e.Best().String(),
			fmt.Sprintf("%.3f", e.Score),
			fmt.Sprintf("%.3f", e.Gap),
			truncateString(e.Reason, 80),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Slug", "Current", "Best candidate", "Score", "Gap", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by subhubs*")
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
