package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
)

// AuditListLimit is the number of low-confidence entries printed inline.
const AuditListLimit = 50

// SimpleWriter outputs the plain-text run log shown in the terminal.
// The wording matches what the content team's scripts grep for, so the
// messages are kept stable.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the run log.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	switch run.Mode {
	case model.ModeAudit:
		w.writeAudit(&sb, run)
	default:
		w.writeAssign(&sb, run)
	}

	if run.ErrorMessage != "" {
		fmt.Fprintf(&sb, "Run failed: %s\n", run.ErrorMessage)
	}
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeAudit(sb *strings.Builder, run *model.Run) {
	if len(run.LowConfidence) == 0 {
		sb.WriteString("No low-confidence assignments detected.\n")
		return
	}

	fmt.Fprintf(sb, "Detected %d low-confidence assignments:\n", len(run.LowConfidence))
	shown := run.LowConfidence
	if len(shown) > AuditListLimit {
		shown = shown[:AuditListLimit]
	}
	for _, entry := range shown {
		fmt.Fprintf(sb, "  - %s\n", FormatLowConfidence(entry))
	}
	if rest := len(run.LowConfidence) - len(shown); rest > 0 {
		fmt.Fprintf(sb, "  ... and %d more\n", rest)
	}
	if run.ReportOutput != "" {
		fmt.Fprintf(sb, "Wrote low-confidence report to %s\n", run.ReportOutput)
	}
}

func (w *SimpleWriter) writeAssign(sb *strings.Builder, run *model.Run) {
	if run.ReassignRequested {
		if len(run.LowConfidence) > 0 {
			fmt.Fprintf(sb, "Identified %d existing assignments below confidence thresholds; they will be reassigned.\n",
				len(run.LowConfidence))
		} else {
			sb.WriteString("No low-confidence assignments found; nothing to reassign.\n")
		}
	}

	if len(run.Missing) == 0 {
		if run.ErrorMessage == "" {
			sb.WriteString("All generated flashcard pages already belong to a subhub.\n")
		}
		return
	}

	writeAssignmentSummary(sb, model.NewSummary(run))

	switch {
	case run.DryRun:
		sb.WriteString("Dry run enabled; taxonomy file was not modified.\n")
	case run.Written:
		fmt.Fprintf(sb, "Wrote %d new assignments to %s.\n", run.Updates, run.TaxonomyPath)
	case run.ErrorMessage == "":
		sb.WriteString("Assignments matched existing taxonomy; no filesystem changes made.\n")
	}
}

// WriteSummary outputs the counts of a run.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Run %s (%s) at %s\n", summary.RunID, summary.Mode, summary.StartedAt.Format("2006-01-02 15:04:05 MST"))
	if summary.Mode == model.ModeAudit {
		fmt.Fprintf(&sb, "  Low-confidence placements: %d\n", summary.LowConfidence)
	} else {
		writeAssignmentSummary(&sb, summary)
		for _, o := range model.Outcomes() {
			fmt.Fprintf(&sb, "  %s: %d\n", o.Label(), summary.Count(o))
		}
		if summary.Reassigned > 0 {
			fmt.Fprintf(&sb, "  Reassigned: %d\n", summary.Reassigned)
		}
		fmt.Fprintf(&sb, "  Updates: %d (written: %t, dry run: %t)\n", summary.Updates, summary.Written, summary.DryRun)
	}
	if summary.Error != "" {
		fmt.Fprintf(&sb, "  Error: %s\n", summary.Error)
	}
	return io.WriteString(w.output, sb.String())
}

// writeAssignmentSummary prints the assignment count, score range,
// fallback count and a preview of placements worth reviewing.
func writeAssignmentSummary(sb *strings.Builder, summary *model.Summary) {
	if !summary.HasAssignments() {
		sb.WriteString("No assignments generated.\n")
		return
	}

	fmt.Fprintf(sb, "Prepared %d taxonomy assignments.\n", summary.Assigned)
	fmt.Fprintf(sb, "  Score range: %.4f → %.4f\n", summary.MinScore, summary.MaxScore)
	if summary.FallbackCount > 0 {
		fmt.Fprintf(sb, "  Fallback assignments: %d\n", summary.FallbackCount)
	}
	if len(summary.Review) > 0 {
		preview := make([]string, 0, model.ReviewPreviewSize)
		for _, r := range summary.ReviewPreview() {
			preview = append(preview, fmt.Sprintf("%s→%s (%.3f)", r.Slug, r.Target.Subhub, r.Score))
		}
		fmt.Fprintf(sb, "  Review recommended for %d assignments (examples: %s)\n",
			len(summary.Review), strings.Join(preview, ", "))
	}
}

// FormatLowConfidence renders one audit entry on a single line.
func FormatLowConfidence(e model.LowConfidenceEntry) string {
	return fmt.Sprintf("%s: %s → %s | score=%.3f gap=%.3f | best candidate %s → %s | %s",
		e.Slug, e.CurrentHub, e.CurrentSubhub, e.Score, e.Gap, e.BestHub, e.BestSubhub, e.Reason)
}
