package main

import (
	"github.com/spf13/cobra"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report placements that fall below the confidence thresholds",
		Long: `Audit re-scores every placed page as if it were not placed and lists
the placements whose best subhub differs from the current one and does not
clear the thresholds. The taxonomy is never modified.

Placements in the fallback subhub are not audited.

Examples:
  # List low-confidence placements
  subhubs audit

  # Save them as a JSON array for review
  subhubs audit --report-output low-confidence.json

  # Only audit placements made since run 12, using 4 workers
  subhubs audit --baseline-run 12 --workers 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runModeCmd(cmd, model.ModeAudit)
		},
	}

	addRunFlags(cmd)
	cmd.Flags().StringP("report-output", "r", "",
		"Write the low-confidence entries as a JSON array to this file")

	return cmd
}
