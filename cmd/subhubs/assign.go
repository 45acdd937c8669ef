package main

import (
	"github.com/spf13/cobra"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
)

// NewAssignCmd creates the assign command.
func NewAssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Place generated pages that no subhub holds yet",
		Long: `Assign finds every generated page whose slug is not in the taxonomy,
scores it against every subhub, and appends it to the best match.

Pages are processed in sorted slug order. Each placed page enriches its
subhub, so later pages see the updated signatures. A page that matches
nothing well enough goes to the fallback subhub.

The taxonomy file is rewritten only when something was added.

Examples:
  # Assign every missing page
  subhubs assign

  # Preview the first 20 assignments without writing
  subhubs assign --dry-run --limit 20

  # Free low-confidence placements and place them again with the new pages
  subhubs assign --reassign-low-confidence

  # Only reconsider placements made since a baseline
  subhubs assign --reassign-low-confidence --baseline-taxonomy old.json

  # Write a Markdown report
  subhubs assign --markdown -o reports/assign.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runModeCmd(cmd, model.ModeAssign)
		},
	}

	addRunFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Compute assignments without writing the taxonomy")
	cmd.Flags().IntP("limit", "n", 0, "Only assign the first N missing slugs (0 means all)")
	cmd.Flags().Bool("reassign-low-confidence", false,
		"Remove low-confidence placements and assign them again")

	return cmd
}
