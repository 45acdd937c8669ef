package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for subhubs.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subhubs",
		Short: "Assign generated pages to taxonomy subhubs",
		Long: `subhubs places generated flashcard pages into the subhubs of a
hub/subhub taxonomy by lexical similarity, and audits the placements that
already exist.

Pages that match no subhub well enough go to a configurable fallback subhub.
Placements that fall below the confidence thresholds can be reported or
freed and placed again.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .subhubs.yaml in current or home directory)")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON lines")

	cmd.AddCommand(NewAssignCmd())
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the context,
// which stops the run before its next step.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
