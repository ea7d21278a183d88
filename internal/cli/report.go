package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/example/gapfill/internal/timeparsing"
	"github.com/example/gapfill/internal/wire"
)

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	var today, user string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show hours logged this month",
		Long: `Show the hours logged in Jira per day and per ticket, from the first of the month up to --today.

Use --user to report on another Jira user by account id or email.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := timeparsing.ParseDay(today, time.Now())
			if err != nil {
				return err
			}

			adapter, err := wire.ReportAdapter()
			if err != nil {
				return err
			}
			return adapter.Month(cmd.Context(), day, user)
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "Reference day (default today)")
	cmd.Flags().StringVarP(&user, "user", "u", "", "Jira account id or email (default the configured user)")

	return cmd
}

// JournalCmd returns the journal command
func JournalCmd() *cobra.Command {
	var (
		runID string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recorded submission attempts",
		Long:  `List the worklog submissions recorded in the local journal, most recent first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ReportAdapter()
			if err != nil {
				return err
			}
			return adapter.Journal(cmd.Context(), runID, limit)
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Only show one run")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to show (0 for all)")

	return cmd
}
