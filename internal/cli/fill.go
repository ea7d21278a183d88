package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/example/gapfill/internal/ports/primary"
	"github.com/example/gapfill/internal/timeparsing"
	"github.com/example/gapfill/internal/wire"
)

// FillCmd returns the fill command
func FillCmd() *cobra.Command {
	var (
		publish     bool
		today       string
		currentTask string
		hintScope   string
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Propose or submit the worklogs missing this month",
		Long: `Walk backward from --today to the first day of its month, compare each
day's commits with the hours already logged in Jira, and propose worklogs
for the gap.

Nothing is written to Jira unless --publish is given.

Examples:
  gapfill fill
  gapfill fill --today 2026-10-05 --current_task PROJ-12
  gapfill fill --today "last friday" --publish`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := timeparsing.ParseDay(today, time.Now())
			if err != nil {
				return err
			}

			adapter, err := wire.ReconcileAdapter()
			if err != nil {
				return err
			}

			return adapter.Fill(cmd.Context(), primary.ReconcileRequest{
				Today:     day,
				Hint:      currentTask,
				HintScope: hintScope,
				Publish:   publish,
			})
		},
	}

	cmd.Flags().BoolVar(&publish, "publish", false, "Submit the proposed worklogs to Jira")
	cmd.Flags().StringVar(&today, "today", "", "Reference day (YYYY-MM-DD or an expression like \"yesterday\"; default today)")
	cmd.Flags().StringVar(&currentTask, "current_task", "", "Ticket to charge commits that name no ticket")
	cmd.Flags().StringVar(&hintScope, "hint-scope", "", "Days the current task applies to: first_day_only or every_day (default from config)")

	return cmd
}
