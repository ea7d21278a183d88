package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/gapfill/internal/cli"
	"github.com/example/gapfill/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gapfill",
		Short:        "gapfill - fill Jira worklog gaps from git history",
		Version:      version.String(),
		SilenceUsage: true,
		Long: `gapfill compares the commits you made this month with the time you
logged in Jira and proposes, or submits, the worklogs that are missing.`,
	}

	cli.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(cli.FillCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.JournalCmd())
	rootCmd.AddCommand(cli.InitCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	cli.Shutdown()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
