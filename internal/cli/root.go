// Package cli implements the gapfill commands.
package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/gapfill/internal/config"
	"github.com/example/gapfill/internal/telemetry"
	"github.com/example/gapfill/internal/version"
	"github.com/example/gapfill/internal/wire"
)

var (
	verbose    bool
	configFile string
)

// AddGlobalFlags registers --verbose and --config on root and installs the
// hook that builds the logger and telemetry before any command runs.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Path to the TOML config file")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger := NewLogger(verbose)
		slog.SetDefault(logger)
		wire.Configure(configFile, logger)

		if err := telemetry.Init(cmd.Context(), telemetry.SettingsFromEnv(), version.String()); err != nil {
			logger.Warn("telemetry disabled", "error", err)
		}
		return nil
	}
}

// NewLogger returns a text logger writing to stderr.
func NewLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Shutdown flushes telemetry and closes the journal.
func Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	telemetry.Shutdown(ctx)

	if err := wire.Close(); err != nil {
		slog.Warn("failed to close journal", "error", err)
	}
}
