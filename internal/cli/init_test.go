package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gapfill/internal/config"
)

func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "gapfill", SilenceUsage: true, SilenceErrors: true}
	AddGlobalFlags(root)
	root.AddCommand(InitCmd(), FillCmd(), ReportCmd(), JournalCmd())
	return root
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.toml")

	var out bytes.Buffer
	root := newTestRoot()
	root.SetOut(&out)
	root.SetArgs([]string{"init", "--config", path})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Starter().TicketPattern, cfg.TicketPattern)

	root = newTestRoot()
	root.SetArgs([]string{"init", "--config", path})
	assert.Error(t, root.Execute(), "existing file without --force")

	root = newTestRoot()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"init", "--config", path, "--force"})
	assert.NoError(t, root.Execute())
}

func TestFillCmd_BadToday(t *testing.T) {
	root := newTestRoot()
	root.SetArgs([]string{"fill", "--today", "banana", "--config", filepath.Join(t.TempDir(), "missing.toml")})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "banana")
}
