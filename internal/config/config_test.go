package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gapfill/internal/core/walk"
)

const sampleConfig = `
ticket_pattern = "[A-Z][A-Z0-9]+-[0-9]+"
repositories = ["~/src/api", "/srv/web"]
author = "me@example.com"
skip_days = ["2026-12-24..2026-12-26", "2026-10-12"]
hint_scope = "every_day"
fetch_workers = 4
journal = "~/.gapfill/journal.db"

[jira]
server = "https://example.atlassian.net"
api_user = "file-user@example.com"
api_key = "file-key"

[schedule]
monday = 8
tuesday = 8
wednesday = 4
thursday = 8
friday = 6
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvAPIUser, "")
	t.Setenv(EnvAPIToken, "")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "[A-Z][A-Z0-9]+-[0-9]+", cfg.TicketPattern)
	assert.Equal(t, []string{"~/src/api", "/srv/web"}, cfg.Repositories)
	assert.Equal(t, "me@example.com", cfg.Author)
	assert.Equal(t, "every_day", cfg.HintScope)
	assert.Equal(t, 4, cfg.FetchWorkers)
	assert.Equal(t, "Development", cfg.DefaultComment, "default applies when absent")
	assert.Equal(t, "https://example.atlassian.net", cfg.Jira.Server)
	assert.Equal(t, "file-user@example.com", cfg.Jira.APIUser)
	assert.Equal(t, "file-key", cfg.Jira.APIKey)
	assert.Equal(t, 4.0, cfg.Schedule["wednesday"])
}

func TestLoad_EnvironmentOverridesCredentials(t *testing.T) {
	t.Setenv(EnvAPIUser, "env-user@example.com")
	t.Setenv(EnvAPIToken, "env-token")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-user@example.com", cfg.Jira.APIUser)
	assert.Equal(t, "env-token", cfg.Jira.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	settings, err := cfg.Parse()
	require.NoError(t, err)

	assert.Equal(t, walk.HintEveryDay, settings.HintScope)
	assert.True(t, settings.Pattern.MatchString("PROJ-12"))

	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}
	assert.Equal(t, 0.0, settings.Calendar.ExpectedHours(day("2026-10-12")), "vacation")
	assert.Equal(t, 4.0, settings.Calendar.ExpectedHours(day("2026-10-14")), "wednesday")
	assert.Equal(t, 0.0, settings.Calendar.ExpectedHours(day("2026-12-25")), "vacation range")
	assert.Equal(t, 0.0, settings.Calendar.ExpectedHours(day("2026-10-17")), "saturday")
}

func TestParse_DefaultSchedule(t *testing.T) {
	cfg := Starter()
	cfg.Schedule = nil
	cfg.Jira.APIKey = "key"

	settings, err := cfg.Parse()
	require.NoError(t, err)
	assert.Equal(t, 8.0, settings.Calendar.ExpectedHours(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty pattern", func(c *Config) { c.TicketPattern = "" }, "ticket_pattern"},
		{"invalid pattern", func(c *Config) { c.TicketPattern = "([A-Z" }, "ticket_pattern"},
		{"bad skip day", func(c *Config) { c.SkipDays = []string{"2026-13-01"} }, "skip_days"},
		{"bad weekday", func(c *Config) { c.Schedule = map[string]float64{"funday": 8} }, "schedule"},
		{"bad hint scope", func(c *Config) { c.HintScope = "weekly" }, "hint_scope"},
		{"no repositories", func(c *Config) { c.Repositories = nil }, "repositories"},
		{"negative workers", func(c *Config) { c.FetchWorkers = -1 }, "fetch_workers"},
		{"no server", func(c *Config) { c.Jira.Server = "" }, "jira.server"},
		{"no api key", func(c *Config) { c.Jira.APIKey = "" }, "jira.api_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Starter()
			cfg.Jira.APIKey = "key"
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteStarter(t *testing.T) {
	t.Setenv(EnvAPIToken, "env-token")
	path := filepath.Join(t.TempDir(), "conf", "project.toml")

	require.NoError(t, WriteStarter(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Starter().TicketPattern, cfg.TicketPattern)
	assert.Equal(t, Starter().Repositories, cfg.Repositories)
	assert.NoError(t, cfg.Validate(), "starter config is valid once a token is provided")

	assert.Error(t, WriteStarter(path, false), "refuses to overwrite")
	assert.NoError(t, WriteStarter(path, true))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/src/api")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "src/api"), got)

	got, err = ExpandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}
