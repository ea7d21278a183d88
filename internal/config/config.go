// Package config loads the gapfill configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/example/gapfill/internal/core/calendar"
	"github.com/example/gapfill/internal/core/ticket"
	"github.com/example/gapfill/internal/core/walk"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "project.toml"

// Environment variables that override the Jira credentials.
const (
	EnvAPIUser  = "API_USER"
	EnvAPIToken = "API_TOKEN"
)

// JiraConfig holds the ledger connection settings.
type JiraConfig struct {
	Server  string `mapstructure:"server" toml:"server"`
	APIUser string `mapstructure:"api_user" toml:"api_user"`
	APIKey  string `mapstructure:"api_key" toml:"api_key"`
}

// Config represents the gapfill configuration file.
// A Config is not modified after Load.
type Config struct {
	TicketPattern  string             `mapstructure:"ticket_pattern" toml:"ticket_pattern"`
	Repositories   []string           `mapstructure:"repositories" toml:"repositories"`
	Author         string             `mapstructure:"author" toml:"author,omitempty"`
	SkipDays       []string           `mapstructure:"skip_days" toml:"skip_days"`
	HintScope      string             `mapstructure:"hint_scope" toml:"hint_scope"`
	DefaultComment string             `mapstructure:"default_comment" toml:"default_comment"`
	FetchWorkers   int                `mapstructure:"fetch_workers" toml:"fetch_workers"`
	Journal        string             `mapstructure:"journal" toml:"journal,omitempty"`
	Jira           JiraConfig         `mapstructure:"jira" toml:"jira"`
	Schedule       map[string]float64 `mapstructure:"schedule" toml:"schedule,omitempty"`
}

// Settings are the parsed forms of the configuration values the core needs.
type Settings struct {
	Pattern   *regexp.Regexp
	Calendar  calendar.Calendar
	HintScope walk.HintScope
}

// Load reads the TOML config file at path. API_USER and API_TOKEN override
// the Jira credentials from the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetDefault("hint_scope", string(walk.HintFirstDayOnly))
	v.SetDefault("default_comment", "Development")
	v.SetDefault("fetch_workers", 1)

	if err := v.BindEnv("jira.api_user", EnvAPIUser); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", EnvAPIUser, err)
	}
	if err := v.BindEnv("jira.api_key", EnvAPIToken); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", EnvAPIToken, err)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Parse validates the configuration and returns the parsed settings.
// Every problem is reported at once.
func (c *Config) Parse() (*Settings, error) {
	var errs []error

	pattern, err := ticket.Compile(c.TicketPattern)
	if err != nil {
		errs = append(errs, fmt.Errorf("ticket_pattern: %w", err))
	}

	vacations, err := calendar.ParseVacations(c.SkipDays)
	if err != nil {
		errs = append(errs, fmt.Errorf("skip_days: %w", err))
	}

	schedule := calendar.DefaultSchedule()
	if len(c.Schedule) > 0 {
		if schedule, err = calendar.ParseSchedule(c.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("schedule: %w", err))
		}
	}

	scope, err := walk.ParseHintScope(c.HintScope)
	if err != nil {
		errs = append(errs, fmt.Errorf("hint_scope: %w", err))
	}

	if len(c.Repositories) == 0 {
		errs = append(errs, errors.New("repositories: at least one repository is required"))
	}
	if c.FetchWorkers < 0 {
		errs = append(errs, fmt.Errorf("fetch_workers: must not be negative, got %d", c.FetchWorkers))
	}
	if c.Jira.Server == "" {
		errs = append(errs, errors.New("jira.server: required"))
	}
	if c.Jira.APIKey == "" {
		errs = append(errs, fmt.Errorf("jira.api_key: required (or set %s)", EnvAPIToken))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return &Settings{
		Pattern:   pattern,
		Calendar:  calendar.New(schedule, vacations),
		HintScope: scope,
	}, nil
}

// Validate reports whether the configuration can drive a run.
func (c *Config) Validate() error {
	_, err := c.Parse()
	return err
}

// Starter returns the configuration written by `gapfill init`.
func Starter() *Config {
	return &Config{
		TicketPattern:  `[A-Z][A-Z0-9]+-[0-9]+`,
		Repositories:   []string{"~/src/project"},
		SkipDays:       []string{},
		HintScope:      string(walk.HintFirstDayOnly),
		DefaultComment: "Development",
		FetchWorkers:   1,
		Jira: JiraConfig{
			Server:  "https://example.atlassian.net",
			APIUser: "me@example.com",
		},
		Schedule: map[string]float64{
			"monday":    8,
			"tuesday":   8,
			"wednesday": 8,
			"thursday":  8,
			"friday":    8,
		},
	}
}

// WriteStarter writes the starter configuration to path. An existing file
// is only replaced when force is set.
func WriteStarter(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(Starter()); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
