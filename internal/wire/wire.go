// Package wire provides dependency injection for gapfill.
// It creates singleton services with lazy initialization from the
// configuration file.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	cliadapter "github.com/example/gapfill/internal/adapters/cli"
	"github.com/example/gapfill/internal/adapters/git"
	"github.com/example/gapfill/internal/adapters/jira"
	"github.com/example/gapfill/internal/adapters/sqlite"
	"github.com/example/gapfill/internal/app"
	"github.com/example/gapfill/internal/config"
	"github.com/example/gapfill/internal/db"
	"github.com/example/gapfill/internal/ports/primary"
	"github.com/example/gapfill/internal/ports/secondary"
	"github.com/example/gapfill/internal/telemetry"
)

var (
	configPath = config.DefaultPath
	logger     = slog.New(slog.NewTextHandler(os.Stderr, nil))

	reconcileService primary.ReconcileService
	reportService    primary.ReportService
	database         *sql.DB
	initErr          error
	once             sync.Once
)

// Configure sets the config file and logger used when services are first
// built. It has no effect once a service has been requested.
func Configure(path string, l *slog.Logger) {
	if path != "" {
		configPath = path
	}
	if l != nil {
		logger = l
	}
}

// ReconcileService returns the singleton ReconcileService instance.
func ReconcileService() (primary.ReconcileService, error) {
	once.Do(initServices)
	return reconcileService, initErr
}

// ReportService returns the singleton ReportService instance.
func ReportService() (primary.ReportService, error) {
	once.Do(initServices)
	return reportService, initErr
}

// initServices loads the configuration and builds every adapter and service.
// This is called once via sync.Once.
func initServices() {
	cfg, err := config.Load(configPath)
	if err != nil {
		initErr = err
		return
	}
	settings, err := cfg.Parse()
	if err != nil {
		initErr = err
		return
	}

	// Secondary adapters
	ledger := jira.NewLedger(jira.NewClient(cfg.Jira.Server, cfg.Jira.APIUser, cfg.Jira.APIKey))
	commits := git.NewLogReader(cfg.Author)

	var journal secondary.SubmissionJournal
	if cfg.Journal != "" {
		path, err := config.ExpandHome(cfg.Journal)
		if err != nil {
			initErr = err
			return
		}
		database, err = db.Open(path)
		if err != nil {
			initErr = fmt.Errorf("failed to open journal: %w", err)
			return
		}
		journal = sqlite.NewSubmissionRepository(database)
	}

	instruments, err := telemetry.NewInstruments(telemetry.Meter())
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
		instruments = nil
	}

	reconcileService = app.NewReconcileService(app.ReconcileConfig{
		Pattern:        settings.Pattern,
		Calendar:       settings.Calendar,
		Repositories:   cfg.Repositories,
		HintScope:      settings.HintScope,
		DefaultComment: cfg.DefaultComment,
		FetchWorkers:   cfg.FetchWorkers,
	}, commits, ledger, journal, logger, instruments)
	reportService = app.NewReportService(settings.Calendar, ledger, journal)
}

// Close releases the journal database, if one was opened.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// ReconcileAdapter returns a new ReconcileAdapter writing to stdout.
func ReconcileAdapter() (*cliadapter.ReconcileAdapter, error) {
	return ReconcileAdapterWithOutput(os.Stdout)
}

// ReconcileAdapterWithOutput returns a new ReconcileAdapter writing to the given output.
func ReconcileAdapterWithOutput(out io.Writer) (*cliadapter.ReconcileAdapter, error) {
	svc, err := ReconcileService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewReconcileAdapter(svc, out), nil
}

// ReportAdapter returns a new ReportAdapter writing to stdout.
func ReportAdapter() (*cliadapter.ReportAdapter, error) {
	return ReportAdapterWithOutput(os.Stdout)
}

// ReportAdapterWithOutput returns a new ReportAdapter writing to the given output.
func ReportAdapterWithOutput(out io.Writer) (*cliadapter.ReportAdapter, error) {
	svc, err := ReportService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewReportAdapter(svc, out), nil
}
