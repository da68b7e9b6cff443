package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rpattn/csvgate/internal/config"
	"github.com/rpattn/csvgate/internal/db"
	"github.com/rpattn/csvgate/internal/fsdir"
	"github.com/rpattn/csvgate/internal/gatekeeper"
	"github.com/rpattn/csvgate/internal/ingestion"
	"github.com/rpattn/csvgate/internal/logging"
	"github.com/rpattn/csvgate/internal/pipeline"
	"github.com/rpattn/csvgate/internal/report"
	"github.com/rpattn/csvgate/internal/repository"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	store   *fsdir.Store
	conn    *db.Connection
	logRepo repository.IngestionLogRepository
}

// newApp loads configuration and builds the logger. The database is opened
// when it is enabled in config or when requireDB is set.
func newApp(ctx context.Context, opts *rootOptions, logOut io.Writer, requireDB bool) (*app, error) {
	cfg, err := config.Load(opts.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logOut == nil {
		logOut = os.Stderr
	}
	log, err := logging.New(logOut, logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Debug:  opts.debug,
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, store: fsdir.NewStore(log)}

	if cfg.DatabaseEnabled || requireDB {
		conn, err := db.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.conn = conn
		a.logRepo = repository.NewIngestionLogRepository(conn.Pool)
		log.Debug("db.connected", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)
	}
	return a, nil
}

func (a *app) close() {
	if a.conn != nil {
		a.conn.Close()
	}
}

func (a *app) gatekeeper() *gatekeeper.Gatekeeper {
	return gatekeeper.New(gatekeeper.Config{
		InboxPath:     a.cfg.Paths.Inbox,
		ProcessedPath: a.cfg.Paths.Processed,
		InvalidPath:   a.cfg.Paths.Invalid,
	}, a.store, a.store, a.log)
}

func (a *app) validator() *ingestion.Service {
	opts := []ingestion.Option{ingestion.WithOutputDirectory(a.cfg.Paths.Output)}
	if a.logRepo != nil {
		opts = append(opts, ingestion.WithIngestionLog(a.logRepo))
	}
	return ingestion.NewService(a.log, opts...)
}

// runner builds a pipeline runner around gate. Pass a no-op gate for
// validation-only runs.
func (a *app) runner(gate pipeline.Gatekeeper, validator pipeline.Validator) *pipeline.Runner {
	var opts []pipeline.Option
	if a.logRepo != nil {
		opts = append(opts, pipeline.WithIngestionLog(a.logRepo))
	}
	if a.cfg.ReportEnabled {
		opts = append(opts, pipeline.WithReport(report.Write))
	}
	paths := a.cfg.Paths
	return pipeline.NewRunner(pipeline.Config{
		Directories: []string{paths.Inbox, paths.Processed, paths.Invalid, paths.Output},
		OutputDir:   paths.Output,
	}, gate, validator, a.store, a.log, opts...)
}
