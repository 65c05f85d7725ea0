package commands

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-roster/pkg/db"
	"github.com/jakechorley/shift-roster/pkg/metrics"
	"github.com/jakechorley/shift-roster/pkg/postgres"
	"github.com/jakechorley/shift-roster/pkg/sheetssql"
	"github.com/jakechorley/shift-roster/pkg/utils/logging"
)

// AppContext holds the application dependencies shared across all commands.
// The Sheets client and the run store are created on first use so commands
// that need neither never start the OAuth flow or dial a database.
type AppContext struct {
	Cfg      *config.Config
	Env      string
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  metrics.Collector
	Ctx      context.Context

	sheetsClient *sheetsclient.Client
	database     db.Database
	postgresDB   *postgres.DB
}

// Init sets up logger, config and metrics
func (app *AppContext) Init(ctx context.Context, env, configPath string, verbose bool) error {
	var err error
	app.Ctx = ctx
	app.Env = env

	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Debug("Loading configuration", zap.String("path", configPath))
	if configPath != "" {
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Cfg, err = config.LoadWithEnv(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Registry = prometheus.NewRegistry()
	app.Metrics = metrics.NewPrometheus(app.Registry, "")

	return nil
}

// Sheets returns the Google Sheets client, authenticating on first use
func (app *AppContext) Sheets() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	app.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.Logger.Debug("Sheets client initialized successfully")

	app.sheetsClient = client
	return client, nil
}

// Database returns the configured run store, or nil when none is configured.
// databaseURL takes precedence over databaseSheetID.
func (app *AppContext) Database() (db.Database, error) {
	if app.database != nil {
		return app.database, nil
	}

	switch {
	case app.Cfg.DatabaseURL != "":
		app.Logger.Info("Connecting to postgres")
		pg, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pg.RunMigrations(app.Ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		app.postgresDB = pg
		app.database = pg

	case app.Cfg.DatabaseSheetID != "":
		client, err := app.Sheets()
		if err != nil {
			return nil, err
		}

		schema, err := db.Schema()
		if err != nil {
			return nil, fmt.Errorf("failed to create database schema: %w", err)
		}
		app.Logger.Debug("Database schema created", zap.Int("tables", len(schema.Tables)))

		app.Logger.Info("Connecting to database", zap.String("spreadsheet_id", app.Cfg.DatabaseSheetID))
		ssqlDB, err := sheetssql.NewDB(client, app.Cfg.DatabaseSheetID, schema)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		app.database = db.NewDB(ssqlDB)

	default:
		app.Logger.Debug("No run store configured")
		return nil, nil
	}

	app.Logger.Info("Database initialized successfully")
	return app.database, nil
}

// RequireDatabase is Database for commands that cannot run without a store
func (app *AppContext) RequireDatabase() (db.Database, error) {
	database, err := app.Database()
	if err != nil {
		return nil, err
	}
	if database == nil {
		return nil, fmt.Errorf("no run store configured: set databaseURL or databaseSheetID")
	}
	return database, nil
}

// Close releases the database pool and flushes the logger
func (app *AppContext) Close() {
	if app.postgresDB != nil {
		app.postgresDB.Close()
	}
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
}
