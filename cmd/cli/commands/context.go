package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/accreditation-draw/internal/config"
	"github.com/jakechorley/accreditation-draw/pkg/clients/csvclient"
	"github.com/jakechorley/accreditation-draw/pkg/clients/sheetsclient"
	"github.com/jakechorley/accreditation-draw/pkg/core/services"
	"github.com/jakechorley/accreditation-draw/pkg/db"
	"github.com/jakechorley/accreditation-draw/pkg/postgres"
)

// DefaultOutputDir receives the CSV tables when no other sink is configured
const DefaultOutputDir = "."

// AppContext holds the application dependencies shared across all commands.
// The Sheets client and the database are created on first use and kept for the session.
type AppContext struct {
	Env    string
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context

	sheetsClient *sheetsclient.Client
	database     *postgres.DB
}

// SheetsClient returns the authenticated Sheets client, running the OAuth flow on first use
func (a *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if a.sheetsClient != nil {
		return a.sheetsClient, nil
	}

	a.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	a.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(a.Ctx, oauthCfg, a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	a.Logger.Debug("Sheets client initialized successfully")

	a.sheetsClient = client
	return client, nil
}

// DrawStore returns the draw history store, or nil if no database is configured
func (a *AppContext) DrawStore() (db.DrawStore, error) {
	if a.database != nil {
		return a.database, nil
	}
	if a.Cfg.DatabaseURL == "" {
		return nil, nil
	}

	a.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(a.Ctx, a.Cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(a.Ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	a.Logger.Debug("Database initialized successfully")

	a.database = database
	return database, nil
}

// ApplicantSource returns the roster reader and the configuration it should read with.
// A non-empty csvPath overrides the configured source.
func (a *AppContext) ApplicantSource(csvPath string) (services.ApplicantLister, *config.Config, error) {
	cfg := a.Cfg
	if csvPath != "" {
		override := *a.Cfg
		override.Roster.Source = config.SourceCSV
		override.Roster.CSVPath = csvPath
		cfg = &override
	}

	if cfg.Roster.Source == config.SourceCSV {
		return csvclient.NewClient(""), cfg, nil
	}

	client, err := a.SheetsClient()
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// TableSinks returns every configured result sink. outDir overrides the configured CSV directory.
func (a *AppContext) TableSinks(outDir string) ([]services.TableWriter, error) {
	if outDir == "" {
		outDir = a.Cfg.Output.CSVDir
	}

	var sinks []services.TableWriter
	if outDir != "" {
		sinks = append(sinks, csvclient.NewClient(outDir))
	}

	if a.Cfg.Output.SheetID != "" {
		client, err := a.SheetsClient()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sheetsclient.NewTableSink(client, a.Cfg.Output.SheetID))
	}

	if len(sinks) == 0 {
		sinks = append(sinks, csvclient.NewClient(DefaultOutputDir))
	}

	return sinks, nil
}

// Close releases the database connection, if one was opened
func (a *AppContext) Close() {
	if a.database != nil {
		a.database.Close()
		a.database = nil
	}
}
