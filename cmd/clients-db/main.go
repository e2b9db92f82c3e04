package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/lmartemyanova/clients-db-manager/internal/directory/adapters/console"
	"github.com/lmartemyanova/clients-db-manager/internal/directory/app"
	"github.com/lmartemyanova/clients-db-manager/internal/directory/repository/postgres"
	"github.com/lmartemyanova/clients-db-manager/internal/platform/config"
	"github.com/lmartemyanova/clients-db-manager/internal/platform/database"
	"github.com/lmartemyanova/clients-db-manager/internal/platform/logger"
)

const serviceName = "clients_db"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger = appLogger.With("service", serviceName, "session_id", uuid.NewString())
	appLogger.Info("Starting session")

	dbPool, err := database.NewDBPool(ctx, cfg.DSN())
	if err != nil {
		appLogger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Database connection pool initialized", "db_name", cfg.DBName)

	schemaRepo := postgres.NewPgSchemaRepository(dbPool, appLogger)
	clientRepo := postgres.NewPgClientRepository(dbPool, appLogger)
	phoneRepo := postgres.NewPgPhoneRepository(dbPool, appLogger)
	application := app.NewApplication(schemaRepo, clientRepo, phoneRepo, appLogger)

	shell := console.NewShell(application, os.Stdin, os.Stdout, appLogger)
	if err := shell.Run(ctx); err != nil {
		appLogger.Error("Shell terminated with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Session finished")
}
