// Package cli provides the initialization shared by the commands.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"financeiro/internal/backend"
	"financeiro/internal/config"
	applog "financeiro/internal/log"
	"financeiro/internal/storage"
)

// SetupLogger builds the process logger for component at the LOG_LEVEL
// found in the environment and installs it as the slog default.
func SetupLogger(component string) *applog.Logger {
	level, err := applog.ParseLevel(os.Getenv("LOG_LEVEL"))
	logger := applog.New(applog.Config{Level: level, Component: component, Output: os.Stdout})
	applog.SetDefault(logger)
	if err != nil {
		logger.Warn("Invalid LOG_LEVEL, using info", applog.FieldError, err)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite opens and migrates the SQLite repository at dbPath.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	logger.Info("SQLite repository ready", "path", dbPath)
	return repo
}

// InitMirror creates the spreadsheet mirror selected by cfg.
// Returns the result or exits the process on failure.
func InitMirror(ctx context.Context, logger *applog.Logger, cfg *config.Config) *backend.Result {
	mcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid mirror configuration", applog.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentSheets).Logger).CreateMirror(ctx, mcfg)
	if err != nil {
		logger.Error("Failed to initialize spreadsheet mirror", applog.FieldError, err, "backend", mcfg.Type)
		os.Exit(1)
	}
	return res
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
	}()
	return ctx, stop
}

// Logger returns the slog logger used by packages that take one.
func Logger(l *applog.Logger) *slog.Logger {
	return l.Logger
}
