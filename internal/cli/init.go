// Package cli provides common initialization utilities for cmd/kharcha.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"kharcha/internal/config"
	"kharcha/internal/kvstore"
	"kharcha/internal/log"
)

// SetupLogger initializes structured logging at the given level and sets
// it as the process default.
func SetupLogger(level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentCLI,
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: log.ParseLevel(level),
		}),
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the configured key-value backend.
// Returns the store result or exits the process on failure.
func InitStore(logger *log.Logger, cfg *config.Config) *kvstore.StoreResult {
	factory := kvstore.NewFactory(logger.Logger)
	result, err := factory.CreateStore(kvstore.FactoryConfig{
		Type:         kvstore.BackendType(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize store",
			log.FieldError, err.Error(),
			log.FieldBackend, cfg.DataBackend,
		)
		os.Exit(1)
	}
	return result
}
