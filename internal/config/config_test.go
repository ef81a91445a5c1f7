package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid sqlite backend config",
			config: Config{
				DataBackend:  "sqlite",
				SQLiteDBPath: "./test.db",
				LogLevel:     "info",
			},
			wantErr: false,
		},
		{
			name: "valid memory backend config",
			config: Config{
				DataBackend: "memory",
				LogLevel:    "debug",
			},
			wantErr: false,
		},
		{
			name: "invalid data backend",
			config: Config{
				DataBackend: "invalid",
				LogLevel:    "info",
			},
			wantErr:     true,
			errorString: "invalid data backend 'invalid': must be one of [memory sqlite]",
		},
		{
			name: "sqlite backend missing database path",
			config: Config{
				DataBackend:  "sqlite",
				SQLiteDBPath: "",
				LogLevel:     "info",
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name: "invalid log level",
			config: Config{
				DataBackend:  "sqlite",
				SQLiteDBPath: "./test.db",
				LogLevel:     "loud",
			},
			wantErr:     true,
			errorString: "invalid log level 'loud': must be one of [debug info warn error]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("expected error containing %q, got %q", tt.errorString, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestConfig_ValidateCreatesDBDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(dir, "kharcha.db"),
		LogLevel:     "info",
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected directory created, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Clear any ambient overrides before checking defaults.
	for _, key := range []string{"DATA_BACKEND", "SQLITE_DB_PATH", "LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.DataBackend != "sqlite" {
		t.Fatalf("expected default backend sqlite, got %q", cfg.DataBackend)
	}
	if cfg.SQLiteDBPath != "./data/kharcha.db" {
		t.Fatalf("unexpected default db path %q", cfg.SQLiteDBPath)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected default log level %q", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.DataBackend != "memory" {
		t.Fatalf("expected memory backend, got %q", cfg.DataBackend)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug level, got %q", cfg.LogLevel)
	}
}
