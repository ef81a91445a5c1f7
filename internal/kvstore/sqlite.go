package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists key-value pairs in a single SQLite table. It is the
// durable default backend.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("set key %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) GetString(ctx context.Context, key string) (string, bool, error) {
	return s.get(ctx, key)
}

func (s *SQLiteStore) SetString(ctx context.Context, key, value string) error {
	return s.set(ctx, key, value)
}

func (s *SQLiteStore) GetBool(ctx context.Context, key string) (bool, bool, error) {
	raw, ok, err := s.get(ctx, key)
	if err != nil || !ok {
		return false, ok, err
	}
	v, err := decodeBool(raw)
	if err != nil {
		return false, false, malformed(key, err)
	}
	return v, true, nil
}

func (s *SQLiteStore) SetBool(ctx context.Context, key string, value bool) error {
	return s.set(ctx, key, encodeBool(value))
}

func (s *SQLiteStore) GetFloat(ctx context.Context, key string) (float64, bool, error) {
	raw, ok, err := s.get(ctx, key)
	if err != nil || !ok {
		return 0, ok, err
	}
	v, err := decodeFloat(raw)
	if err != nil {
		return 0, false, malformed(key, err)
	}
	return v, true, nil
}

func (s *SQLiteStore) SetFloat(ctx context.Context, key string, value float64) error {
	return s.set(ctx, key, encodeFloat(value))
}

func (s *SQLiteStore) GetStringList(ctx context.Context, key string) ([]string, bool, error) {
	raw, ok, err := s.get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	values, err := decodeStringList(raw)
	if err != nil {
		return nil, false, malformed(key, err)
	}
	return values, true, nil
}

func (s *SQLiteStore) SetStringList(ctx context.Context, key string, values []string) error {
	raw, err := encodeStringList(values)
	if err != nil {
		return fmt.Errorf("encode list for key %s: %w", key, err)
	}
	return s.set(ctx, key, raw)
}

func (s *SQLiteStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
			return fmt.Errorf("delete key %s: %w", key, err)
		}
	}
	slog.DebugContext(ctx, "Deleted keys from store", "count", len(keys))
	return nil
}
