// Package storage persists application state in a SQLite-backed key-value
// table. The full transaction list lives under one key as a JSON array;
// the theme preference under another. The in-memory repository remains the
// owner of the data; this store is only its durable mirror.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

const (
	keyTransactions = "transactions"
	keyTheme        = "theme"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at dbPath and brings
// the schema up to date.
func Open(dbPath string) (*Store, error) {
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

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// LoadTransactions reads the persisted transaction list. A missing key is
// an empty list, not an error.
func (s *Store) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	raw, ok, err := s.get(ctx, keyTransactions)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var txns []core.Transaction
	if err := json.Unmarshal(raw, &txns); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return txns, nil
}

// SaveTransactions writes the full list under the transactions key.
func (s *Store) SaveTransactions(ctx context.Context, txns []core.Transaction) error {
	if txns == nil {
		txns = []core.Transaction{}
	}
	raw, err := json.Marshal(txns)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := s.put(ctx, keyTransactions, raw); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	slog.DebugContext(ctx, "Transactions persisted", "count", len(txns), "bytes", len(raw))
	return nil
}

// Theme returns the stored theme preference, defaulting to light.
func (s *Store) Theme(ctx context.Context) (string, error) {
	raw, ok, err := s.get(ctx, keyTheme)
	if err != nil {
		return ThemeLight, fmt.Errorf("load theme: %w", err)
	}
	theme := string(raw)
	if !ok || (theme != ThemeLight && theme != ThemeDark) {
		return ThemeLight, nil
	}
	return theme, nil
}

// SetTheme stores the theme preference; only light and dark are accepted.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	if err := s.put(ctx, keyTheme, []byte(theme)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
