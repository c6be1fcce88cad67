// Package storage persists the category and task collections as JSON
// records in a SQLite-backed key-value table. Reads degrade to empty
// collections and writes are fire-and-forget: failures are logged, never
// returned, so the application stays usable with in-memory state.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Record keys. Each holds a JSON-encoded array.
const (
	keyCategories = "categories"
	keyTasks      = "tasks"
)

type Adapter struct {
	db     *sql.DB
	logger *log.Logger
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string, logger *log.Logger) (*Adapter, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	a := &Adapter{db: db, logger: logger}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return a, nil
}

// NewMemory creates an in-memory adapter for testing.
func NewMemory(logger *log.Logger) (*Adapter, error) {
	return New(":memory:", logger)
}

func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) migrate() error {
	var version int
	err := a.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := a.migrateV1(); err != nil {
			return err
		}
	}

	_, err = a.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (a *Adapter) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS records (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := a.db.Exec(ddl)
	return err
}

// readRecord returns the raw JSON stored under key. A missing record or a
// read error both come back as (nil, false); errors are logged.
func (a *Adapter) readRecord(key string) ([]byte, bool) {
	var value string
	err := a.db.QueryRow(`SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		a.logger.Error("read record", "key", key, "err", err)
		return nil, false
	}
	return []byte(value), true
}

// writeRecord overwrites the record under key. Failures are logged and
// swallowed; durable state stays behind memory until the next write lands.
func (a *Adapter) writeRecord(key string, data []byte) {
	_, err := a.db.Exec(
		`INSERT INTO records (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(data),
	)
	if err != nil {
		a.logger.Error("write record", "key", key, "err", err)
	}
}

// DefaultDBPath returns ~/.config/taskdeck/taskdeck.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "taskdeck", "taskdeck.db"), nil
}
