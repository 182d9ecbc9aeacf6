package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var (
	ErrConfigNotFound = errors.New("storage: server configuration not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS server_configurations (
	id                        INTEGER PRIMARY KEY AUTOINCREMENT,
	server_url                TEXT    NOT NULL DEFAULT '',
	server_name               TEXT    NOT NULL DEFAULT '',
	is_active                 INTEGER NOT NULL DEFAULT 0,
	last_connected            TEXT,
	datafon_url               TEXT    NOT NULL DEFAULT '',
	printer_ip                TEXT    NOT NULL DEFAULT '',
	printer_bluetooth_address TEXT    NOT NULL DEFAULT '',
	printer_bluetooth_name    TEXT    NOT NULL DEFAULT '',
	use_printer_ip            INTEGER NOT NULL DEFAULT 0,
	printer_model             TEXT    NOT NULL DEFAULT '',
	datafono_provider         TEXT    NOT NULL DEFAULT '',
	dataphone_terminal_id     TEXT    NOT NULL DEFAULT ''
);

CREATE UNIQUE INDEX IF NOT EXISTS server_configurations_single_active
	ON server_configurations (is_active) WHERE is_active = 1;

CREATE TABLE IF NOT EXISTS active_transaction (
	id             INTEGER PRIMARY KEY CHECK (id = 1),
	transaction_id TEXT NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS session (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Open открывает (или создает) базу SQLite и применяет схему.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы %s: %w", path, err)
	}
	// SQLite не любит конкурентную запись из нескольких соединений
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка применения схемы: %w", err)
	}
	return db, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректная метка времени %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
