package database

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"signalrelay/internal/platform/config"
)

// Open opens the signal log database. The audit log is append-only and
// written from every dispatch worker concurrently, so WAL mode plus a
// busy timeout keeps concurrent inserts from tripping over each other.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.Path + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
