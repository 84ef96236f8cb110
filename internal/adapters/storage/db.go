package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// kvSchema works on both SQLite and MySQL: VARCHAR and LONGTEXT map onto
// SQLite's TEXT affinity.
const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv_entry (
		storage_key VARCHAR(191) NOT NULL PRIMARY KEY,
		value LONGTEXT NOT NULL
	)`

// InitDB initializes the key/value schema.
// PRE: db is a valid database connection
// POST: kv_entry table exists
func InitDB(ctx context.Context, db SQLDB) error {
	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// OpenSQLite opens a SQLite database file with WAL, busy timeout and
// foreign keys enabled. Pass ":memory:" for a throwaway database.
// PRE: path is non-empty
// POST: Returns a pinged connection pool
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// :memory: databases are per-connection; keep a single one.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite unreachable: %w", err)
	}
	return db, nil
}

// OpenMySQL opens a MySQL database from a go-sql-driver DSN.
// PRE: dsn parses as a MySQL DSN
// POST: Returns a pinged connection pool
func OpenMySQL(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql unreachable: %w", err)
	}
	return db, nil
}
