package storage

import (
	"context"
	"database/sql"
	"testing"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestInitDB_CreatesTable verifies the kv_entry table exists after InitDB.
func TestInitDB_CreatesTable(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(context.Background(), db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='kv_entry'").Scan(&name)
	if err != nil {
		t.Fatalf("kv_entry table missing: %v", err)
	}
}

// TestInitDB_Idempotent verifies InitDB can run on every start.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	if err := InitDB(ctx, db); err != nil {
		t.Fatalf("first InitDB failed: %v", err)
	}
	if _, err := db.Exec("REPLACE INTO kv_entry (storage_key, value) VALUES ('db', '{}')"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := InitDB(ctx, db); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}

	var value string
	if err := db.QueryRow("SELECT value FROM kv_entry WHERE storage_key = 'db'").Scan(&value); err != nil {
		t.Fatalf("row lost after second InitDB: %v", err)
	}
}

// TestOpenMySQL_InvalidDSN rejects malformed DSNs before dialing.
func TestOpenMySQL_InvalidDSN(t *testing.T) {
	if _, err := OpenMySQL("not a dsn"); err == nil {
		t.Error("OpenMySQL should reject an invalid DSN")
	}
}
