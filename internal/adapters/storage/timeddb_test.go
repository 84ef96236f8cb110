package storage

import (
	"context"
	"testing"
	"time"
)

// TestTimedDB_ObservesStatements verifies every wrapped call reaches the hook.
func TestTimedDB_ObservesStatements(t *testing.T) {
	db := openTestDB(t)
	tdb := NewTimedDB(db, time.Second)

	var ops []string
	tdb.OnStatement(func(op string, _ time.Duration) {
		ops = append(ops, op)
	})

	ctx := context.Background()
	if _, err := tdb.ExecContext(ctx, "CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	rows, err := tdb.QueryContext(ctx, "SELECT id, val FROM test")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	rows.Close()
	var n int
	if err := tdb.QueryRowContext(ctx, "SELECT COUNT(*) FROM test").Scan(&n); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}

	want := []string{"ExecContext", "QueryContext", "QueryRowContext"}
	if len(ops) != len(want) {
		t.Fatalf("observed %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op[%d] = %q, want %q", i, ops[i], want[i])
		}
	}
}

// TestNewTimedDB_DefaultThreshold applies the default for non-positive values.
func TestNewTimedDB_DefaultThreshold(t *testing.T) {
	db := openTestDB(t)
	if tdb := NewTimedDB(db, 0); tdb.threshold != DefaultSlowQuery {
		t.Errorf("threshold = %v, want %v", tdb.threshold, DefaultSlowQuery)
	}
	if tdb := NewTimedDB(db, -time.Second); tdb.threshold != DefaultSlowQuery {
		t.Errorf("threshold = %v, want %v", tdb.threshold, DefaultSlowQuery)
	}
}

// TestStatementStats_FromTimedDB totals statements per operation.
func TestStatementStats_FromTimedDB(t *testing.T) {
	db := openTestDB(t)
	tdb := NewTimedDB(db, time.Second)
	stats := NewStatementStats()
	tdb.OnStatement(stats.Observe)

	ctx := context.Background()
	if err := InitDB(ctx, tdb); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	for i := 0; i < 2; i++ {
		var n int
		if err := tdb.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_entry").Scan(&n); err != nil {
			t.Fatalf("QueryRowContext: %v", err)
		}
	}

	got := stats.Snapshot()
	if len(got) != 2 {
		t.Fatalf("snapshot = %+v, want ExecContext and QueryRowContext", got)
	}
	if got[0].Op != "ExecContext" || got[0].Count < 1 {
		t.Errorf("got[0] = %+v, want ExecContext with at least one call", got[0])
	}
	if got[1].Op != "QueryRowContext" || got[1].Count != 2 {
		t.Errorf("got[1] = %+v, want QueryRowContext x2", got[1])
	}
}

// TestOpStats_Mean divides the total by the count.
func TestOpStats_Mean(t *testing.T) {
	if m := (OpStats{}).Mean(); m != 0 {
		t.Errorf("empty Mean() = %v, want 0", m)
	}
	if m := (OpStats{Count: 4, Total: 8 * time.Millisecond}).Mean(); m != 2*time.Millisecond {
		t.Errorf("Mean() = %v, want 2ms", m)
	}
}
