package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	_, err = db.Exec(`CREATE TABLE test_table (id INTEGER PRIMARY KEY, value TEXT)`)
	if err != nil {
		t.Fatalf("Failed to create test table: %v", err)
	}

	return db
}

func TestRunInTransaction_NewTransaction(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	err := RunInTransaction(ctx, db, func(txCtx context.Context) error {
		if _, ok := GetTx(txCtx); !ok {
			t.Error("Expected transaction in context")
		}

		executor := GetExecutor(txCtx, db)
		_, err := executor.ExecContext(txCtx, "INSERT INTO test_table (value) VALUES (?)", "test")
		return err
	})

	if err != nil {
		t.Fatalf("RunInTransaction failed: %v", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM test_table").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}

	if count != 1 {
		t.Errorf("Expected 1 row, got %d", count)
	}
}

func TestRunInTransaction_Rollback(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	wantErr := errors.New("boom")
	err := RunInTransaction(context.Background(), db, func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, db)
		if _, err := executor.ExecContext(txCtx, "INSERT INTO test_table (value) VALUES (?)", "doomed"); err != nil {
			return err
		}
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Fatalf("RunInTransaction error = %v, want %v", err, wantErr)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM test_table").Scan(&count); err != nil {
		t.Fatalf("Failed to query: %v", err)
	}

	if count != 0 {
		t.Errorf("Expected rollback to leave 0 rows, got %d", count)
	}
}

func TestRunInTransaction_ReusesOuterTransaction(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := RunInTransaction(context.Background(), db, func(outerCtx context.Context) error {
		outerTx, _ := GetTx(outerCtx)

		return RunInTransaction(outerCtx, db, func(innerCtx context.Context) error {
			innerTx, ok := GetTx(innerCtx)
			if !ok {
				t.Error("Expected transaction in nested context")
			}
			if innerTx != outerTx {
				t.Error("Nested call should reuse the outer transaction")
			}
			return nil
		})
	})

	if err != nil {
		t.Fatalf("RunInTransaction failed: %v", err)
	}
}

func TestGetExecutor_NoTransaction(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	executor := GetExecutor(context.Background(), db)
	if executor != any(db) {
		t.Error("Expected base connection when no transaction is in context")
	}
}
