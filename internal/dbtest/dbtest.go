// Package dbtest provides helpers for testing database code.
package dbtest

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/starquake/quizroster/internal/database"
)

// SetupTestDB creates a temporary SQLite database file for testing and returns its DSN.
// The file is removed when the test finishes.
func SetupTestDB(t *testing.T) string {
	t.Helper()

	tmpDB, err := os.CreateTemp(t.TempDir(), "quizroster-test-*.sqlite")
	if err != nil {
		t.Fatalf("failed to create temp db: %v", err)
	}
	tmpDBPath := tmpDB.Name()
	err = tmpDB.Close()
	if err != nil {
		t.Fatalf("failed to close temp db: %v", err)
	}

	return fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		tmpDBPath,
	)
}

// Open opens an in-memory database connection with migrations applied.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	db := OpenUnmigrated(t)

	database.SetupGoose()
	err := goose.UpContext(t.Context(), db, ".")
	if err != nil {
		t.Fatalf("error running migrations: %v", err)
	}

	return db
}

// OpenUnmigrated opens an in-memory database connection without migrations applied.
// The connection is closed when the test finishes.
func OpenUnmigrated(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("error opening SQLite database: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("error closing SQLite database: %v", err)
		}
	})

	if _, err := db.ExecContext(t.Context(), "PRAGMA foreign_keys = ON;"); err != nil {
		t.Fatalf("error enabling foreign keys: %v", err)
	}

	return db
}
