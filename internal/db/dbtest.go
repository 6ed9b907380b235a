package db

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jmoiron/sqlx"
)

// MigrationsDir is the repository's migrations directory, resolved from this file.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// OpenTestStore opens a migrated SQLite database in t's temp dir.
func OpenTestStore(t testing.TB) (Store, *sqlx.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "schedules.db")
	conn, err := Open("sqlite3://" + path)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := RunMigrations(conn, MigrationsDir()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return NewStore(conn), conn
}
