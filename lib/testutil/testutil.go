package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// SqliteFixture creates a sqlite database file named name in a temporary
// directory, runs the statements on it and returns its path. The database is
// closed before returning so the file can be opened by the code under test.
func SqliteFixture(t testing.TB, name string, statements ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for _, stmt := range statements {
		_, err = db.Exec(stmt)
		if err != nil {
			t.Fatalf("fixture statement %q: %v", stmt, err)
		}
	}
	return path
}
