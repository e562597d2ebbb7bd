package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/music-catalog/internal/store"
)

func TestCheckSQLite(t *testing.T) {
	result := checkSQLite()

	if result.error {
		t.Errorf("SQLite check failed: %s", result.message)
	}

	if result.message == "" {
		t.Error("expected version information in message")
	}
}

func TestCheckDatabase_NonExistent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nonexistent.db")

	results := checkDatabase(dbPath)

	// Should not error - database will be created by init
	if len(results) != 1 || results[0].error {
		t.Fatalf("non-existent database check should report one non-error result, got %+v", results)
	}

	// doctor must not create the catalog
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Error("expected database file to not be created")
	}
}

func TestCheckDatabase_Existing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := db.InsertSong(&store.Song{Title: "Test Song"}); err != nil {
		t.Fatalf("failed to insert test song: %v", err)
	}
	db.Close()

	results := checkDatabase(dbPath)

	// database, foreign keys, schema
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}
	for _, r := range results {
		if r.error || r.warning {
			t.Errorf("%s check failed: %s", r.name, r.message)
		}
	}
}

func TestCheckDatabase_Empty(t *testing.T) {
	results := checkDatabase("")

	if len(results) != 1 || !results[0].warning {
		t.Error("expected warning for empty database path")
	}
}

func TestCheckDatabase_NotRegular(t *testing.T) {
	results := checkDatabase(t.TempDir())

	if len(results) != 1 || !results[0].error {
		t.Error("expected error when database path is a directory")
	}
}

// execRaw runs statements on a connection without foreign key enforcement
// or migrations, like a tool other than mcat writing to the catalog.
func execRaw(t *testing.T, dbPath, statements string) {
	t.Helper()
	raw, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open raw connection: %v", err)
	}
	defer raw.Close()

	if _, err := raw.Exec(statements); err != nil {
		t.Fatalf("failed to run statements: %v", err)
	}
}

func TestCheckForeignKeys_Dangling(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.Close()

	execRaw(t, dbPath, "INSERT INTO songs_genres (song_id, genre_id) VALUES (41, 42)")

	db, err = store.OpenReadOnly(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer db.Close()

	result := checkForeignKeys(db)

	if !result.error {
		t.Errorf("expected error for dangling link, got %q", result.message)
	}
}

func TestCheckDatabase_OldSchemaUntouched(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")
	execRaw(t, dbPath, `
		CREATE TABLE file (id INTEGER PRIMARY KEY NOT NULL, relative_path TEXT UNIQUE NOT NULL);
		CREATE TABLE song (id INTEGER PRIMARY KEY NOT NULL, title TEXT NOT NULL, source TEXT,
			youtube_id TEXT, thumbnail_url TEXT, file_id INTEGER UNIQUE REFERENCES file(id));
		INSERT INTO song (title) VALUES ('Pending Download');
	`)

	before, err := os.ReadFile(dbPath)
	if err != nil {
		t.Fatalf("failed to read database: %v", err)
	}

	results := checkDatabase(dbPath)

	var schema *checkResult
	for i := range results {
		if results[i].error {
			t.Errorf("%s check failed: %s", results[i].name, results[i].message)
		}
		if results[i].name == "Schema" {
			schema = &results[i]
		}
	}
	if schema == nil || !schema.warning {
		t.Fatalf("expected schema warning for an old catalog, got %+v", results)
	}

	after, err := os.ReadFile(dbPath)
	if err != nil {
		t.Fatalf("failed to read database: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("doctor must not modify the database file")
	}

	raw, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open raw connection: %v", err)
	}
	defer raw.Close()

	var tables int
	if err := raw.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&tables); err != nil {
		t.Fatalf("failed to count tables: %v", err)
	}
	if tables != 2 {
		t.Errorf("expected 2 tables after doctor, got %d", tables)
	}

	var mode string
	if err := raw.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("failed to read journal mode: %v", err)
	}
	if mode == "wal" {
		t.Error("doctor must not switch the journal mode")
	}
}

func TestCheckDatabase_CurrentUnchanged(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := db.InsertSong(&store.Song{Title: "Test Song"}); err != nil {
		t.Fatalf("failed to insert test song: %v", err)
	}
	db.Close()

	before, err := os.ReadFile(dbPath)
	if err != nil {
		t.Fatalf("failed to read database: %v", err)
	}

	checkDatabase(dbPath)

	after, err := os.ReadFile(dbPath)
	if err != nil {
		t.Fatalf("failed to read database: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("doctor must not modify the database file")
	}
}

func TestCheckLibrary_Valid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "song.mp3"), []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result := checkLibrary(dir)

	if result.error {
		t.Errorf("library check failed: %s", result.message)
	}
}

func TestCheckLibrary_NonExistent(t *testing.T) {
	result := checkLibrary("/nonexistent/path/that/does/not/exist")

	if !result.error {
		t.Error("expected error for non-existent directory")
	}
}

func TestCheckLibrary_File(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(filePath, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result := checkLibrary(filePath)

	if !result.error {
		t.Error("expected error when path is a file, not a directory")
	}
}
