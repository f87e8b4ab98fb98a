package repository

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory database with the application schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE catalog (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			species_url TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE evolution_cache (
			pokemon_id INTEGER PRIMARY KEY,
			stage INTEGER NOT NULL DEFAULT 0,
			chain_json TEXT NOT NULL DEFAULT '[]',
			fetched_at DATETIME NOT NULL
		);

		CREATE TABLE catch_attempts (
			id TEXT PRIMARY KEY,
			pokemon_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			stage INTEGER NOT NULL,
			chance REAL NOT NULL,
			roll REAL NOT NULL,
			success INTEGER NOT NULL,
			attempted_at DATETIME NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Error closing database: %v", err)
		}
	})
	return db
}
