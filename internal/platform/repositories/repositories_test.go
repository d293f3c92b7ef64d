package repositories

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	// Every connection to :memory: gets its own database; keep one.
	db.SetMaxOpenConns(1)

	query := `
	CREATE TABLE api_tokens (
		id TEXT PRIMARY KEY,
		token_hash TEXT UNIQUE NOT NULL,
		token_prefix TEXT NOT NULL,
		tenant_id TEXT NOT NULL,
		name TEXT,
		created_at INTEGER NOT NULL,
		last_used_at INTEGER,
		revoked_at INTEGER
	);
	CREATE TABLE rate_limits (
		tenant_key TEXT PRIMARY KEY,
		window_start_ms INTEGER NOT NULL,
		count INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("Failed to create tables: %v", err)
	}
	return db
}
