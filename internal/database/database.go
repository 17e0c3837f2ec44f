package database

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pressly/goose/v3"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// InitDB opens the database and runs any pending goose migrations.
// For local-only databases, dbPath is the filename (or ":memory:").
// When primaryURL is set, the remote Turso database is used instead and
// authToken must be valid for it. The returned teardown closes the handle.
func InitDB(dbPath, primaryURL, authToken, migrationsDir string) (*sql.DB, func(), error) {
	var dsn string
	if primaryURL == "" {
		log.Info("Initializing local-only SQLite database", "path", dbPath)
		dsn = "file:" + dbPath
	} else {
		log.Info("Initializing Turso database", "url", primaryURL)
		dsn = primaryURL + "?authToken=" + authToken
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db, migrationsDir); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	return db, teardown, nil
}

func migrate(db *sql.DB, migrationsDir string) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	goose.SetLogger(goose.NopLogger())
	if err := goose.Up(db, migrationsDir); err != nil {
		return err
	}
	log.Info("Database migrations applied", "dir", migrationsDir)
	return nil
}
