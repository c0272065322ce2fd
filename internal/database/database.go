package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

//go:embed migrations/*.sql
var migrations embed.FS

// InitDB opens the database and migrates it to the latest schema.
// With an empty primaryUrl dbPath is a local SQLite file (or ":memory:");
// otherwise the remote Turso database at primaryUrl is used.
// The returned teardown closes the database.
func InitDB(dbPath string, primaryUrl string, authToken string) (*sql.DB, func(), error) {
	var (
		db  *sql.DB
		err error
	)
	if primaryUrl == "" {
		log.Info("Initializing local SQLite database", "path", dbPath)
		db, err = sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local database: %w", err)
		}
		// Every pooled connection to ":memory:" would be a separate database.
		db.SetMaxOpenConns(1)
	} else {
		log.Info("Initializing Turso database", "url", primaryUrl)
		db, err = sql.Open("libsql", primaryUrl+"?authToken="+authToken)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db %s: %w", primaryUrl, err)
		}
	}

	if err = migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	return db, teardown, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(log.Default())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return err
	}
	log.Info("Database initialized successfully")
	return nil
}
