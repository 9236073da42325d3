package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/wordlebot/internal/config"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "postgres"
)

// Connect opens the result store and creates its schema
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.Driver == driverSQLite {
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(cfg.DSN); dir != "." && !isMemoryDSN(cfg.DSN) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", classify(err))
	}

	if cfg.Driver == driverSQLite {
		// Enable foreign keys
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}

		db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
		db.SetMaxIdleConns(1)
	}

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// InitSchema creates the users and results tables if they don't exist
func InitSchema(db *sqlx.DB) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == driverPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", classify(err))
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			` + idColumn + `,
			user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			game_number BIGINT NOT NULL CHECK (game_number >= 0),
			attempts INTEGER CHECK (attempts BETWEEN 1 AND 6),
			solved BOOLEAN NOT NULL,
			pattern TEXT,
			share_text TEXT NOT NULL,
			reported_at BIGINT NOT NULL,
			UNIQUE(user_id, game_number)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create results table: %w", classify(err))
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_results_game_number ON results(game_number)`)
	if err != nil {
		return fmt.Errorf("failed to create results index: %w", classify(err))
	}

	return nil
}
