package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. driver is "sqlite3" or
// "postgres"; for sqlite the dsn is a file path whose directory is created
// if needed.
func Connect(driver, dsn string) error {
	if driver == "sqlite3" {
		if dir := filepath.Dir(dsn); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %v", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if driver == "sqlite3" {
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// rebind converts ? placeholders to the active driver's form.
func rebind(query string) string {
	return DB.Rebind(query)
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		serial = "SERIAL PRIMARY KEY"
	}

	// Known users, upserted on /start; the daily broadcast iterates this table.
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			username TEXT,
			first_name TEXT,
			notification_enabled BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Per-user engine state. The rolling window, last shown item and the
	// pending quiz session are stored as JSON blobs: the engine always
	// reads and writes the whole profile.
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_profiles (
			user_id BIGINT PRIMARY KEY,
			level TEXT NOT NULL DEFAULT 'N3',
			score_window TEXT NOT NULL DEFAULT '[]',
			total_quizzes INTEGER NOT NULL DEFAULT 0,
			correct_answers INTEGER NOT NULL DEFAULT 0,
			last_item TEXT,
			session TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_profiles table: %v", err)
	}

	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS level_history (
			id %s,
			user_id BIGINT NOT NULL,
			from_level TEXT NOT NULL,
			to_level TEXT NOT NULL,
			reason TEXT NOT NULL,
			window_avg REAL NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create level_history table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS wordbook (
			user_id BIGINT NOT NULL,
			item_id BIGINT NOT NULL,
			level TEXT NOT NULL,
			jp TEXT NOT NULL,
			kr TEXT NOT NULL,
			saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, item_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create wordbook table: %v", err)
	}

	return nil
}
