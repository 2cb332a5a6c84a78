package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/fortuna/gridiron/internal/logger"
)

// Database wraps the league PostgreSQL connection.
type Database struct {
	conn *sql.DB
	dsn  string
}

// NewDatabase opens and verifies a connection.
func NewDatabase(dsn string) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		conn: db,
		dsn:  dsn,
	}, nil
}

// Close closes the database connection.
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sql.DB for queries.
func (db *Database) DB() *sql.DB {
	return db.conn
}

// RunMigrations executes all migration files in order.
func (db *Database) RunMigrations() error {
	logger.Get().Info("Running database migrations...")

	if err := db.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations := []string{
		"001_create_leagues.sql",
		"002_create_owners.sql",
		"003_create_rosters.sql",
		"004_create_week_games.sql",
		"005_create_player_scores.sql",
	}

	for _, migration := range migrations {
		if err := db.runMigration(migration); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", migration, err)
		}
	}

	logger.Get().Info("All migrations completed")
	return nil
}

func (db *Database) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.conn.Exec(query)
	return err
}

func (db *Database) runMigration(filename string) error {
	var exists bool
	err := db.conn.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", filename).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		logger.Get().WithField("migration", filename).Debug("already applied, skipping")
		return nil
	}

	migrationPath := filepath.Join("infra", "migrations", filename)
	content, err := os.ReadFile(migrationPath)
	if err != nil {
		// Alternate path inside the container image.
		migrationPath = filepath.Join("migrations", filename)
		content, err = os.ReadFile(migrationPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file: %w", err)
		}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", filename); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	logger.Get().WithField("migration", filename).Info("applied")
	return nil
}

// HealthCheck pings the database with a short deadline.
func (db *Database) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return db.conn.PingContext(ctx)
}
