package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DataStore is the interface for data persistence
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	Customers() CustomerRepository
	DistanceCache() DistanceCacheRepository
}

// DB wraps the database connection and provides access to repositories
type DB struct {
	conn              *sql.DB
	customerRepo      CustomerRepository
	distanceCacheRepo DistanceCacheRepository
}

// New opens the SQLite database at dbPath and runs migrations
func New(dbPath string) (*DB, error) {
	log.Printf("Opening SQLite database at: %s", dbPath)

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{
		conn:              conn,
		customerRepo:      &customerRepository{db: conn},
		distanceCacheRepo: &distanceCacheRepository{db: conn},
	}, nil
}

func (db *DB) Customers() CustomerRepository          { return db.customerRepo }
func (db *DB) DistanceCache() DistanceCacheRepository { return db.distanceCacheRepo }

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// HealthCheck verifies the database connection is alive
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// runMigrations executes the schema SQL
func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}
