package database

import (
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	sqliteDriver   = "sqlite"
	postgresDriver = "pgx"

	defaultPostgresConns = 10
)

// Open connects to a SQLite or PostgreSQL database. SQLite gets a single
// connection so that writers serialise instead of failing with SQLITE_BUSY.
func Open(driver, dsn string, maxOpenConns int) (*sqlx.DB, error) {
	if driver != sqliteDriver && driver != postgresDriver {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	switch {
	case driver == sqliteDriver:
		db.SetMaxOpenConns(1)
	case maxOpenConns > 0:
		db.SetMaxOpenConns(maxOpenConns)
	default:
		db.SetMaxOpenConns(defaultPostgresConns)
	}

	return db, nil
}

// Connect is Open for process startup: it exits on failure.
func Connect(driver, dsn string, maxOpenConns int) *sqlx.DB {
	db, err := Open(driver, dsn, maxOpenConns)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	return db
}
