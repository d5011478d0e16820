package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository is the sqlx backed store for products, bills, users and
// settings. It works against SQLite and PostgreSQL; queries are written with
// '?' placeholders and rebound for the driver.
type Repository struct {
	db  *sqlx.DB
	now func() time.Time
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

func (r *Repository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Second)
}
