// Package db is the hand-written query layer for postgres. It speaks
// rows and SQL; mapping rows to domain types and classifying errors is
// the repository's job one layer up.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx a query needs. Both *pgxpool.Pool and
// pgx.Tx satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries bundles all SQL statements over a single DBTX.
type Queries struct {
	db DBTX
}

// New creates a Queries instance over db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}
