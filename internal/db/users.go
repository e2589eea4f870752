package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// UserRow is a users row. Account management lives in the identity
// service; linkboard only reads usernames for owner summaries and
// inserts rows in tests and seeding tools.
type UserRow struct {
	ID        uuid.UUID
	Username  string
	Email     string
	CreatedAt pgtype.Timestamptz
}

// CreateUserParams holds the fields of a new user row.
type CreateUserParams struct {
	ID       uuid.UUID
	Username string
	Email    string
}

// CreateUser inserts a user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (UserRow, error) {
	const query = `
		INSERT INTO users (id, username, email, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, username, email, created_at`

	var r UserRow
	err := q.db.QueryRow(ctx, query, arg.ID, arg.Username, arg.Email).Scan(
		&r.ID, &r.Username, &r.Email, &r.CreatedAt,
	)
	return r, err
}

// GetUserByID returns one user, or pgx.ErrNoRows.
func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (UserRow, error) {
	const query = `
		SELECT id, username, email, created_at
		FROM users
		WHERE id = $1`

	var r UserRow
	err := q.db.QueryRow(ctx, query, id).Scan(
		&r.ID, &r.Username, &r.Email, &r.CreatedAt,
	)
	return r, err
}

// DeleteUser removes a user row. Links owned by the user are kept and
// read back with a null owner summary from then on.
func (q *Queries) DeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
