package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// LinkRow is a links row joined with its owner's public identity. The
// owner summary is recomputed on every read rather than stored, so it
// can never drift; OwnerUsername is NULL when the owning user row no
// longer exists.
type LinkRow struct {
	ID            uuid.UUID
	URL           string
	Title         string
	Description   string
	OwnerID       uuid.UUID
	ClickCount    int64
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
	Preview       []byte
	OwnerUsername pgtype.Text
}

const linkColumns = `
	l.id, l.url, l.title, l.description, l.owner_id,
	l.click_count, l.created_at, l.updated_at, l.preview,
	u.username`

func scanLinkRow(row interface{ Scan(dest ...any) error }) (LinkRow, error) {
	var r LinkRow
	err := row.Scan(
		&r.ID,
		&r.URL,
		&r.Title,
		&r.Description,
		&r.OwnerID,
		&r.ClickCount,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.Preview,
		&r.OwnerUsername,
	)
	return r, err
}

// CreateLinkParams holds the caller-supplied fields of a new link.
type CreateLinkParams struct {
	ID          uuid.UUID
	URL         string
	Title       string
	Description string
	OwnerID     uuid.UUID
}

// CreateLink inserts a link with click_count zero, no preview, and
// created_at equal to updated_at, and returns the row with the owner
// summary joined (read-after-write in the same statement).
func (q *Queries) CreateLink(ctx context.Context, arg CreateLinkParams) (LinkRow, error) {
	const query = `
		WITH inserted AS (
			INSERT INTO links (id, url, title, description, owner_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
			RETURNING *
		)
		SELECT ` + linkColumns + `
		FROM inserted l
		LEFT JOIN users u ON u.id = l.owner_id`

	return scanLinkRow(q.db.QueryRow(ctx, query,
		arg.ID, arg.URL, arg.Title, arg.Description, arg.OwnerID))
}

// GetLinkByID returns one link with its owner summary, or pgx.ErrNoRows.
func (q *Queries) GetLinkByID(ctx context.Context, id uuid.UUID) (LinkRow, error) {
	const query = `
		SELECT ` + linkColumns + `
		FROM links l
		LEFT JOIN users u ON u.id = l.owner_id
		WHERE l.id = $1`

	return scanLinkRow(q.db.QueryRow(ctx, query, id))
}

// ListLinks returns every link, newest first. The ordering is part of
// the feed contract, not an implementation detail.
func (q *Queries) ListLinks(ctx context.Context) ([]LinkRow, error) {
	const query = `
		SELECT ` + linkColumns + `
		FROM links l
		LEFT JOIN users u ON u.id = l.owner_id
		ORDER BY l.created_at DESC`

	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []LinkRow
	for rows.Next() {
		r, err := scanLinkRow(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, r)
	}
	return links, rows.Err()
}

// UpdateLinkParams holds the three user-mutable text fields.
type UpdateLinkParams struct {
	ID          uuid.UUID
	URL         string
	Title       string
	Description string
}

// UpdateLink rewrites the mutable text fields and refreshes updated_at,
// leaving click_count and preview untouched. Returns pgx.ErrNoRows when
// the row is gone.
func (q *Queries) UpdateLink(ctx context.Context, arg UpdateLinkParams) (LinkRow, error) {
	const query = `
		WITH updated AS (
			UPDATE links
			SET url = $2, title = $3, description = $4, updated_at = now()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + linkColumns + `
		FROM updated l
		LEFT JOIN users u ON u.id = l.owner_id`

	return scanLinkRow(q.db.QueryRow(ctx, query,
		arg.ID, arg.URL, arg.Title, arg.Description))
}

// IncrementClickCount bumps click_count by one in a single atomic
// statement. A missing row affects zero rows and is not an error.
func (q *Queries) IncrementClickCount(ctx context.Context, id uuid.UUID) error {
	const query = `
		UPDATE links
		SET click_count = click_count + 1
		WHERE id = $1`

	_, err := q.db.Exec(ctx, query, id)
	return err
}

// AttachPreview sets the preview document without touching updated_at;
// preview attachment is a side-channel write, not a user edit. A
// missing row (link deleted mid-enrichment) affects zero rows and is
// not an error.
func (q *Queries) AttachPreview(ctx context.Context, id uuid.UUID, preview []byte) error {
	const query = `
		UPDATE links
		SET preview = $2
		WHERE id = $1`

	_, err := q.db.Exec(ctx, query, id, preview)
	return err
}

// DeleteLink removes the row. Deleting an absent id is a no-op.
func (q *Queries) DeleteLink(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM links WHERE id = $1`, id)
	return err
}
