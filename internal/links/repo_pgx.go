package links

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sundayezeilo/linkboard/internal/db"
	"github.com/sundayezeilo/linkboard/internal/errx"
	"github.com/sundayezeilo/linkboard/internal/idgen"
)

// querier abstracts *db.Queries for testing.
type querier interface {
	CreateLink(ctx context.Context, arg db.CreateLinkParams) (db.LinkRow, error)
	GetLinkByID(ctx context.Context, id uuid.UUID) (db.LinkRow, error)
	ListLinks(ctx context.Context) ([]db.LinkRow, error)
	UpdateLink(ctx context.Context, arg db.UpdateLinkParams) (db.LinkRow, error)
	IncrementClickCount(ctx context.Context, id uuid.UUID) error
	AttachPreview(ctx context.Context, id uuid.UUID, preview []byte) error
	DeleteLink(ctx context.Context, id uuid.UUID) error
}

type repo struct {
	q      querier
	ids    idgen.Generator
	logger *slog.Logger
}

// RepositoryConfig holds configuration for the repository.
type RepositoryConfig struct {
	IDGenerator idgen.Generator
	Logger      *slog.Logger
}

// NewRepository creates a Repository over the query layer. IDs default
// to UUIDv7 for btree locality on the created_at-ordered feed.
func NewRepository(q *db.Queries, config *RepositoryConfig) Repository {
	return newRepository(q, config)
}

func newRepository(q querier, config *RepositoryConfig) Repository {
	if config == nil {
		config = &RepositoryConfig{}
	}
	if config.IDGenerator == nil {
		config.IDGenerator = idgen.NewV7(idgen.WithRetries(1))
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &repo{q: q, ids: config.IDGenerator, logger: config.Logger}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time, nil
}

func (r *repo) toDomainLink(row db.LinkRow) (Link, error) {
	createdAt, err := mustTime(row.CreatedAt, "created_at")
	if err != nil {
		return Link{}, err
	}
	updatedAt, err := mustTime(row.UpdatedAt, "updated_at")
	if err != nil {
		return Link{}, err
	}

	// Previews are additive; a corrupt document must never make the
	// link itself unreadable. Serve the link bare and log.
	var preview *LinkPreview
	if len(row.Preview) > 0 {
		var p LinkPreview
		if err := json.Unmarshal(row.Preview, &p); err != nil {
			r.logger.Warn("dropping malformed preview document",
				"link_id", row.ID.String(),
				"error", err.Error(),
			)
		} else {
			preview = &p
		}
	}

	var owner *OwnerSummary
	if row.OwnerUsername.Valid {
		owner = &OwnerSummary{Username: row.OwnerUsername.String}
	}

	return Link{
		ID:          row.ID,
		URL:         row.URL,
		Title:       row.Title,
		Description: row.Description,
		OwnerID:     row.OwnerID,
		ClickCount:  row.ClickCount,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		Preview:     preview,
		Owner:       owner,
	}, nil
}

func mapRepoError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errx.E(op, errx.NotFound, err)
	}
	return errx.E(op, errx.Unavailable, err)
}

func (r *repo) Create(ctx context.Context, link Link) (Link, error) {
	const op = "links.repo.Create"

	if link.ID == uuid.Nil {
		id, err := r.ids.Generate()
		if err != nil {
			return Link{}, errx.E(op, errx.Unavailable, err)
		}
		link.ID = id
	}

	row, err := r.q.CreateLink(ctx, db.CreateLinkParams{
		ID:          link.ID,
		URL:         link.URL,
		Title:       link.Title,
		Description: link.Description,
		OwnerID:     link.OwnerID,
	})
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}

	created, err := r.toDomainLink(row)
	if err != nil {
		return Link{}, errx.E(op, errx.Internal, err)
	}
	return created, nil
}

func (r *repo) GetByID(ctx context.Context, id uuid.UUID) (Link, error) {
	const op = "links.repo.GetByID"

	row, err := r.q.GetLinkByID(ctx, id)
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}

	link, err := r.toDomainLink(row)
	if err != nil {
		return Link{}, errx.E(op, errx.Internal, err)
	}
	return link, nil
}

func (r *repo) List(ctx context.Context) ([]Link, error) {
	const op = "links.repo.List"

	rows, err := r.q.ListLinks(ctx)
	if err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}

	result := make([]Link, 0, len(rows))
	for _, row := range rows {
		link, err := r.toDomainLink(row)
		if err != nil {
			return nil, errx.E(op, errx.Internal, err)
		}
		result = append(result, link)
	}
	return result, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, url, title, description string) (Link, error) {
	const op = "links.repo.Update"

	row, err := r.q.UpdateLink(ctx, db.UpdateLinkParams{
		ID:          id,
		URL:         url,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}

	link, err := r.toDomainLink(row)
	if err != nil {
		return Link{}, errx.E(op, errx.Internal, err)
	}
	return link, nil
}

func (r *repo) IncrementClickCount(ctx context.Context, id uuid.UUID) error {
	const op = "links.repo.IncrementClickCount"

	if err := r.q.IncrementClickCount(ctx, id); err != nil {
		return errx.E(op, errx.Unavailable, err)
	}
	return nil
}

func (r *repo) AttachPreview(ctx context.Context, id uuid.UUID, preview LinkPreview) error {
	const op = "links.repo.AttachPreview"

	doc, err := json.Marshal(preview)
	if err != nil {
		return errx.E(op, errx.Internal, err)
	}

	if err := r.q.AttachPreview(ctx, id, doc); err != nil {
		return errx.E(op, errx.Unavailable, err)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "links.repo.Delete"

	if err := r.q.DeleteLink(ctx, id); err != nil {
		return errx.E(op, errx.Unavailable, err)
	}
	return nil
}
