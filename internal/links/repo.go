package links

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for Link entities.
// Every method is a single atomic statement at the storage layer.
// IncrementClickCount, AttachPreview, and Delete treat a missing row as
// a silent no-op, never an error: clicks and enrichment racing a delete
// must not surface failures.
type Repository interface {
	Create(ctx context.Context, link Link) (Link, error)
	GetByID(ctx context.Context, id uuid.UUID) (Link, error)
	List(ctx context.Context) ([]Link, error)
	Update(ctx context.Context, id uuid.UUID, url, title, description string) (Link, error)
	IncrementClickCount(ctx context.Context, id uuid.UUID) error
	AttachPreview(ctx context.Context, id uuid.UUID, preview LinkPreview) error
	Delete(ctx context.Context, id uuid.UUID) error
}
