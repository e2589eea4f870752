package links

import (
	"time"

	"github.com/google/uuid"
)

// LinkPreview is the metadata scraped from a link's target page. It is
// attached asynchronously after creation and stored as an opaque JSON
// document; any subset of its fields may be empty.
type LinkPreview struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Empty reports whether the preview carries no usable metadata.
func (p LinkPreview) Empty() bool {
	return p.Title == "" && p.Description == "" && p.ImageURL == ""
}

// OwnerSummary is the owner's public identity, recomputed from the
// users table on every read.
type OwnerSummary struct {
	Username string `json:"username"`
}

// Link is a saved hyperlink. ID and OwnerID never change after
// creation; ClickCount only grows; Preview only transitions from nil to
// set. UpdatedAt tracks user edits exclusively; preview attachment and
// click increments leave it alone.
type Link struct {
	ID          uuid.UUID
	URL         string
	Title       string
	Description string
	OwnerID     uuid.UUID
	ClickCount  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Preview     *LinkPreview
	Owner       *OwnerSummary // nil when the owning user row is gone
}
