package links

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/linkboard/internal/errx"
)

const (
	MaxURLLength         = 2048
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000

	DefaultEnrichTimeout = 10 * time.Second
)

// PreviewFetcher retrieves preview metadata for a URL. Implementations
// apply their own network limits; any failure means "no preview
// available now" and is never fatal to the caller.
type PreviewFetcher interface {
	Fetch(ctx context.Context, url string) (LinkPreview, error)
}

// CreateLinkRequest holds the parameters for creating a link.
type CreateLinkRequest struct {
	URL         string
	Title       string
	Description string
	OwnerID     uuid.UUID
}

// UpdateLinkRequest holds the user-mutable fields for an update.
type UpdateLinkRequest struct {
	URL         string
	Title       string
	Description string
}

// Service defines the link lifecycle operations.
type Service interface {
	Create(ctx context.Context, req CreateLinkRequest) (Link, error)
	Get(ctx context.Context, id uuid.UUID) (Link, error)
	List(ctx context.Context) ([]Link, error)
	Update(ctx context.Context, requesterID, id uuid.UUID, req UpdateLinkRequest) (Link, error)
	Delete(ctx context.Context, requesterID, id uuid.UUID) error
	TrackClick(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo          Repository
	fetcher       PreviewFetcher
	logger        *slog.Logger
	enrichTimeout time.Duration
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Fetcher       PreviewFetcher // nil disables preview enrichment
	Logger        *slog.Logger
	EnrichTimeout time.Duration
}

// NewService creates a new Service instance.
func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := config.EnrichTimeout
	if timeout <= 0 {
		timeout = DefaultEnrichTimeout
	}

	return &service{
		repo:          repo,
		fetcher:       config.Fetcher,
		logger:        logger,
		enrichTimeout: timeout,
	}
}

// Create persists the link with no preview and returns it immediately.
// Enrichment runs on its own goroutine afterwards; its outcome is never
// reported back to the caller, and it does not start at all when the
// insert fails.
func (s *service) Create(ctx context.Context, req CreateLinkRequest) (Link, error) {
	const op = "links.service.Create"

	if err := validateFields(req.URL, req.Title, req.Description); err != nil {
		return Link{}, errx.E(op, errx.Invalid, err)
	}
	if req.OwnerID == uuid.Nil {
		return Link{}, errx.E(op, errx.Invalid, errors.New("owner id is required"))
	}

	created, err := s.repo.Create(ctx, Link{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}

	if s.fetcher != nil {
		go s.enrich(created.ID, created.URL)
	}

	return created, nil
}

// enrich fetches preview metadata and attaches it to the link. It runs
// detached from the creating request, which may have completed long
// ago, so it carries its own bounded lifetime. Failures are swallowed:
// a link without a preview is a valid end state.
func (s *service) enrich(linkID uuid.UUID, rawURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.enrichTimeout)
	defer cancel()

	preview, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		s.logger.Debug("preview enrichment skipped",
			"link_id", linkID.String(),
			"error", err.Error(),
		)
		return
	}
	if preview.Empty() {
		return
	}

	// A no-op when the link was deleted mid-fetch.
	if err := s.repo.AttachPreview(ctx, linkID, preview); err != nil {
		s.logger.Debug("preview attach failed",
			"link_id", linkID.String(),
			"error", err.Error(),
		)
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (Link, error) {
	const op = "links.service.Get"

	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}
	return link, nil
}

func (s *service) List(ctx context.Context) ([]Link, error) {
	const op = "links.service.List"

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return all, nil
}

// Update fetches the current record, applies the ownership guard, then
// writes the three mutable fields. A row that vanishes between the
// ownership read and the write reports plain NotFound, same as one that
// never existed.
func (s *service) Update(ctx context.Context, requesterID, id uuid.UUID, req UpdateLinkRequest) (Link, error) {
	const op = "links.service.Update"

	if err := validateFields(req.URL, req.Title, req.Description); err != nil {
		return Link{}, errx.E(op, errx.Invalid, err)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}
	if err := authorizeOwner(requesterID, current.OwnerID); err != nil {
		return Link{}, errx.E(op, errx.Forbidden, err)
	}

	updated, err := s.repo.Update(ctx, id, req.URL, req.Title, req.Description)
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}
	return updated, nil
}

// Delete applies the same ownership sequence as Update, then removes
// the row unconditionally.
func (s *service) Delete(ctx context.Context, requesterID, id uuid.UUID) error {
	const op = "links.service.Delete"

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	if err := authorizeOwner(requesterID, current.OwnerID); err != nil {
		return errx.E(op, errx.Forbidden, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}

// TrackClick bumps the click counter with no ownership or existence
// check; tracking a deleted link succeeds silently.
func (s *service) TrackClick(ctx context.Context, id uuid.UUID) error {
	const op = "links.service.TrackClick"

	if err := s.repo.IncrementClickCount(ctx, id); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}

// authorizeOwner is the ownership guard: plain identity equality, no
// roles, no delegation.
func authorizeOwner(requesterID, ownerID uuid.UUID) error {
	if requesterID != ownerID {
		return errors.New("requester does not own this link")
	}
	return nil
}

func validateFields(rawURL, title, description string) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}
	if title == "" {
		return errors.New("title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("title too long (max %d characters)", MaxTitleLength)
	}
	if description == "" {
		return errors.New("description cannot be empty")
	}
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description too long (max %d characters)", MaxDescriptionLength)
	}
	return nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("url cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("url too long (max %d characters)", MaxURLLength)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid url format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if parsed.Host == "" {
		return errors.New("url must include host")
	}
	return nil
}
