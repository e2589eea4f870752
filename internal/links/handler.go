package links

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sundayezeilo/linkboard/internal/auth"
	"github.com/sundayezeilo/linkboard/internal/errx"
	"github.com/sundayezeilo/linkboard/internal/httpx"
)

// Handler exposes the link lifecycle over HTTP.
type Handler struct {
	service  Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler creates a new link handler.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type createLinkPayload struct {
	URL         string `json:"url" validate:"required,url,max=2048"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
}

type updateLinkPayload struct {
	URL         string `json:"url" validate:"required,url,max=2048"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
}

// ownerResponse is the embedded owner summary. Username is empty when
// the owning account no longer exists.
type ownerResponse struct {
	Username string `json:"username"`
}

type linkResponse struct {
	ID          string         `json:"id"`
	URL         string         `json:"url"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	ClickCount  int64          `json:"click_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Preview     *LinkPreview   `json:"preview"`
	User        *ownerResponse `json:"user"`
}

func toLinkResponse(link Link) linkResponse {
	resp := linkResponse{
		ID:          link.ID.String(),
		URL:         link.URL,
		Title:       link.Title,
		Description: link.Description,
		ClickCount:  link.ClickCount,
		CreatedAt:   link.CreatedAt,
		UpdatedAt:   link.UpdatedAt,
		Preview:     link.Preview,
	}
	if link.Owner != nil {
		resp.User = &ownerResponse{Username: link.Owner.Username}
	}
	return resp
}

// Create handles POST /api/links.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	payload, err := httpx.DecodeJSON[createLinkPayload](r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid link payload")
		return
	}

	link, err := h.service.Create(r.Context(), CreateLinkRequest{
		URL:         payload.URL,
		Title:       payload.Title,
		Description: payload.Description,
		OwnerID:     userID,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, httpx.Response{
		Success: true,
		Message: "link created",
		Data:    toLinkResponse(link),
	})
}

// List handles GET /api/links.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]linkResponse, 0, len(all))
	for _, link := range all {
		out = append(out, toLinkResponse(link))
	}
	httpx.WriteData(w, http.StatusOK, out)
}

// Get handles GET /api/links/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathLinkID(w, r)
	if !ok {
		return
	}

	link, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toLinkResponse(link))
}

// Update handles PUT /api/links/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	id, ok := pathLinkID(w, r)
	if !ok {
		return
	}

	payload, err := httpx.DecodeJSON[updateLinkPayload](r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid link payload")
		return
	}

	link, err := h.service.Update(r.Context(), userID, id, UpdateLinkRequest{
		URL:         payload.URL,
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Response{
		Success: true,
		Message: "link updated",
		Data:    toLinkResponse(link),
	})
}

// Delete handles DELETE /api/links/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	id, ok := pathLinkID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "link deleted", nil)
}

// TrackClick handles POST /api/links/{id}/click. No authentication and
// no existence check: clicking a deleted link is still a 200.
func (h *Handler) TrackClick(w http.ResponseWriter, r *http.Request) {
	id, ok := pathLinkID(w, r)
	if !ok {
		return
	}

	if err := h.service.TrackClick(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "click recorded", nil)
}

// pathLinkID parses the {id} path segment. A malformed UUID is
// indistinguishable from a missing link.
func pathLinkID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", "link not found")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errx.KindOf(err)
	status := httpx.ErrorKindToStatus(kind)
	if status >= http.StatusInternalServerError {
		h.logger.Error("link request failed",
			"request_id", httpx.GetRequestID(r.Context()),
			"op", errx.OpOf(err),
			"error", err.Error(),
		)
	}

	message := publicErrorMessage(kind, err)
	httpx.WriteError(w, status, httpx.ErrorKindToCode(kind), message)
}

func publicErrorMessage(kind errx.Kind, err error) string {
	switch kind {
	case errx.NotFound:
		return "link not found"
	case errx.Forbidden:
		return "you do not own this link"
	case errx.Unauthorized:
		return "authentication required"
	case errx.Invalid:
		var e *errx.Error
		if errors.As(err, &e) && e.Err != nil {
			return e.Err.Error()
		}
		return "invalid link payload"
	case errx.Unavailable:
		return "service temporarily unavailable"
	default:
		return "internal server error"
	}
}
