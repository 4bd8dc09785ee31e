package admin

import (
	"net/http"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/guard"
	"github.com/courtside/platform/internal/handler"
	"github.com/courtside/platform/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourtHandler handles admin court management.
type CourtHandler struct {
	courts repository.CourtRepository
	pool   *pgxpool.Pool
	cache  *guard.TTLCache[uuid.UUID, *domain.Court]
}

// NewCourtHandler creates a new admin CourtHandler.
func NewCourtHandler(courts repository.CourtRepository, pool *pgxpool.Pool, cache *guard.TTLCache[uuid.UUID, *domain.Court]) *CourtHandler {
	return &CourtHandler{courts: courts, pool: pool, cache: cache}
}

// Create handles POST /admin/courts, inserting a court without a suggestion.
func (h *CourtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var court domain.Court
	if err := handler.DecodeJSON(r, &court); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := domain.ValidateSuggestionFields(court.Name, court.Address, court.City, court.State, court.Zip); err != nil {
		handler.RespondError(w, err)
		return
	}

	exists, err := h.courts.ExistsAtAddress(r.Context(), h.pool, court.Address, court.City, court.State, court.Zip)
	if err != nil {
		handler.RespondError(w, domain.ErrInternal("check existing court", err))
		return
	}
	if exists {
		handler.RespondError(w, domain.ErrConflict("a court already exists at this address"))
		return
	}

	if err := h.courts.Create(r.Context(), h.pool, &court); err != nil {
		handler.RespondError(w, domain.ErrInternal("create court", err))
		return
	}
	handler.RespondJSON(w, http.StatusCreated, court)
}

// Update handles PUT /admin/courts/{id}, a full replacement of mutable fields.
func (h *CourtHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid court id"))
		return
	}

	var court domain.Court
	if err := handler.DecodeJSON(r, &court); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := domain.ValidateSuggestionFields(court.Name, court.Address, court.City, court.State, court.Zip); err != nil {
		handler.RespondError(w, err)
		return
	}
	court.ID = id

	existing, err := h.courts.FindByID(r.Context(), h.pool, id)
	if err != nil {
		handler.RespondError(w, domain.ErrInternal("find court", err))
		return
	}
	if existing == nil {
		handler.RespondError(w, domain.ErrNotFound("court", id.String()))
		return
	}

	if err := h.courts.Update(r.Context(), h.pool, &court); err != nil {
		handler.RespondError(w, domain.ErrInternal("update court", err))
		return
	}
	h.cache.Invalidate(id)
	handler.RespondJSON(w, http.StatusOK, court)
}

type visibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

// SetVisibility handles PATCH /admin/courts/{id}/visibility.
func (h *CourtHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid court id"))
		return
	}

	var req visibilityRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	existing, err := h.courts.FindByID(r.Context(), h.pool, id)
	if err != nil {
		handler.RespondError(w, domain.ErrInternal("find court", err))
		return
	}
	if existing == nil {
		handler.RespondError(w, domain.ErrNotFound("court", id.String()))
		return
	}

	if err := h.courts.SetVisibility(r.Context(), h.pool, id, req.IsPublic); err != nil {
		handler.RespondError(w, domain.ErrInternal("set visibility", err))
		return
	}
	h.cache.Invalidate(id)
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"court_id":  id,
		"is_public": req.IsPublic,
	})
}
