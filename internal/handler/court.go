package handler

import (
	"net/http"
	"strconv"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/guard"
	"github.com/courtside/platform/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CourtHandler serves public court reads. Single-court fetches go through a
// short TTL cache; list queries always hit the database.
type CourtHandler struct {
	courts repository.CourtRepository
	db     repository.DBTX
	cache  *guard.TTLCache[uuid.UUID, *domain.Court]
}

// NewCourtHandler creates a new CourtHandler.
func NewCourtHandler(courts repository.CourtRepository, db repository.DBTX, cache *guard.TTLCache[uuid.UUID, *domain.Court]) *CourtHandler {
	return &CourtHandler{courts: courts, db: db, cache: cache}
}

// List handles GET /courts with optional city and bounding-box filters.
func (h *CourtHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.CourtFilter{City: q.Get("city")}

	var parseErr error
	coord := func(name string) *float64 {
		raw := q.Get(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			parseErr = domain.ErrValidation("invalid " + name)
			return nil
		}
		return &v
	}
	filter.MinLat = coord("min_lat")
	filter.MaxLat = coord("max_lat")
	filter.MinLon = coord("min_lon")
	filter.MaxLon = coord("max_lon")
	if parseErr != nil {
		RespondError(w, parseErr)
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	courts, err := h.courts.List(r.Context(), h.db, filter, limit)
	if err != nil {
		RespondError(w, domain.ErrInternal("list courts", err))
		return
	}
	if courts == nil {
		courts = []domain.Court{}
	}
	RespondJSON(w, http.StatusOK, courts)
}

// Get handles GET /courts/{id}.
func (h *CourtHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid court id"))
		return
	}

	if court, ok := h.cache.Get(id); ok {
		RespondJSON(w, http.StatusOK, court)
		return
	}

	court, err := h.courts.FindByID(r.Context(), h.db, id)
	if err != nil {
		RespondError(w, domain.ErrInternal("find court", err))
		return
	}
	if court == nil {
		RespondError(w, domain.ErrNotFound("court", id.String()))
		return
	}

	h.cache.Set(id, court)
	RespondJSON(w, http.StatusOK, court)
}
