package admin

import (
	"net/http"

	"github.com/courtside/platform/internal/auth"
	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/handler"
	"github.com/courtside/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SuggestionHandler handles admin suggestion review.
type SuggestionHandler struct {
	suggestions *service.SuggestionService
}

// NewSuggestionHandler creates a new admin SuggestionHandler.
func NewSuggestionHandler(suggestions *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

func statusParam(r *http.Request) (domain.SuggestionStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return domain.SuggestionPending, nil
	}
	if !domain.ValidSuggestionStatus(raw) {
		return "", domain.ErrValidation("unknown status " + raw)
	}
	return domain.SuggestionStatus(raw), nil
}

// List handles GET /admin/suggestions.
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	status, err := statusParam(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	list, err := h.suggestions.ListSuggestions(r.Context(), status, 0)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	if list == nil {
		list = []domain.CourtSuggestion{}
	}
	handler.RespondJSON(w, http.StatusOK, list)
}

type reviewRequest struct {
	Action string  `json:"action"`
	Note   *string `json:"note,omitempty"`
}

// Review handles POST /admin/suggestions/{id}/review.
func (h *SuggestionHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid suggestion id"))
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	adminID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		handler.RespondError(w, domain.ErrUnauthorized("invalid subject"))
		return
	}

	var req reviewRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	suggestion, err := h.suggestions.ReviewSuggestion(r.Context(), id, domain.ReviewAction(req.Action), req.Note, adminID, claims.Name)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, suggestion)
}

// ListEdits handles GET /admin/edit-suggestions.
func (h *SuggestionHandler) ListEdits(w http.ResponseWriter, r *http.Request) {
	status, err := statusParam(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	list, err := h.suggestions.ListEditSuggestions(r.Context(), status, 0)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	if list == nil {
		list = []domain.CourtEditSuggestion{}
	}
	handler.RespondJSON(w, http.StatusOK, list)
}

// ReviewEdit handles POST /admin/edit-suggestions/{id}/review.
func (h *SuggestionHandler) ReviewEdit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid suggestion id"))
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	adminID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		handler.RespondError(w, domain.ErrUnauthorized("invalid subject"))
		return
	}

	var req reviewRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	suggestion, err := h.suggestions.ReviewEditSuggestion(r.Context(), id, domain.ReviewAction(req.Action), req.Note, adminID, claims.Name)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, suggestion)
}
