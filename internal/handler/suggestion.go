package handler

import (
	"net/http"

	"github.com/courtside/platform/internal/auth"
	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SuggestionHandler serves the user-facing suggestion endpoints.
type SuggestionHandler struct {
	suggestions *service.SuggestionService
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(suggestions *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

// Create handles POST /suggestions.
func (h *SuggestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized("invalid subject"))
		return
	}

	var in service.SuggestionInput
	if err := DecodeJSON(r, &in); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	suggestion, err := h.suggestions.CreateSuggestion(r.Context(), in, userID, claims.Name)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, suggestion)
}

// ListMine handles GET /suggestions/mine.
func (h *SuggestionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized("invalid subject"))
		return
	}

	list, err := h.suggestions.ListMySuggestions(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	if list == nil {
		list = []domain.CourtSuggestion{}
	}
	RespondJSON(w, http.StatusOK, list)
}

// editSuggestionRequest is the body of POST /courts/{id}/edit-suggestions.
// The patch fields sit at the top level so clients send only what changes.
type editSuggestionRequest struct {
	domain.CourtPatch
}

// CreateEdit handles POST /courts/{id}/edit-suggestions.
func (h *SuggestionHandler) CreateEdit(w http.ResponseWriter, r *http.Request) {
	courtID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid court id"))
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized("invalid subject"))
		return
	}

	var req editSuggestionRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	suggestion, err := h.suggestions.CreateEditSuggestion(r.Context(), service.EditSuggestionInput{
		CourtID: courtID,
		Patch:   req.CourtPatch,
	}, userID, claims.Name)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, suggestion)
}

// ListMyEdits handles GET /edit-suggestions/mine.
func (h *SuggestionHandler) ListMyEdits(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized("invalid subject"))
		return
	}

	list, err := h.suggestions.ListMyEditSuggestions(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	if list == nil {
		list = []domain.CourtEditSuggestion{}
	}
	RespondJSON(w, http.StatusOK, list)
}
