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

// PhotoHandler handles admin photo removal.
type PhotoHandler struct {
	moderation *service.ModerationService
}

// NewPhotoHandler creates a new admin PhotoHandler.
func NewPhotoHandler(moderation *service.ModerationService) *PhotoHandler {
	return &PhotoHandler{moderation: moderation}
}

type deletePhotoRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// Delete handles DELETE /admin/photos/{id}.
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid photo id"))
		return
	}
	adminID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		handler.RespondError(w, domain.ErrUnauthorized("invalid subject"))
		return
	}

	var req deletePhotoRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := handler.DecodeJSON(r, &req); err != nil {
			handler.RespondError(w, domain.ErrValidation("invalid request body"))
			return
		}
	}

	if err := h.moderation.DeletePhoto(r.Context(), id, req.Reason, adminID); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
