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

// BanHandler handles admin ban management.
type BanHandler struct {
	bans *service.BanService
}

// NewBanHandler creates a new BanHandler.
func NewBanHandler(bans *service.BanService) *BanHandler {
	return &BanHandler{bans: bans}
}

// Create handles POST /admin/bans.
func (h *BanHandler) Create(w http.ResponseWriter, r *http.Request) {
	adminID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		handler.RespondError(w, domain.ErrUnauthorized("invalid subject"))
		return
	}

	var in service.BanInput
	if err := handler.DecodeJSON(r, &in); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	ban, err := h.bans.Ban(r.Context(), in, adminID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, ban)
}

// List handles GET /admin/bans with an optional user_id filter. active=true
// narrows the listing to bans currently in force.
func (h *BanHandler) List(w http.ResponseWriter, r *http.Request) {
	var userID *uuid.UUID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handler.RespondError(w, domain.ErrValidation("invalid user_id"))
			return
		}
		userID = &id
	}
	activeOnly := r.URL.Query().Get("active") == "true"

	list, err := h.bans.ListBans(r.Context(), userID, activeOnly)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	if list == nil {
		list = []domain.UserBan{}
	}
	handler.RespondJSON(w, http.StatusOK, list)
}

// Unban handles DELETE /admin/bans/user/{userID}. An optional ban_type query
// parameter lifts a single scope; without it every scope is lifted.
func (h *BanHandler) Unban(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid user id"))
		return
	}
	adminID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		handler.RespondError(w, domain.ErrUnauthorized("invalid subject"))
		return
	}

	var scope *domain.BanScope
	if raw := r.URL.Query().Get("ban_type"); raw != "" {
		s := domain.BanScope(raw)
		scope = &s
	}

	if err := h.bans.Unban(r.Context(), userID, scope, adminID); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]string{"status": "unbanned"})
}

// Update handles PATCH /admin/bans/{id} with a sparse patch body.
func (h *BanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid ban id"))
		return
	}

	var patch domain.BanPatch
	if err := handler.DecodeJSON(r, &patch); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	ban, err := h.bans.UpdateBan(r.Context(), id, patch)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, ban)
}
