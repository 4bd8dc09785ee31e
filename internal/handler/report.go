package handler

import (
	"net/http"

	"github.com/courtside/platform/internal/auth"
	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/service"
)

// ReportHandler serves the user-facing report endpoint.
type ReportHandler struct {
	moderation *service.ModerationService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(moderation *service.ModerationService) *ReportHandler {
	return &ReportHandler{moderation: moderation}
}

// Create handles POST /reports.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized("invalid subject"))
		return
	}

	var in service.ReportInput
	if err := DecodeJSON(r, &in); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	report, err := h.moderation.CreateReport(r.Context(), in, userID, claims.Name)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, report)
}
