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

// ReportHandler handles admin report triage.
type ReportHandler struct {
	moderation *service.ModerationService
}

// NewReportHandler creates a new admin ReportHandler.
func NewReportHandler(moderation *service.ModerationService) *ReportHandler {
	return &ReportHandler{moderation: moderation}
}

// List handles GET /admin/reports.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.ReportPending
	if raw := r.URL.Query().Get("status"); raw != "" {
		if !domain.ValidReportStatus(raw) {
			handler.RespondError(w, domain.ErrValidation("unknown status "+raw))
			return
		}
		status = domain.ReportStatus(raw)
	}

	list, err := h.moderation.ListReports(r.Context(), status, 0)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	if list == nil {
		list = []domain.Report{}
	}
	handler.RespondJSON(w, http.StatusOK, list)
}

type resolveRequest struct {
	Action string  `json:"action"`
	Note   *string `json:"note,omitempty"`
}

// Resolve handles POST /admin/reports/{id}/resolve.
func (h *ReportHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid report id"))
		return
	}
	adminID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		handler.RespondError(w, domain.ErrUnauthorized("invalid subject"))
		return
	}

	var req resolveRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	report, err := h.moderation.ResolveReport(r.Context(), id, domain.ResolveAction(req.Action), req.Note, adminID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, report)
}
