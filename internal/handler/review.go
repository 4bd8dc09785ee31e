package handler

import (
	"net/http"
	"strconv"

	"github.com/courtside/platform/internal/auth"
	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReviewHandler serves court review endpoints.
type ReviewHandler struct {
	reviews repository.ReviewRepository
	courts  repository.CourtRepository
	admins  *auth.AdminPolicy
	pool    *pgxpool.Pool
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews repository.ReviewRepository, courts repository.CourtRepository, admins *auth.AdminPolicy, pool *pgxpool.Pool) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, courts: courts, admins: admins, pool: pool}
}

type createReviewRequest struct {
	Rating    int      `json:"rating"`
	Body      string   `json:"body"`
	PhotoURLs []string `json:"photo_urls"`
}

// Create handles POST /courts/{id}/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req createReviewRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := domain.ValidateRating(req.Rating); err != nil {
		RespondError(w, err)
		return
	}

	court, err := h.courts.FindByID(r.Context(), h.pool, courtID)
	if err != nil {
		RespondError(w, domain.ErrInternal("find court", err))
		return
	}
	if court == nil {
		RespondError(w, domain.ErrNotFound("court", courtID.String()))
		return
	}

	review := &domain.Review{
		ID:         uuid.New(),
		CourtID:    courtID,
		AuthorID:   userID,
		AuthorName: claims.Name,
		Rating:     req.Rating,
		Body:       req.Body,
		PhotoURLs:  req.PhotoURLs,
	}

	// One transaction covers the review row and its per-photo moderation
	// rows; a partial insert never becomes visible.
	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		RespondError(w, domain.ErrInternal("begin tx", err))
		return
	}
	defer tx.Rollback(r.Context())

	if err := h.reviews.Create(r.Context(), tx, review); err != nil {
		RespondError(w, domain.ErrInternal("create review", err))
		return
	}
	if err := tx.Commit(r.Context()); err != nil {
		RespondError(w, domain.ErrInternal("commit tx", err))
		return
	}
	RespondJSON(w, http.StatusCreated, review)
}

// ListByCourt handles GET /courts/{id}/reviews.
func (h *ReviewHandler) ListByCourt(w http.ResponseWriter, r *http.Request) {
	courtID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid court id"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	reviews, err := h.reviews.ListByCourt(r.Context(), h.pool, courtID, limit)
	if err != nil {
		RespondError(w, domain.ErrInternal("list reviews", err))
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	RespondJSON(w, http.StatusOK, reviews)
}

// Delete handles DELETE /reviews/{id}. The author may delete their own
// review; admins may delete any. Both paths soft-delete.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid review id"))
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		RespondError(w, domain.ErrUnauthorized("invalid subject"))
		return
	}

	review, err := h.reviews.FindByID(r.Context(), h.pool, reviewID)
	if err != nil {
		RespondError(w, domain.ErrInternal("find review", err))
		return
	}
	if review == nil || review.IsDeleted {
		RespondError(w, domain.ErrNotFound("review", reviewID.String()))
		return
	}
	if review.AuthorID != userID && !h.admins.IsAdmin(claims) {
		RespondError(w, domain.ErrForbidden("only the author or an admin may delete a review"))
		return
	}

	deleted, err := h.reviews.SoftDelete(r.Context(), h.pool, reviewID, userID)
	if err != nil {
		RespondError(w, domain.ErrInternal("delete review", err))
		return
	}
	if !deleted {
		RespondError(w, domain.ErrNotFound("review", reviewID.String()))
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
