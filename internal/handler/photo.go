package handler

import (
	"net/http"

	"github.com/courtside/platform/internal/auth"
	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/provider"
	"github.com/courtside/platform/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxPhotoBytes caps a single uploaded photo at 10 MiB.
const maxPhotoBytes = 10 << 20

// PhotoHandler serves photo upload and court photo endpoints.
type PhotoHandler struct {
	photos  repository.PhotoRepository
	courts  repository.CourtRepository
	storage provider.ObjectStorage
	pool    *pgxpool.Pool
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(photos repository.PhotoRepository, courts repository.CourtRepository, storage provider.ObjectStorage, pool *pgxpool.Pool) *PhotoHandler {
	return &PhotoHandler{photos: photos, courts: courts, storage: storage, pool: pool}
}

// Upload handles POST /photos: a multipart form with a single "photo" part.
// The bytes land in object storage and the public URL comes back to the
// client for later attachment to a court or review.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		RespondError(w, domain.ErrValidation("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		RespondError(w, domain.ErrValidation("missing photo field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		RespondError(w, domain.ErrValidation("photo must be jpeg, png, or webp"))
		return
	}

	url, err := h.storage.Store(r.Context(), file, header.Size, contentType, "photos")
	if err != nil {
		RespondError(w, domain.ErrInternal("store photo", err))
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]string{"photo_url": url})
}

type attachPhotoRequest struct {
	PhotoURL string `json:"photo_url"`
	Caption  string `json:"caption"`
}

// Attach handles POST /courts/{id}/photos.
func (h *PhotoHandler) Attach(w http.ResponseWriter, r *http.Request) {
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

	var req attachPhotoRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if req.PhotoURL == "" {
		RespondError(w, domain.ErrValidation("photo_url is required"))
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

	photo := &domain.CourtPhoto{
		ID:           uuid.New(),
		CourtID:      courtID,
		UploaderID:   userID,
		UploaderName: claims.Name,
		PhotoURL:     req.PhotoURL,
		Caption:      req.Caption,
	}
	if err := h.photos.Create(r.Context(), h.pool, photo); err != nil {
		RespondError(w, domain.ErrInternal("attach photo", err))
		return
	}
	RespondJSON(w, http.StatusCreated, photo)
}

// ListByCourt handles GET /courts/{id}/photos.
func (h *PhotoHandler) ListByCourt(w http.ResponseWriter, r *http.Request) {
	courtID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid court id"))
		return
	}

	photos, err := h.photos.ListByCourt(r.Context(), h.pool, courtID)
	if err != nil {
		RespondError(w, domain.ErrInternal("list photos", err))
		return
	}
	if photos == nil {
		photos = []domain.CourtPhoto{}
	}
	RespondJSON(w, http.StatusOK, photos)
}
