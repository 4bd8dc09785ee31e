package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user review of a court with an optional set of photo URLs.
// Reviews are soft-deleted so moderation history survives.
type Review struct {
	ID         uuid.UUID  `json:"id"`
	CourtID    uuid.UUID  `json:"court_id"`
	AuthorID   uuid.UUID  `json:"author_id"`
	AuthorName string     `json:"author_name"`
	Rating     int        `json:"rating"`
	Body       string     `json:"body"`
	PhotoURLs  []string   `json:"photo_urls"`
	IsDeleted  bool       `json:"is_deleted"`
	DeletedBy  *uuid.UUID `json:"deleted_by,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ReviewPhoto tracks moderation state for one photo attached to a review,
// independently of the review's embedded URL list.
type ReviewPhoto struct {
	ID           uuid.UUID  `json:"id"`
	ReviewID     uuid.UUID  `json:"review_id"`
	PhotoURL     string     `json:"photo_url"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedBy    *uuid.UUID `json:"deleted_by,omitempty"`
	DeleteReason *string    `json:"delete_reason,omitempty"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CourtPhoto is a photo attached directly to a court rather than via a review.
type CourtPhoto struct {
	ID           uuid.UUID  `json:"id"`
	CourtID      uuid.UUID  `json:"court_id"`
	UploaderID   uuid.UUID  `json:"uploader_id"`
	UploaderName string     `json:"uploader_name"`
	PhotoURL     string     `json:"photo_url"`
	Caption      string     `json:"caption"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedBy    *uuid.UUID `json:"deleted_by,omitempty"`
	DeleteReason *string    `json:"delete_reason,omitempty"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
