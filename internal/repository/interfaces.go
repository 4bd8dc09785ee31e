package repository

import (
	"context"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// CourtFilter narrows court listings. The zero value matches every visible
// court. A bounding box applies only when all four corners are set.
type CourtFilter struct {
	City   string
	MinLat *float64
	MaxLat *float64
	MinLon *float64
	MaxLon *float64
}

// HasBBox reports whether the filter carries a complete bounding box.
func (f CourtFilter) HasBBox() bool {
	return f.MinLat != nil && f.MaxLat != nil && f.MinLon != nil && f.MaxLon != nil
}

// CourtRepository provides access to courts.
type CourtRepository interface {
	// FindByID returns a court by ID, or nil when absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Court, error)

	// List returns visible courts matching the filter, newest first.
	List(ctx context.Context, db DBTX, filter CourtFilter, limit int) ([]domain.Court, error)

	// Create inserts a new court and fills in its generated fields.
	Create(ctx context.Context, db DBTX, court *domain.Court) error

	// Update replaces all mutable columns of a court.
	Update(ctx context.Context, db DBTX, court *domain.Court) error

	// ApplyPatch merges only the non-nil fields of the patch onto the court
	// row using a single dynamically built UPDATE.
	ApplyPatch(ctx context.Context, db DBTX, id uuid.UUID, patch domain.CourtPatch) (*domain.Court, error)

	// SetVisibility flips the is_public flag.
	SetVisibility(ctx context.Context, db DBTX, id uuid.UUID, public bool) error

	// ExistsAtAddress reports whether a court exists at the normalized
	// (case-insensitive) address.
	ExistsAtAddress(ctx context.Context, db DBTX, address, city, state, zip string) (bool, error)
}

// SuggestionRepository provides access to court_suggestions.
type SuggestionRepository interface {
	// Create inserts a pending suggestion. A unique partial index allows at
	// most one pending row per normalized address; violations surface as
	// ErrDuplicatePending.
	Create(ctx context.Context, db DBTX, s *domain.CourtSuggestion) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.CourtSuggestion, error)
	ListBySubmitter(ctx context.Context, db DBTX, submitterID uuid.UUID) ([]domain.CourtSuggestion, error)
	ListByStatus(ctx context.Context, db DBTX, status domain.SuggestionStatus, limit int) ([]domain.CourtSuggestion, error)

	// PendingExistsAtAddress reports whether a pending suggestion targets the
	// normalized address.
	PendingExistsAtAddress(ctx context.Context, db DBTX, address, city, state, zip string) (bool, error)

	// Review transitions pending → approved/rejected with a single conditional
	// UPDATE and returns the reviewed row. Returns nil when the row was not
	// pending (or does not exist).
	Review(ctx context.Context, db DBTX, id uuid.UUID, status domain.SuggestionStatus, reviewerID uuid.UUID, reviewerName string, note *string) (*domain.CourtSuggestion, error)
}

// EditSuggestionRepository provides access to court_edit_suggestions.
type EditSuggestionRepository interface {
	// Create inserts a pending edit suggestion. A unique partial index allows
	// at most one pending row per (court, submitter); violations surface as
	// ErrDuplicatePending.
	Create(ctx context.Context, db DBTX, s *domain.CourtEditSuggestion) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.CourtEditSuggestion, error)
	ListByStatus(ctx context.Context, db DBTX, status domain.SuggestionStatus, limit int) ([]domain.CourtEditSuggestion, error)
	ListBySubmitter(ctx context.Context, db DBTX, submitterID uuid.UUID) ([]domain.CourtEditSuggestion, error)
	Review(ctx context.Context, db DBTX, id uuid.UUID, status domain.SuggestionStatus, reviewerID uuid.UUID, reviewerName string, note *string) (*domain.CourtEditSuggestion, error)
}

// ReviewRepository provides access to reviews and review_photos.
type ReviewRepository interface {
	Create(ctx context.Context, db DBTX, review *domain.Review) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Review, error)
	ListByCourt(ctx context.Context, db DBTX, courtID uuid.UUID, limit int) ([]domain.Review, error)
	SoftDelete(ctx context.Context, db DBTX, id, actorID uuid.UUID) (bool, error)

	// HardDelete removes the review row and its photo-moderation rows. Used
	// only by report resolution with the delete_review action.
	HardDelete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error)

	ListPhotos(ctx context.Context, db DBTX, reviewID uuid.UUID) ([]domain.ReviewPhoto, error)
}

// PhotoRepository provides access to court_photos.
type PhotoRepository interface {
	Create(ctx context.Context, db DBTX, photo *domain.CourtPhoto) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.CourtPhoto, error)
	ListByCourt(ctx context.Context, db DBTX, courtID uuid.UUID) ([]domain.CourtPhoto, error)

	// SoftDelete marks the photo deleted with actor and reason. Returns false
	// when the row is absent or already deleted.
	SoftDelete(ctx context.Context, db DBTX, id, actorID uuid.UUID, reason *string) (bool, error)
}

// ReportRepository provides access to reports.
type ReportRepository interface {
	// Create inserts a pending report. A unique partial index allows at most
	// one pending row per (target, reporter); violations surface as
	// ErrDuplicatePending.
	Create(ctx context.Context, db DBTX, report *domain.Report) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Report, error)
	ListByStatus(ctx context.Context, db DBTX, status domain.ReportStatus, limit int) ([]domain.Report, error)

	// Resolve transitions pending → dismissed/resolved with a single
	// conditional UPDATE. Returns nil when the row was not pending.
	Resolve(ctx context.Context, db DBTX, id uuid.UUID, status domain.ReportStatus, resolverID uuid.UUID, note *string) (*domain.Report, error)
}

// BanRepository provides access to user_bans.
type BanRepository interface {
	// Upsert inserts a ban row, or reactivates/updates the existing row for
	// the same (user, scope).
	Upsert(ctx context.Context, db DBTX, ban *domain.UserBan) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.UserBan, error)
	List(ctx context.Context, db DBTX, userID *uuid.UUID) ([]domain.UserBan, error)

	// Deactivate clears matching active bans; scope nil means all scopes.
	// Returns the number of rows deactivated.
	Deactivate(ctx context.Context, db DBTX, userID uuid.UUID, scope *domain.BanScope) (int64, error)

	// Patch updates reason/expiry/active in place, only for fields present.
	Patch(ctx context.Context, db DBTX, id uuid.UUID, patch domain.BanPatch) (*domain.UserBan, error)

	// IsBanned reports whether an active, unexpired ban row of the given
	// scope (or full) exists for the user.
	IsBanned(ctx context.Context, db DBTX, userID uuid.UUID, scope domain.BanScope) (bool, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event, ideally within the same transaction as
	// the write that produced it.
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error
}
