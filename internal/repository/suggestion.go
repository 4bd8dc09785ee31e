package repository

import (
	"context"
	"fmt"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const suggestionColumns = `id, name, address, city, state, zip, latitude, longitude,
	number_of_courts, surface, condition, court_type, lights, hitting_wall,
	membership_required, parking, submitter_id, submitter_name, status,
	reviewed_by, reviewer_name, review_note, reviewed_at, created_at`

type suggestionRepo struct{}

// NewSuggestionRepository returns a pgx-backed SuggestionRepository.
func NewSuggestionRepository() SuggestionRepository {
	return &suggestionRepo{}
}

func (r *suggestionRepo) Create(ctx context.Context, db DBTX, s *domain.CourtSuggestion) error {
	row := db.QueryRow(ctx, `
		INSERT INTO court_suggestions (name, address, city, state, zip, latitude,
			longitude, number_of_courts, surface, condition, court_type, lights,
			hitting_wall, membership_required, parking, submitter_id, submitter_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at`,
		s.Name, s.Address, s.City, s.State, s.Zip, s.Latitude, s.Longitude,
		s.NumberOfCourts, s.Surface, s.Condition, s.CourtType, s.Lights,
		s.HittingWall, s.MembershipRequired, s.Parking, s.SubmitterID,
		s.SubmitterName, domain.SuggestionPending)

	if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
		// The partial unique index on the normalized address WHERE
		// status='pending' catches the loser of a concurrent submission.
		if isUniqueViolation(err) {
			return ErrDuplicatePending
		}
		return fmt.Errorf("insert court suggestion: %w", err)
	}
	s.Status = domain.SuggestionPending
	return nil
}

func (r *suggestionRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.CourtSuggestion, error) {
	row := db.QueryRow(ctx, `SELECT `+suggestionColumns+` FROM court_suggestions WHERE id = $1`, id)
	return scanSuggestion(row)
}

func (r *suggestionRepo) ListBySubmitter(ctx context.Context, db DBTX, submitterID uuid.UUID) ([]domain.CourtSuggestion, error) {
	rows, err := db.Query(ctx, `
		SELECT `+suggestionColumns+` FROM court_suggestions
		WHERE submitter_id = $1 ORDER BY created_at DESC`, submitterID)
	if err != nil {
		return nil, fmt.Errorf("list suggestions by submitter: %w", err)
	}
	defer rows.Close()
	return collectSuggestions(rows)
}

func (r *suggestionRepo) ListByStatus(ctx context.Context, db DBTX, status domain.SuggestionStatus, limit int) ([]domain.CourtSuggestion, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT `+suggestionColumns+` FROM court_suggestions
		WHERE status = $1 ORDER BY created_at ASC LIMIT $2`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list suggestions by status: %w", err)
	}
	defer rows.Close()
	return collectSuggestions(rows)
}

func (r *suggestionRepo) PendingExistsAtAddress(ctx context.Context, db DBTX, address, city, state, zip string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM court_suggestions
			WHERE status = 'pending'
			  AND lower(trim(address)) = lower(trim($1))
			  AND lower(trim(city)) = lower(trim($2))
			  AND lower(trim(state)) = lower(trim($3))
			  AND lower(trim(zip)) = lower(trim($4)))`,
		address, city, state, zip).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending suggestion address: %w", err)
	}
	return exists, nil
}

// Review performs the pending-state transition as one conditional UPDATE so
// two concurrent reviewers cannot both win.
func (r *suggestionRepo) Review(ctx context.Context, db DBTX, id uuid.UUID, status domain.SuggestionStatus, reviewerID uuid.UUID, reviewerName string, note *string) (*domain.CourtSuggestion, error) {
	row := db.QueryRow(ctx, `
		UPDATE court_suggestions
		SET status = $2, reviewed_by = $3, reviewer_name = $4, review_note = $5, reviewed_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+suggestionColumns,
		id, status, reviewerID, reviewerName, note)
	return scanSuggestion(row)
}

func collectSuggestions(rows pgx.Rows) ([]domain.CourtSuggestion, error) {
	var out []domain.CourtSuggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanSuggestion(row pgx.Row) (*domain.CourtSuggestion, error) {
	var s domain.CourtSuggestion
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.State, &s.Zip,
		&s.Latitude, &s.Longitude, &s.NumberOfCourts, &s.Surface, &s.Condition,
		&s.CourtType, &s.Lights, &s.HittingWall, &s.MembershipRequired,
		&s.Parking, &s.SubmitterID, &s.SubmitterName, &s.Status,
		&s.ReviewedBy, &s.ReviewerName, &s.ReviewNote, &s.ReviewedAt, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan court suggestion: %w", err)
	}
	return &s, nil
}
