package repository

import (
	"context"
	"fmt"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const editSuggestionColumns = `id, court_id, name, address, city, state, zip,
	latitude, longitude, number_of_courts, surface, condition, court_type,
	lights, hitting_wall, membership_required, parking,
	submitter_id, submitter_name, status,
	reviewed_by, reviewer_name, review_note, reviewed_at, created_at`

type editSuggestionRepo struct{}

// NewEditSuggestionRepository returns a pgx-backed EditSuggestionRepository.
func NewEditSuggestionRepository() EditSuggestionRepository {
	return &editSuggestionRepo{}
}

// Create inserts the sparse patch as nullable columns; NULL means "no change".
// The partial unique index on (court_id, submitter_id) WHERE status='pending'
// rejects a second pending row.
func (r *editSuggestionRepo) Create(ctx context.Context, db DBTX, s *domain.CourtEditSuggestion) error {
	p := s.Patch
	row := db.QueryRow(ctx, `
		INSERT INTO court_edit_suggestions (court_id, name, address, city, state, zip,
			latitude, longitude, number_of_courts, surface, condition, court_type,
			lights, hitting_wall, membership_required, parking,
			submitter_id, submitter_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at`,
		s.CourtID, p.Name, p.Address, p.City, p.State, p.Zip,
		p.Latitude, p.Longitude, p.NumberOfCourts, p.Surface, p.Condition,
		p.CourtType, p.Lights, p.HittingWall, p.MembershipRequired, p.Parking,
		s.SubmitterID, s.SubmitterName, domain.SuggestionPending)

	if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePending
		}
		return fmt.Errorf("insert edit suggestion: %w", err)
	}
	s.Status = domain.SuggestionPending
	return nil
}

func (r *editSuggestionRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.CourtEditSuggestion, error) {
	row := db.QueryRow(ctx, `SELECT `+editSuggestionColumns+` FROM court_edit_suggestions WHERE id = $1`, id)
	return scanEditSuggestion(row)
}

func (r *editSuggestionRepo) ListByStatus(ctx context.Context, db DBTX, status domain.SuggestionStatus, limit int) ([]domain.CourtEditSuggestion, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT `+editSuggestionColumns+` FROM court_edit_suggestions
		WHERE status = $1 ORDER BY created_at ASC LIMIT $2`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list edit suggestions by status: %w", err)
	}
	defer rows.Close()
	return collectEditSuggestions(rows)
}

func (r *editSuggestionRepo) ListBySubmitter(ctx context.Context, db DBTX, submitterID uuid.UUID) ([]domain.CourtEditSuggestion, error) {
	rows, err := db.Query(ctx, `
		SELECT `+editSuggestionColumns+` FROM court_edit_suggestions
		WHERE submitter_id = $1 ORDER BY created_at DESC`, submitterID)
	if err != nil {
		return nil, fmt.Errorf("list edit suggestions by submitter: %w", err)
	}
	defer rows.Close()
	return collectEditSuggestions(rows)
}

func (r *editSuggestionRepo) Review(ctx context.Context, db DBTX, id uuid.UUID, status domain.SuggestionStatus, reviewerID uuid.UUID, reviewerName string, note *string) (*domain.CourtEditSuggestion, error) {
	row := db.QueryRow(ctx, `
		UPDATE court_edit_suggestions
		SET status = $2, reviewed_by = $3, reviewer_name = $4, review_note = $5, reviewed_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+editSuggestionColumns,
		id, status, reviewerID, reviewerName, note)
	return scanEditSuggestion(row)
}

func collectEditSuggestions(rows pgx.Rows) ([]domain.CourtEditSuggestion, error) {
	var out []domain.CourtEditSuggestion
	for rows.Next() {
		s, err := scanEditSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanEditSuggestion(row pgx.Row) (*domain.CourtEditSuggestion, error) {
	var s domain.CourtEditSuggestion
	err := row.Scan(&s.ID, &s.CourtID,
		&s.Patch.Name, &s.Patch.Address, &s.Patch.City, &s.Patch.State, &s.Patch.Zip,
		&s.Patch.Latitude, &s.Patch.Longitude, &s.Patch.NumberOfCourts,
		&s.Patch.Surface, &s.Patch.Condition, &s.Patch.CourtType,
		&s.Patch.Lights, &s.Patch.HittingWall, &s.Patch.MembershipRequired, &s.Patch.Parking,
		&s.SubmitterID, &s.SubmitterName, &s.Status,
		&s.ReviewedBy, &s.ReviewerName, &s.ReviewNote, &s.ReviewedAt, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan edit suggestion: %w", err)
	}
	return &s, nil
}
