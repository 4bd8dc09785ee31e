package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const courtColumns = `id, name, address, city, state, zip, latitude, longitude,
	number_of_courts, surface, condition, court_type, lights, hitting_wall,
	membership_required, parking, is_public, created_at, updated_at`

type courtRepo struct{}

// NewCourtRepository returns a pgx-backed CourtRepository.
func NewCourtRepository() CourtRepository {
	return &courtRepo{}
}

func (r *courtRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Court, error) {
	row := db.QueryRow(ctx, `SELECT `+courtColumns+` FROM courts WHERE id = $1`, id)
	return scanCourt(row)
}

func (r *courtRepo) List(ctx context.Context, db DBTX, filter CourtFilter, limit int) ([]domain.Court, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	query := `SELECT ` + courtColumns + ` FROM courts WHERE is_public = true`
	args := []interface{}{}
	if filter.City != "" {
		args = append(args, filter.City)
		query += fmt.Sprintf(` AND lower(city) = lower($%d)`, len(args))
	}
	if filter.HasBBox() {
		args = append(args, *filter.MinLat, *filter.MaxLat, *filter.MinLon, *filter.MaxLon)
		query += fmt.Sprintf(` AND latitude BETWEEN $%d AND $%d AND longitude BETWEEN $%d AND $%d`,
			len(args)-3, len(args)-2, len(args)-1, len(args))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}
	defer rows.Close()

	var courts []domain.Court
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, err
		}
		courts = append(courts, *c)
	}
	return courts, rows.Err()
}

func (r *courtRepo) Create(ctx context.Context, db DBTX, court *domain.Court) error {
	row := db.QueryRow(ctx, `
		INSERT INTO courts (name, address, city, state, zip, latitude, longitude,
			number_of_courts, surface, condition, court_type, lights, hitting_wall,
			membership_required, parking, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`,
		court.Name, court.Address, court.City, court.State, court.Zip,
		court.Latitude, court.Longitude, court.NumberOfCourts, court.Surface,
		court.Condition, court.CourtType, court.Lights, court.HittingWall,
		court.MembershipRequired, court.Parking, court.IsPublic)

	if err := row.Scan(&court.ID, &court.CreatedAt, &court.UpdatedAt); err != nil {
		return fmt.Errorf("insert court: %w", err)
	}
	return nil
}

func (r *courtRepo) Update(ctx context.Context, db DBTX, court *domain.Court) error {
	tag, err := db.Exec(ctx, `
		UPDATE courts SET name = $2, address = $3, city = $4, state = $5, zip = $6,
			latitude = $7, longitude = $8, number_of_courts = $9, surface = $10,
			condition = $11, court_type = $12, lights = $13, hitting_wall = $14,
			membership_required = $15, parking = $16, is_public = $17, updated_at = now()
		WHERE id = $1`,
		court.ID, court.Name, court.Address, court.City, court.State, court.Zip,
		court.Latitude, court.Longitude, court.NumberOfCourts, court.Surface,
		court.Condition, court.CourtType, court.Lights, court.HittingWall,
		court.MembershipRequired, court.Parking, court.IsPublic)
	if err != nil {
		return fmt.Errorf("update court: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ApplyPatch merges only the non-nil patch fields using dynamic SET clauses,
// so absent fields keep their prior values.
func (r *courtRepo) ApplyPatch(ctx context.Context, db DBTX, id uuid.UUID, patch domain.CourtPatch) (*domain.Court, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}
	argIdx := 1

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.City != nil {
		add("city", *patch.City)
	}
	if patch.State != nil {
		add("state", *patch.State)
	}
	if patch.Zip != nil {
		add("zip", *patch.Zip)
	}
	if patch.Latitude != nil {
		add("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		add("longitude", *patch.Longitude)
	}
	if patch.NumberOfCourts != nil {
		add("number_of_courts", *patch.NumberOfCourts)
	}
	if patch.Surface != nil {
		add("surface", *patch.Surface)
	}
	if patch.Condition != nil {
		add("condition", *patch.Condition)
	}
	if patch.CourtType != nil {
		add("court_type", *patch.CourtType)
	}
	if patch.Lights != nil {
		add("lights", *patch.Lights)
	}
	if patch.HittingWall != nil {
		add("hitting_wall", *patch.HittingWall)
	}
	if patch.MembershipRequired != nil {
		add("membership_required", *patch.MembershipRequired)
	}
	if patch.Parking != nil {
		add("parking", *patch.Parking)
	}
	if patch.IsPublic != nil {
		add("is_public", *patch.IsPublic)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE courts SET %s WHERE id = $%d RETURNING `+courtColumns,
		strings.Join(setClauses, ", "), argIdx)

	row := db.QueryRow(ctx, query, args...)
	return scanCourt(row)
}

func (r *courtRepo) SetVisibility(ctx context.Context, db DBTX, id uuid.UUID, public bool) error {
	tag, err := db.Exec(ctx,
		`UPDATE courts SET is_public = $2, updated_at = now() WHERE id = $1`, id, public)
	if err != nil {
		return fmt.Errorf("set court visibility: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courtRepo) ExistsAtAddress(ctx context.Context, db DBTX, address, city, state, zip string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM courts
			WHERE lower(trim(address)) = lower(trim($1))
			  AND lower(trim(city)) = lower(trim($2))
			  AND lower(trim(state)) = lower(trim($3))
			  AND lower(trim(zip)) = lower(trim($4)))`,
		address, city, state, zip).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check court address: %w", err)
	}
	return exists, nil
}

func scanCourt(row pgx.Row) (*domain.Court, error) {
	var c domain.Court
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.City, &c.State, &c.Zip,
		&c.Latitude, &c.Longitude, &c.NumberOfCourts, &c.Surface, &c.Condition,
		&c.CourtType, &c.Lights, &c.HittingWall, &c.MembershipRequired,
		&c.Parking, &c.IsPublic, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan court: %w", err)
	}
	return &c, nil
}
