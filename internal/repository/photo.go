package repository

import (
	"context"
	"fmt"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const courtPhotoColumns = `id, court_id, uploader_id, uploader_name, photo_url,
	caption, is_deleted, deleted_by, delete_reason, deleted_at, created_at`

type photoRepo struct{}

// NewPhotoRepository returns a pgx-backed PhotoRepository.
func NewPhotoRepository() PhotoRepository {
	return &photoRepo{}
}

func (r *photoRepo) Create(ctx context.Context, db DBTX, photo *domain.CourtPhoto) error {
	row := db.QueryRow(ctx, `
		INSERT INTO court_photos (court_id, uploader_id, uploader_name, photo_url, caption)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		photo.CourtID, photo.UploaderID, photo.UploaderName, photo.PhotoURL, photo.Caption)
	if err := row.Scan(&photo.ID, &photo.CreatedAt); err != nil {
		return fmt.Errorf("insert court photo: %w", err)
	}
	return nil
}

func (r *photoRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.CourtPhoto, error) {
	row := db.QueryRow(ctx, `SELECT `+courtPhotoColumns+` FROM court_photos WHERE id = $1`, id)
	return scanCourtPhoto(row)
}

func (r *photoRepo) ListByCourt(ctx context.Context, db DBTX, courtID uuid.UUID) ([]domain.CourtPhoto, error) {
	rows, err := db.Query(ctx, `
		SELECT `+courtPhotoColumns+` FROM court_photos
		WHERE court_id = $1 AND is_deleted = false
		ORDER BY created_at DESC`, courtID)
	if err != nil {
		return nil, fmt.Errorf("list court photos: %w", err)
	}
	defer rows.Close()

	var photos []domain.CourtPhoto
	for rows.Next() {
		p, err := scanCourtPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, *p)
	}
	return photos, rows.Err()
}

func (r *photoRepo) SoftDelete(ctx context.Context, db DBTX, id, actorID uuid.UUID, reason *string) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE court_photos
		SET is_deleted = true, deleted_by = $2, delete_reason = $3, deleted_at = now()
		WHERE id = $1 AND is_deleted = false`, id, actorID, reason)
	if err != nil {
		return false, fmt.Errorf("soft delete court photo: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanCourtPhoto(row pgx.Row) (*domain.CourtPhoto, error) {
	var p domain.CourtPhoto
	err := row.Scan(&p.ID, &p.CourtID, &p.UploaderID, &p.UploaderName,
		&p.PhotoURL, &p.Caption, &p.IsDeleted, &p.DeletedBy, &p.DeleteReason,
		&p.DeletedAt, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan court photo: %w", err)
	}
	return &p, nil
}
