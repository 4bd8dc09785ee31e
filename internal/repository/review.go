package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reviewColumns = `id, court_id, author_id, author_name, rating, body,
	photo_urls, is_deleted, deleted_by, deleted_at, created_at`

type reviewRepo struct{}

// NewReviewRepository returns a pgx-backed ReviewRepository.
func NewReviewRepository() ReviewRepository {
	return &reviewRepo{}
}

// Create inserts the review and one review_photos moderation row per photo URL.
func (r *reviewRepo) Create(ctx context.Context, db DBTX, review *domain.Review) error {
	urls, err := json.Marshal(review.PhotoURLs)
	if err != nil {
		return fmt.Errorf("encode photo urls: %w", err)
	}

	row := db.QueryRow(ctx, `
		INSERT INTO reviews (court_id, author_id, author_name, rating, body, photo_urls)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		review.CourtID, review.AuthorID, review.AuthorName, review.Rating, review.Body, urls)
	if err := row.Scan(&review.ID, &review.CreatedAt); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	for _, u := range review.PhotoURLs {
		if _, err := db.Exec(ctx, `
			INSERT INTO review_photos (review_id, photo_url) VALUES ($1, $2)`,
			review.ID, u); err != nil {
			return fmt.Errorf("insert review photo: %w", err)
		}
	}
	return nil
}

func (r *reviewRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Review, error) {
	row := db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
	return scanReview(row)
}

func (r *reviewRepo) ListByCourt(ctx context.Context, db DBTX, courtID uuid.UUID, limit int) ([]domain.Review, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT `+reviewColumns+` FROM reviews
		WHERE court_id = $1 AND is_deleted = false
		ORDER BY created_at DESC LIMIT $2`, courtID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rev)
	}
	return reviews, rows.Err()
}

func (r *reviewRepo) SoftDelete(ctx context.Context, db DBTX, id, actorID uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE reviews SET is_deleted = true, deleted_by = $2, deleted_at = now()
		WHERE id = $1 AND is_deleted = false`, id, actorID)
	if err != nil {
		return false, fmt.Errorf("soft delete review: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *reviewRepo) HardDelete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error) {
	if _, err := db.Exec(ctx, `DELETE FROM review_photos WHERE review_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete review photos: %w", err)
	}
	tag, err := db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *reviewRepo) ListPhotos(ctx context.Context, db DBTX, reviewID uuid.UUID) ([]domain.ReviewPhoto, error) {
	rows, err := db.Query(ctx, `
		SELECT id, review_id, photo_url, is_deleted, deleted_by, delete_reason, deleted_at, created_at
		FROM review_photos WHERE review_id = $1 ORDER BY created_at ASC`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list review photos: %w", err)
	}
	defer rows.Close()

	var photos []domain.ReviewPhoto
	for rows.Next() {
		var p domain.ReviewPhoto
		if err := rows.Scan(&p.ID, &p.ReviewID, &p.PhotoURL, &p.IsDeleted,
			&p.DeletedBy, &p.DeleteReason, &p.DeletedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rev domain.Review
	var urls []byte
	err := row.Scan(&rev.ID, &rev.CourtID, &rev.AuthorID, &rev.AuthorName,
		&rev.Rating, &rev.Body, &urls, &rev.IsDeleted, &rev.DeletedBy,
		&rev.DeletedAt, &rev.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	if len(urls) > 0 {
		if err := json.Unmarshal(urls, &rev.PhotoURLs); err != nil {
			return nil, fmt.Errorf("decode photo urls: %w", err)
		}
	}
	return &rev, nil
}
