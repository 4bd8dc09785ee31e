package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const banColumns = `id, user_id, user_name, email, ban_type, reason, expires_at,
	is_active, created_by, created_at, updated_at`

type banRepo struct{}

// NewBanRepository returns a pgx-backed BanRepository.
func NewBanRepository() BanRepository {
	return &banRepo{}
}

// Upsert inserts a ban row; re-banning an identical (user, scope) reactivates
// and refreshes the existing row instead of stacking duplicates.
func (r *banRepo) Upsert(ctx context.Context, db DBTX, ban *domain.UserBan) error {
	row := db.QueryRow(ctx, `
		INSERT INTO user_bans (user_id, user_name, email, ban_type, reason, expires_at, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, true, $7)
		ON CONFLICT (user_id, ban_type) DO UPDATE
		SET user_name = EXCLUDED.user_name,
		    email = EXCLUDED.email,
		    reason = EXCLUDED.reason,
		    expires_at = EXCLUDED.expires_at,
		    is_active = true,
		    created_by = EXCLUDED.created_by,
		    updated_at = now()
		RETURNING id, is_active, created_at, updated_at`,
		ban.UserID, ban.UserName, ban.Email, ban.BanType, ban.Reason,
		ban.ExpiresAt, ban.CreatedBy)

	if err := row.Scan(&ban.ID, &ban.IsActive, &ban.CreatedAt, &ban.UpdatedAt); err != nil {
		return fmt.Errorf("upsert ban: %w", err)
	}
	return nil
}

func (r *banRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.UserBan, error) {
	row := db.QueryRow(ctx, `SELECT `+banColumns+` FROM user_bans WHERE id = $1`, id)
	return scanBan(row)
}

func (r *banRepo) List(ctx context.Context, db DBTX, userID *uuid.UUID) ([]domain.UserBan, error) {
	query := `SELECT ` + banColumns + ` FROM user_bans`
	args := []interface{}{}
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	defer rows.Close()

	var bans []domain.UserBan
	for rows.Next() {
		b, err := scanBan(rows)
		if err != nil {
			return nil, err
		}
		bans = append(bans, *b)
	}
	return bans, rows.Err()
}

func (r *banRepo) Deactivate(ctx context.Context, db DBTX, userID uuid.UUID, scope *domain.BanScope) (int64, error) {
	query := `UPDATE user_bans SET is_active = false, updated_at = now()
		WHERE user_id = $1 AND is_active = true`
	args := []interface{}{userID}
	if scope != nil {
		query += ` AND ban_type = $2`
		args = append(args, *scope)
	}

	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deactivate bans: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Patch updates only the fields present, with dynamic SET clauses.
func (r *banRepo) Patch(ctx context.Context, db DBTX, id uuid.UUID, patch domain.BanPatch) (*domain.UserBan, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}
	argIdx := 1

	if patch.Reason != nil {
		setClauses = append(setClauses, fmt.Sprintf("reason = $%d", argIdx))
		args = append(args, *patch.Reason)
		argIdx++
	}
	if patch.ExpiresAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("expires_at = $%d", argIdx))
		args = append(args, *patch.ExpiresAt)
		argIdx++
	}
	if patch.IsActive != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *patch.IsActive)
		argIdx++
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE user_bans SET %s WHERE id = $%d RETURNING `+banColumns,
		strings.Join(setClauses, ", "), argIdx)

	row := db.QueryRow(ctx, query, args...)
	return scanBan(row)
}

// IsBanned checks for an active, unexpired row of matching or full scope.
// Expiration is evaluated against now() so no deactivation sweep is needed.
func (r *banRepo) IsBanned(ctx context.Context, db DBTX, userID uuid.UUID, scope domain.BanScope) (bool, error) {
	var banned bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM user_bans
			WHERE user_id = $1
			  AND is_active = true
			  AND (ban_type = $2 OR ban_type = 'full')
			  AND (expires_at IS NULL OR expires_at > now()))`,
		userID, scope).Scan(&banned)
	if err != nil {
		return false, fmt.Errorf("check ban: %w", err)
	}
	return banned, nil
}

func scanBan(row pgx.Row) (*domain.UserBan, error) {
	var b domain.UserBan
	err := row.Scan(&b.ID, &b.UserID, &b.UserName, &b.Email, &b.BanType,
		&b.Reason, &b.ExpiresAt, &b.IsActive, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan ban: %w", err)
	}
	return &b, nil
}
