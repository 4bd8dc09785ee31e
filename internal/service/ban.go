package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BanService manages user bans and answers the per-request ban checks the
// auth middleware performs on content-submission routes.
type BanService struct {
	pool   *pgxpool.Pool
	bans   repository.BanRepository
	outbox repository.OutboxRepository
	logger *slog.Logger
}

// NewBanService creates a BanService.
func NewBanService(pool *pgxpool.Pool, bans repository.BanRepository, outbox repository.OutboxRepository, logger *slog.Logger) *BanService {
	return &BanService{pool: pool, bans: bans, outbox: outbox, logger: logger}
}

// BanInput carries the attributes of a new ban.
type BanInput struct {
	UserID    uuid.UUID  `json:"user_id"`
	UserName  string     `json:"user_name"`
	Email     *string    `json:"email,omitempty"`
	BanType   string     `json:"ban_type"`
	Reason    *string    `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Ban records an active ban for a user. Banning the same (user, scope) again
// while an earlier row is active updates that row in place.
func (s *BanService) Ban(ctx context.Context, in BanInput, adminID uuid.UUID) (*domain.UserBan, error) {
	if !domain.ValidBanScope(in.BanType) {
		return nil, domain.ErrValidation(fmt.Sprintf("unknown ban type %q", in.BanType))
	}
	if in.UserID == uuid.Nil {
		return nil, domain.ErrValidation("user_id is required")
	}
	if in.Email != nil {
		if err := domain.ValidateEmail(*in.Email); err != nil {
			return nil, err
		}
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(time.Now()) {
		return nil, domain.ErrValidation("expires_at must be in the future")
	}

	ban := &domain.UserBan{
		ID:        uuid.New(),
		UserID:    in.UserID,
		UserName:  in.UserName,
		Email:     in.Email,
		BanType:   domain.BanScope(in.BanType),
		Reason:    in.Reason,
		ExpiresAt: in.ExpiresAt,
		IsActive:  true,
		CreatedBy: adminID,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.bans.Upsert(ctx, tx, ban); err != nil {
		return nil, domain.ErrInternal("upsert ban", err)
	}
	event := domain.NewModerationEvent(domain.AggregateBan, ban.ID, domain.EventBanCreated, map[string]string{
		"ban_id":   ban.ID.String(),
		"user_id":  in.UserID.String(),
		"ban_type": in.BanType,
		"admin_id": adminID.String(),
	})
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("record ban event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("user banned", "ban_id", ban.ID, "user_id", in.UserID, "ban_type", in.BanType, "admin_id", adminID)
	return ban, nil
}

// Unban deactivates a user's bans. A nil scope lifts every scope; otherwise
// only the matching scope is lifted. Returns 404 when nothing was active.
func (s *BanService) Unban(ctx context.Context, userID uuid.UUID, scope *domain.BanScope, adminID uuid.UUID) error {
	if scope != nil && !domain.ValidBanScope(string(*scope)) {
		return domain.ErrValidation(fmt.Sprintf("unknown ban type %q", *scope))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	count, err := s.bans.Deactivate(ctx, tx, userID, scope)
	if err != nil {
		return domain.ErrInternal("deactivate bans", err)
	}
	if count == 0 {
		return domain.ErrNotFound("active ban for user", userID.String())
	}
	event := domain.NewModerationEvent(domain.AggregateBan, userID, domain.EventBanLifted, map[string]string{
		"user_id":  userID.String(),
		"admin_id": adminID.String(),
	})
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return domain.ErrInternal("record unban event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("user unbanned", "user_id", userID, "admin_id", adminID)
	return nil
}

// ListBans returns ban rows, optionally scoped to one user. With activeOnly
// set, rows that no longer restrict anything are dropped, which excludes
// deactivated bans and expired ones whose is_active flag was never flipped.
func (s *BanService) ListBans(ctx context.Context, userID *uuid.UUID, activeOnly bool) ([]domain.UserBan, error) {
	list, err := s.bans.List(ctx, s.pool, userID)
	if err != nil {
		return nil, domain.ErrInternal("list bans", err)
	}
	if !activeOnly {
		return list, nil
	}

	now := time.Now()
	effective := make([]domain.UserBan, 0, len(list))
	for _, b := range list {
		if b.EffectiveAt(b.BanType, now) {
			effective = append(effective, b)
		}
	}
	return effective, nil
}

// UpdateBan applies a sparse patch to a ban row.
func (s *BanService) UpdateBan(ctx context.Context, id uuid.UUID, patch domain.BanPatch) (*domain.UserBan, error) {
	if patch.IsEmpty() {
		return nil, domain.ErrValidation("patch must change at least one field")
	}
	ban, err := s.bans.Patch(ctx, s.pool, id, patch)
	if err != nil {
		return nil, domain.ErrInternal("patch ban", err)
	}
	if ban == nil {
		return nil, domain.ErrNotFound("ban", id.String())
	}
	return ban, nil
}

// IsBanned reports whether the user currently holds an active, unexpired ban
// covering the scope. Implements the middleware's ban check.
func (s *BanService) IsBanned(ctx context.Context, userID uuid.UUID, scope domain.BanScope) (bool, error) {
	return s.bans.IsBanned(ctx, s.pool, userID, scope)
}
