package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/provider"
	"github.com/courtside/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ModerationService handles content reports and their resolution, including
// the destructive resolve actions that remove the flagged content.
type ModerationService struct {
	pool    *pgxpool.Pool
	reviews repository.ReviewRepository
	photos  repository.PhotoRepository
	reports repository.ReportRepository
	outbox  repository.OutboxRepository
	storage provider.ObjectStorage
	logger  *slog.Logger
}

// NewModerationService creates a ModerationService.
func NewModerationService(
	pool *pgxpool.Pool,
	reviews repository.ReviewRepository,
	photos repository.PhotoRepository,
	reports repository.ReportRepository,
	outbox repository.OutboxRepository,
	storage provider.ObjectStorage,
	logger *slog.Logger,
) *ModerationService {
	return &ModerationService{
		pool:    pool,
		reviews: reviews,
		photos:  photos,
		reports: reports,
		outbox:  outbox,
		storage: storage,
		logger:  logger,
	}
}

// ReportInput carries a user flag against a review or court photo.
type ReportInput struct {
	TargetType string    `json:"target_type"`
	TargetID   uuid.UUID `json:"target_id"`
	Reason     string    `json:"reason"`
}

// CreateReport validates the target still exists and records a pending
// report. A second pending report by the same reporter against the same
// target is rejected; re-reporting after resolution is allowed.
func (s *ModerationService) CreateReport(ctx context.Context, in ReportInput, reporterID uuid.UUID, reporterName string) (*domain.Report, error) {
	if !domain.ValidReportTarget(in.TargetType) {
		return nil, domain.ErrValidation(fmt.Sprintf("unknown target type %q", in.TargetType))
	}
	if err := domain.ValidateReportReason(in.Reason); err != nil {
		return nil, err
	}

	target := domain.ReportTarget(in.TargetType)
	if err := s.targetExists(ctx, target, in.TargetID); err != nil {
		return nil, err
	}

	report := &domain.Report{
		ID:           uuid.New(),
		TargetType:   target,
		TargetID:     in.TargetID,
		ReporterID:   reporterID,
		ReporterName: reporterName,
		Reason:       in.Reason,
		Status:       domain.ReportPending,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.reports.Create(ctx, tx, report); err != nil {
		if errors.Is(err, repository.ErrDuplicatePending) {
			return nil, domain.ErrConflict("you already have a pending report against this content")
		}
		return nil, domain.ErrInternal("create report", err)
	}
	event := domain.NewModerationEvent(domain.AggregateReport, report.ID, domain.EventReportCreated, map[string]string{
		"report_id":   report.ID.String(),
		"target_type": string(target),
		"target_id":   in.TargetID.String(),
	})
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("record report event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("report created", "report_id", report.ID, "target_type", target, "target_id", in.TargetID)
	return report, nil
}

func (s *ModerationService) targetExists(ctx context.Context, target domain.ReportTarget, id uuid.UUID) error {
	switch target {
	case domain.TargetReview:
		review, err := s.reviews.FindByID(ctx, s.pool, id)
		if err != nil {
			return domain.ErrInternal("find review", err)
		}
		if review == nil || review.IsDeleted {
			return domain.ErrNotFound("review", id.String())
		}
	case domain.TargetCourtPhoto:
		photo, err := s.photos.FindByID(ctx, s.pool, id)
		if err != nil {
			return domain.ErrInternal("find photo", err)
		}
		if photo == nil || photo.IsDeleted {
			return domain.ErrNotFound("photo", id.String())
		}
	}
	return nil
}

// ListReports returns reports in the given status, oldest pending first.
func (s *ModerationService) ListReports(ctx context.Context, status domain.ReportStatus, limit int) ([]domain.Report, error) {
	list, err := s.reports.ListByStatus(ctx, s.pool, status, limit)
	if err != nil {
		return nil, domain.ErrInternal("list reports", err)
	}
	return list, nil
}

// ResolveReport closes a pending report. The delete_review and delete_photo
// actions additionally remove the flagged content; a report already closed
// yields a conflict regardless of action.
func (s *ModerationService) ResolveReport(ctx context.Context, id uuid.UUID, action domain.ResolveAction, note *string, resolverID uuid.UUID) (*domain.Report, error) {
	var status domain.ReportStatus
	switch action {
	case domain.ResolveDismiss:
		status = domain.ReportDismissed
	case domain.ResolveKeep, domain.ResolveDeleteReview, domain.ResolveDeletePhoto:
		status = domain.ReportResolved
	default:
		return nil, domain.ErrValidation(fmt.Sprintf("unknown resolve action %q", action))
	}

	existing, err := s.reports.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find report", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound("report", id.String())
	}
	if action == domain.ResolveDeleteReview && existing.TargetType != domain.TargetReview {
		return nil, domain.ErrValidation("delete_review requires a review target")
	}
	if action == domain.ResolveDeletePhoto && existing.TargetType != domain.TargetCourtPhoto {
		return nil, domain.ErrValidation("delete_photo requires a photo target")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	// Claim the report first. A report already decided conflicts here and
	// never touches the flagged content or its backing object.
	report, err := s.reports.Resolve(ctx, tx, id, status, resolverID, note)
	if err != nil {
		return nil, domain.ErrInternal("resolve report", err)
	}
	if report == nil {
		return nil, domain.ErrAlreadyReviewed("report")
	}

	switch action {
	case domain.ResolveDeleteReview:
		if _, err := s.reviews.HardDelete(ctx, tx, report.TargetID); err != nil {
			return nil, domain.ErrInternal("delete reported review", err)
		}
	case domain.ResolveDeletePhoto:
		// The backing object is attempted before the row is marked; a storage
		// failure is logged and the row is still marked so the content
		// disappears from the API either way.
		photo, err := s.photos.FindByID(ctx, tx, report.TargetID)
		if err != nil {
			return nil, domain.ErrInternal("find photo", err)
		}
		if photo != nil && !photo.IsDeleted {
			if err := s.storage.Delete(ctx, photo.PhotoURL); err != nil {
				s.logger.Error("delete photo object", "error", err, "photo_id", photo.ID, "url", photo.PhotoURL)
			}
		}
		reason := "removed via report " + report.ID.String()
		if _, err := s.photos.SoftDelete(ctx, tx, report.TargetID, resolverID, &reason); err != nil {
			return nil, domain.ErrInternal("delete reported photo", err)
		}
	}

	eventType := domain.EventReportResolved
	if status == domain.ReportDismissed {
		eventType = domain.EventReportDismissed
	}
	event := domain.NewModerationEvent(domain.AggregateReport, report.ID, eventType, map[string]string{
		"report_id":   report.ID.String(),
		"action":      string(action),
		"resolver_id": resolverID.String(),
	})
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("record resolution event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("report resolved", "report_id", report.ID, "action", action, "resolver_id", resolverID)
	return report, nil
}

// DeletePhoto removes a court photo outside of any report: the backing
// object is deleted best-effort, then the row is marked deleted.
func (s *ModerationService) DeletePhoto(ctx context.Context, id uuid.UUID, reason *string, actorID uuid.UUID) error {
	photo, err := s.photos.FindByID(ctx, s.pool, id)
	if err != nil {
		return domain.ErrInternal("find photo", err)
	}
	if photo == nil || photo.IsDeleted {
		return domain.ErrNotFound("photo", id.String())
	}

	if err := s.storage.Delete(ctx, photo.PhotoURL); err != nil {
		s.logger.Error("delete photo object", "error", err, "photo_id", id, "url", photo.PhotoURL)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	deleted, err := s.photos.SoftDelete(ctx, tx, id, actorID, reason)
	if err != nil {
		return domain.ErrInternal("delete photo", err)
	}
	if !deleted {
		return domain.ErrNotFound("photo", id.String())
	}
	event := domain.NewModerationEvent(domain.AggregatePhoto, id, domain.EventPhotoDeleted, map[string]string{
		"photo_id": id.String(),
		"actor_id": actorID.String(),
	})
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return domain.ErrInternal("record photo event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("photo deleted", "photo_id", id, "actor_id", actorID)
	return nil
}
