package repository

import (
	"context"
	"fmt"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reportColumns = `id, target_type, target_id, reporter_id, reporter_name,
	reason, status, resolved_by, resolution_note, resolved_at, created_at`

type reportRepo struct{}

// NewReportRepository returns a pgx-backed ReportRepository.
func NewReportRepository() ReportRepository {
	return &reportRepo{}
}

// Create relies on the partial unique index over (target_type, target_id,
// reporter_id) WHERE status='pending' to reject duplicate pending reports.
func (r *reportRepo) Create(ctx context.Context, db DBTX, report *domain.Report) error {
	row := db.QueryRow(ctx, `
		INSERT INTO reports (target_type, target_id, reporter_id, reporter_name, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		report.TargetType, report.TargetID, report.ReporterID,
		report.ReporterName, report.Reason, domain.ReportPending)

	if err := row.Scan(&report.ID, &report.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePending
		}
		return fmt.Errorf("insert report: %w", err)
	}
	report.Status = domain.ReportPending
	return nil
}

func (r *reportRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Report, error) {
	row := db.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	return scanReport(row)
}

func (r *reportRepo) ListByStatus(ctx context.Context, db DBTX, status domain.ReportStatus, limit int) ([]domain.Report, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT `+reportColumns+` FROM reports
		WHERE status = $1 ORDER BY created_at ASC LIMIT $2`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, rows.Err()
}

// Resolve performs the pending-state transition as one conditional UPDATE.
func (r *reportRepo) Resolve(ctx context.Context, db DBTX, id uuid.UUID, status domain.ReportStatus, resolverID uuid.UUID, note *string) (*domain.Report, error) {
	row := db.QueryRow(ctx, `
		UPDATE reports
		SET status = $2, resolved_by = $3, resolution_note = $4, resolved_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+reportColumns,
		id, status, resolverID, note)
	return scanReport(row)
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var rep domain.Report
	err := row.Scan(&rep.ID, &rep.TargetType, &rep.TargetID, &rep.ReporterID,
		&rep.ReporterName, &rep.Reason, &rep.Status, &rep.ResolvedBy,
		&rep.ResolutionNote, &rep.ResolvedAt, &rep.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}
	return &rep, nil
}
