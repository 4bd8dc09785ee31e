package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus is the lifecycle state of a content report.
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportDismissed ReportStatus = "dismissed"
	ReportResolved  ReportStatus = "resolved"
)

// ValidReportStatus reports whether s is one of the known statuses.
func ValidReportStatus(s string) bool {
	switch ReportStatus(s) {
	case ReportPending, ReportDismissed, ReportResolved:
		return true
	}
	return false
}

// ReportTarget identifies what kind of content a report flags.
type ReportTarget string

const (
	TargetReview     ReportTarget = "review"
	TargetCourtPhoto ReportTarget = "court_photo"
)

// ValidReportTarget reports whether t is a reportable content kind.
func ValidReportTarget(t string) bool {
	switch ReportTarget(t) {
	case TargetReview, TargetCourtPhoto:
		return true
	}
	return false
}

// ResolveAction is the admin decision applied to a pending report. The two
// delete actions additionally remove the flagged content.
type ResolveAction string

const (
	ResolveDismiss      ResolveAction = "dismiss"
	ResolveKeep         ResolveAction = "resolve"
	ResolveDeleteReview ResolveAction = "delete_review"
	ResolveDeletePhoto  ResolveAction = "delete_photo"
)

// MaxReportReasonLen caps the free-text reason on a report.
const MaxReportReasonLen = 500

// Report is a user flag against a review or court photo. At most one pending
// report may exist per (target, reporter); once dismissed or resolved the
// same reporter may report the same target again.
type Report struct {
	ID             uuid.UUID    `json:"id"`
	TargetType     ReportTarget `json:"target_type"`
	TargetID       uuid.UUID    `json:"target_id"`
	ReporterID     uuid.UUID    `json:"reporter_id"`
	ReporterName   string       `json:"reporter_name"`
	Reason         string       `json:"reason"`
	Status         ReportStatus `json:"status"`
	ResolvedBy     *uuid.UUID   `json:"resolved_by,omitempty"`
	ResolutionNote *string      `json:"resolution_note,omitempty"`
	ResolvedAt     *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}
