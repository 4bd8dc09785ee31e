package domain

import (
	"time"

	"github.com/google/uuid"
)

// SuggestionStatus is the lifecycle state of a suggestion. Pending is the only
// non-terminal state; approved and rejected admit no further transitions.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

// ValidSuggestionStatus reports whether s is one of the known statuses.
func ValidSuggestionStatus(s string) bool {
	switch SuggestionStatus(s) {
	case SuggestionPending, SuggestionApproved, SuggestionRejected:
		return true
	}
	return false
}

// ReviewAction is the admin decision applied to a pending suggestion.
type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

// CourtSuggestion is a user proposal for a new court. Approval materializes
// a Court row from the proposed attributes.
type CourtSuggestion struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Address            string           `json:"address"`
	City               string           `json:"city"`
	State              string           `json:"state"`
	Zip                string           `json:"zip"`
	Latitude           float64          `json:"latitude"`
	Longitude          float64          `json:"longitude"`
	NumberOfCourts     int              `json:"number_of_courts"`
	Surface            string           `json:"surface"`
	Condition          string           `json:"condition"`
	CourtType          string           `json:"court_type"`
	Lights             bool             `json:"lights"`
	HittingWall        bool             `json:"hitting_wall"`
	MembershipRequired bool             `json:"membership_required"`
	Parking            string           `json:"parking"`
	SubmitterID        uuid.UUID        `json:"submitter_id"`
	SubmitterName      string           `json:"submitter_name"`
	Status             SuggestionStatus `json:"status"`
	ReviewedBy         *uuid.UUID       `json:"reviewed_by,omitempty"`
	ReviewerName       *string          `json:"reviewer_name,omitempty"`
	ReviewNote         *string          `json:"review_note,omitempty"`
	ReviewedAt         *time.Time       `json:"reviewed_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// ToCourt builds the canonical Court inserted when the suggestion is approved.
// Boolean attributes default to false when the submitter left them unset.
func (s *CourtSuggestion) ToCourt() *Court {
	return &Court{
		Name:               s.Name,
		Address:            s.Address,
		City:               s.City,
		State:              s.State,
		Zip:                s.Zip,
		Latitude:           s.Latitude,
		Longitude:          s.Longitude,
		NumberOfCourts:     s.NumberOfCourts,
		Surface:            s.Surface,
		Condition:          s.Condition,
		CourtType:          s.CourtType,
		Lights:             s.Lights,
		HittingWall:        s.HittingWall,
		MembershipRequired: s.MembershipRequired,
		Parking:            s.Parking,
		IsPublic:           true,
	}
}

// CourtEditSuggestion proposes a sparse patch against an existing court.
// At most one pending edit suggestion may exist per (court, submitter).
type CourtEditSuggestion struct {
	ID            uuid.UUID        `json:"id"`
	CourtID       uuid.UUID        `json:"court_id"`
	Patch         CourtPatch       `json:"patch"`
	SubmitterID   uuid.UUID        `json:"submitter_id"`
	SubmitterName string           `json:"submitter_name"`
	Status        SuggestionStatus `json:"status"`
	ReviewedBy    *uuid.UUID       `json:"reviewed_by,omitempty"`
	ReviewerName  *string          `json:"reviewer_name,omitempty"`
	ReviewNote    *string          `json:"review_note,omitempty"`
	ReviewedAt    *time.Time       `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
