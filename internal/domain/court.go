package domain

import (
	"time"

	"github.com/google/uuid"
)

// Court is the canonical record for a tennis court location. Courts are
// created by approving a suggestion or by direct admin insertion and are
// never hard-deleted in the normal flow; visibility is controlled by IsPublic.
type Court struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Address            string    `json:"address"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	Zip                string    `json:"zip"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	NumberOfCourts     int       `json:"number_of_courts"`
	Surface            string    `json:"surface"`
	Condition          string    `json:"condition"`
	CourtType          string    `json:"court_type"`
	Lights             bool      `json:"lights"`
	HittingWall        bool      `json:"hitting_wall"`
	MembershipRequired bool      `json:"membership_required"`
	Parking            string    `json:"parking"`
	IsPublic           bool      `json:"is_public"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CourtPatch is a sparse update of a Court. Nil fields mean "leave unchanged";
// an approved edit suggestion is applied by merging only the non-nil fields.
type CourtPatch struct {
	Name               *string  `json:"name,omitempty"`
	Address            *string  `json:"address,omitempty"`
	City               *string  `json:"city,omitempty"`
	State              *string  `json:"state,omitempty"`
	Zip                *string  `json:"zip,omitempty"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	NumberOfCourts     *int     `json:"number_of_courts,omitempty"`
	Surface            *string  `json:"surface,omitempty"`
	Condition          *string  `json:"condition,omitempty"`
	CourtType          *string  `json:"court_type,omitempty"`
	Lights             *bool    `json:"lights,omitempty"`
	HittingWall        *bool    `json:"hitting_wall,omitempty"`
	MembershipRequired *bool    `json:"membership_required,omitempty"`
	Parking            *string  `json:"parking,omitempty"`
	IsPublic           *bool    `json:"is_public,omitempty"`
}

// IsEmpty reports whether the patch proposes no change at all.
func (p CourtPatch) IsEmpty() bool {
	return p.Name == nil && p.Address == nil && p.City == nil && p.State == nil &&
		p.Zip == nil && p.Latitude == nil && p.Longitude == nil &&
		p.NumberOfCourts == nil && p.Surface == nil && p.Condition == nil &&
		p.CourtType == nil && p.Lights == nil && p.HittingWall == nil &&
		p.MembershipRequired == nil && p.Parking == nil && p.IsPublic == nil
}
