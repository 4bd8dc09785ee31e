package domain

import (
	"time"

	"github.com/google/uuid"
)

// BanScope restricts which content-submission actions a ban covers.
// BanFull covers every scope.
type BanScope string

const (
	BanFull        BanScope = "full"
	BanReviews     BanScope = "reviews"
	BanSuggestions BanScope = "suggestions"
	BanPhotos      BanScope = "photos"
)

// ValidBanScope reports whether s is one of the known scopes.
func ValidBanScope(s string) bool {
	switch BanScope(s) {
	case BanFull, BanReviews, BanSuggestions, BanPhotos:
		return true
	}
	return false
}

// UserBan is an admin-imposed restriction on a user. A user may hold multiple
// rows of different scopes; the effective check treats any matching active,
// non-expired row (or a full-scope one) as banning the action.
type UserBan struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	UserName  string     `json:"user_name"`
	Email     *string    `json:"email,omitempty"`
	BanType   BanScope   `json:"ban_type"`
	Reason    *string    `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedBy uuid.UUID  `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// EffectiveAt reports whether the ban restricts the given scope at the given
// instant. Expiration is time-relative: a row past its ExpiresAt does not ban
// even while IsActive remains true.
func (b *UserBan) EffectiveAt(scope BanScope, now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.BanType != BanFull && b.BanType != scope {
		return false
	}
	if b.ExpiresAt != nil && !b.ExpiresAt.After(now) {
		return false
	}
	return true
}

// BanPatch is a sparse in-place update of a ban row.
type BanPatch struct {
	Reason    *string    `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p BanPatch) IsEmpty() bool {
	return p.Reason == nil && p.ExpiresAt == nil && p.IsActive == nil
}
