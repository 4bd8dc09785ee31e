package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Validator Tests ---

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "user@example.com", false},
		{"valid email with dots", "first.last@example.co.uk", false},
		{"valid email with plus", "user+tag@example.com", false},
		{"empty string", "", true},
		{"no at sign", "userexample.com", true},
		{"no domain", "user@", true},
		{"no tld", "user@example", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateRating(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		assert.NoError(t, ValidateRating(rating))
	}
	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(6))
	assert.Error(t, ValidateRating(-1))
}

func TestValidateReportReason(t *testing.T) {
	assert.NoError(t, ValidateReportReason("Spam"))
	assert.Error(t, ValidateReportReason(""))
	assert.Error(t, ValidateReportReason("   "))

	long := make([]byte, MaxReportReasonLen+1)
	for i := range long {
		long[i] = 'x'
	}
	assert.Error(t, ValidateReportReason(string(long)))
}

func TestValidateSuggestionFields(t *testing.T) {
	tests := []struct {
		name                          string
		cname, addr, city, state, zip string
		wantErr                       bool
	}{
		{"all present", "Test Court", "1 Main St", "Chicago", "IL", "60601", false},
		{"zip+4", "Test Court", "1 Main St", "Chicago", "IL", "60601-1234", false},
		{"missing name", "", "1 Main St", "Chicago", "IL", "60601", true},
		{"missing address", "Test Court", "", "Chicago", "IL", "60601", true},
		{"missing city", "Test Court", "1 Main St", "", "IL", "60601", true},
		{"missing state", "Test Court", "1 Main St", "Chicago", "", "60601", true},
		{"missing zip", "Test Court", "1 Main St", "Chicago", "IL", "", true},
		{"bad zip", "Test Court", "1 Main St", "Chicago", "IL", "606", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSuggestionFields(tt.cname, tt.addr, tt.city, tt.state, tt.zip)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidatorErrorsAreValidationErrors(t *testing.T) {
	// Validator failures must carry the 400 status so the response writer
	// does not collapse them to an opaque 500.
	tests := []struct {
		name string
		err  error
	}{
		{"email", ValidateEmail("not-an-email")},
		{"rating", ValidateRating(0)},
		{"reason", ValidateReportReason("")},
		{"suggestion fields", ValidateSuggestionFields("", "", "", "", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *AppError
			require.ErrorAs(t, tt.err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			assert.Equal(t, 400, appErr.Status)
		})
	}
}

// --- Ban effectiveness ---

func TestUserBanEffectiveAt(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name  string
		ban   UserBan
		scope BanScope
		want  bool
	}{
		{"active full ban covers reviews", UserBan{BanType: BanFull, IsActive: true}, BanReviews, true},
		{"active full ban covers photos", UserBan{BanType: BanFull, IsActive: true}, BanPhotos, true},
		{"matching scope", UserBan{BanType: BanReviews, IsActive: true}, BanReviews, true},
		{"non-matching scope", UserBan{BanType: BanReviews, IsActive: true}, BanPhotos, false},
		{"inactive", UserBan{BanType: BanFull, IsActive: false}, BanReviews, false},
		{"future expiry still effective", UserBan{BanType: BanReviews, IsActive: true, ExpiresAt: &future}, BanReviews, true},
		{"expired even while active", UserBan{BanType: BanReviews, IsActive: true, ExpiresAt: &past}, BanReviews, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ban.EffectiveAt(tt.scope, now))
		})
	}
}

// --- Sparse patch ---

func TestCourtPatchIsEmpty(t *testing.T) {
	assert.True(t, CourtPatch{}.IsEmpty())

	name := "Renamed"
	assert.False(t, CourtPatch{Name: &name}.IsEmpty())

	lights := true
	assert.False(t, CourtPatch{Lights: &lights}.IsEmpty())
}

func TestCourtPatchJSONOmitsAbsentFields(t *testing.T) {
	surf := "clay"
	body, err := json.Marshal(CourtPatch{Surface: &surf})
	require.NoError(t, err)
	assert.JSONEq(t, `{"surface":"clay"}`, string(body))
}

// --- Suggestion materialization ---

func TestSuggestionToCourt(t *testing.T) {
	s := &CourtSuggestion{
		Name:    "Test Court",
		Address: "1 Main St",
		City:    "Chicago",
		State:   "IL",
		Zip:     "60601",
		Lights:  true,
	}
	c := s.ToCourt()
	assert.Equal(t, "Test Court", c.Name)
	assert.Equal(t, "1 Main St", c.Address)
	assert.True(t, c.Lights)
	assert.False(t, c.HittingWall)
	assert.True(t, c.IsPublic)
}

// --- Errors ---

func TestAppErrorStatuses(t *testing.T) {
	assert.Equal(t, 404, ErrNotFound("court", uuid.Nil.String()).Status)
	assert.Equal(t, 409, ErrConflict("dup").Status)
	assert.Equal(t, 400, ErrValidation("bad").Status)
	assert.Equal(t, 401, ErrUnauthorized("no token").Status)
	assert.Equal(t, 403, ErrForbidden("nope").Status)
	assert.Equal(t, 403, ErrBanned(BanReviews).Status)
	assert.Equal(t, 409, ErrAlreadyReviewed("suggestion").Status)
	assert.Equal(t, 500, ErrInternal("boom", nil).Status)
}
