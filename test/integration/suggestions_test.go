//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/courtside/platform/internal/auth"
	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/repository"
	"github.com/courtside/platform/test/integration/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suggestionBody(name, address string) map[string]interface{} {
	return map[string]interface{}{
		"name":             name,
		"address":          address,
		"city":             "Chicago",
		"state":            "IL",
		"zip":              "60601",
		"number_of_courts": 4,
		"surface":          "hard",
		"condition":        "good",
		"court_type":       "outdoor",
		"lights":           true,
		"parking":          "street",
	}
}

// ─── Suggestion Creation ───────────────────────────────────────────────────

func TestSuggestions_Create(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.UserToken("Alice")

	resp := env.AuthPOST("/suggestions", suggestionBody("Lincoln Park Courts", "100 Lake Shore Dr"), token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusCreated)

	var suggestion struct {
		ID          uuid.UUID `json:"id"`
		Status      string    `json:"status"`
		SubmitterID uuid.UUID `json:"submitter_id"`
		Latitude    float64   `json:"latitude"`
		Longitude   float64   `json:"longitude"`
	}
	testutil.DecodeJSON(t, resp, &suggestion)
	assert.Equal(t, "pending", suggestion.Status)
	assert.Equal(t, userID, suggestion.SubmitterID)
	// Coordinates come from the geocoder, not the client.
	assert.InDelta(t, 41.8781, suggestion.Latitude, 0.001)
	assert.InDelta(t, -87.6298, suggestion.Longitude, 0.001)

	assert.Equal(t, 1, testutil.CountOutboxEvents(t, env, suggestion.ID, "suggestion.created"))
}

func TestSuggestions_CreateRequiresAuth(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.POST("/suggestions", suggestionBody("No Auth Courts", "1 Nowhere Ln"), "")
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
}

func TestSuggestions_CreateMissingFields(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")

	body := suggestionBody("Incomplete", "2 Short St")
	delete(body, "city")
	body["city"] = ""

	resp := env.AuthPOST("/suggestions", body, token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "VALIDATION_ERROR")
}

func TestSuggestions_CreateZeroCourts(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")

	body := suggestionBody("Zero Courts", "3 Empty Ave")
	body["number_of_courts"] = 0

	resp := env.AuthPOST("/suggestions", body, token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusBadRequest)
}

func TestSuggestions_CreateGeocodeNoResult(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	env.Geocoder.NoResult = true

	resp := env.AuthPOST("/suggestions", suggestionBody("Nowhere Courts", "404 Missing Rd"), token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "VALIDATION_ERROR")
}

func TestSuggestions_CreateDuplicateCourtAddress(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	env.SeedCourt("Existing Court", "Chicago")

	// SeedCourt derives the address from the court ID, so look it up.
	var address string
	require.NoError(t, env.Pool.QueryRow(t.Context(),
		"SELECT address FROM courts WHERE name = 'Existing Court'").Scan(&address))

	resp := env.AuthPOST("/suggestions", suggestionBody("Existing Again", address), token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusConflict)
	testutil.AssertErrorCode(t, resp, "CONFLICT")
}

func TestSuggestions_CreateDuplicatePendingAddress(t *testing.T) {
	env := testutil.NewTestEnv(t)
	tokenA, _ := env.UserToken("Alice")
	tokenB, _ := env.UserToken("Bob")

	resp := env.AuthPOST("/suggestions", suggestionBody("First Pending", "500 Repeat Blvd"), tokenA)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.AuthPOST("/suggestions", suggestionBody("Second Pending", "500 Repeat Blvd"), tokenB)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusConflict)
}

func TestSuggestions_PendingAddressIndexMapsToDuplicatePending(t *testing.T) {
	// When two submissions race past the pre-insert address check, the
	// loser hits the partial unique index and must come back as
	// ErrDuplicatePending rather than a raw Postgres error.
	env := testutil.NewTestEnv(t)
	repo := repository.NewSuggestionRepository()

	newSuggestion := func(name string) *domain.CourtSuggestion {
		return &domain.CourtSuggestion{
			Name:           name,
			Address:        "700 Race Condition Rd",
			City:           "Chicago",
			State:          "IL",
			Zip:            "60601",
			Latitude:       41.88,
			Longitude:      -87.63,
			NumberOfCourts: 2,
			Surface:        "hard",
			Condition:      "good",
			CourtType:      "outdoor",
			Parking:        "street",
			SubmitterID:    uuid.New(),
			SubmitterName:  "Alice",
		}
	}

	require.NoError(t, repo.Create(t.Context(), env.Pool, newSuggestion("Winner")))

	err := repo.Create(t.Context(), env.Pool, newSuggestion("Loser"))
	assert.ErrorIs(t, err, repository.ErrDuplicatePending)
}

func TestSuggestions_ListMine(t *testing.T) {
	env := testutil.NewTestEnv(t)
	tokenA, _ := env.UserToken("Alice")
	tokenB, _ := env.UserToken("Bob")

	resp := env.AuthPOST("/suggestions", suggestionBody("Alice Courts", "600 Alice Way"), tokenA)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.AuthGET("/suggestions/mine", tokenB)
	defer resp.Body.Close()

	var list []struct {
		Name string `json:"name"`
	}
	testutil.DecodeJSON(t, resp, &list)
	assert.Empty(t, list)

	resp = env.AuthGET("/suggestions/mine", tokenA)
	testutil.DecodeJSON(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Alice Courts", list[0].Name)
}

// ─── Admin Review ──────────────────────────────────────────────────────────

func createSuggestion(t *testing.T, env *testutil.TestEnv, token, name, address string) uuid.UUID {
	t.Helper()
	resp := env.AuthPOST("/suggestions", suggestionBody(name, address), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var suggestion struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &suggestion)
	return suggestion.ID
}

func TestSuggestions_AdminListPending(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	createSuggestion(t, env, token, "Pending Courts", "700 Review St")

	resp := env.AuthGET("/admin/suggestions", env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusOK)
	var list []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	testutil.DecodeJSON(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "pending", list[0].Status)
}

func TestSuggestions_AdminListRequiresAdmin(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")

	resp := env.AuthGET("/admin/suggestions", token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
}

func TestSuggestions_AdminListRejectsUserRealmToken(t *testing.T) {
	env := testutil.NewTestEnv(t)

	// Same allow-listed identity, wrong realm: the admin surface only
	// accepts tokens issued in the admin realm.
	token, err := env.JWTMgr.GenerateToken(auth.RealmUser, env.AdminID, "Test Admin", "admin@test.com", "")
	require.NoError(t, err)

	resp := env.AuthGET("/admin/suggestions", token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
	testutil.AssertErrorCode(t, resp, "UNAUTHORIZED")
}

func TestSuggestions_ApproveCreatesCourt(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	id := createSuggestion(t, env, token, "Approved Courts", "800 Approve Ave")

	note := "looks legit"
	resp := env.AuthPOST("/admin/suggestions/"+id.String()+"/review",
		map[string]interface{}{"action": "approve", "note": note}, env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusOK)
	var reviewed struct {
		Status     string `json:"status"`
		ReviewNote string `json:"review_note"`
	}
	testutil.DecodeJSON(t, resp, &reviewed)
	assert.Equal(t, "approved", reviewed.Status)
	assert.Equal(t, note, reviewed.ReviewNote)

	// Approval materializes a real court row.
	assert.Equal(t, 1, testutil.CourtCount(t, env, "Approved Courts"))
	assert.Equal(t, 1, testutil.CountOutboxEvents(t, env, id, "suggestion.approved"))

	// The new court is publicly visible.
	listResp := env.GET("/courts?city=Chicago")
	defer listResp.Body.Close()
	var courts []struct {
		Name string `json:"name"`
	}
	testutil.DecodeJSON(t, listResp, &courts)
	require.Len(t, courts, 1)
	assert.Equal(t, "Approved Courts", courts[0].Name)
}

func TestSuggestions_Reject(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	id := createSuggestion(t, env, token, "Rejected Courts", "900 Reject Rd")

	resp := env.AuthPOST("/admin/suggestions/"+id.String()+"/review",
		map[string]interface{}{"action": "reject"}, env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusOK)
	assert.Equal(t, 0, testutil.CourtCount(t, env, "Rejected Courts"))
	assert.Equal(t, 1, testutil.CountOutboxEvents(t, env, id, "suggestion.rejected"))
}

func TestSuggestions_ReviewTwiceConflicts(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	id := createSuggestion(t, env, token, "Once Only", "1000 Single Ln")

	resp := env.AuthPOST("/admin/suggestions/"+id.String()+"/review",
		map[string]interface{}{"action": "approve"}, env.AdminToken())
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.AuthPOST("/admin/suggestions/"+id.String()+"/review",
		map[string]interface{}{"action": "reject"}, env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusConflict)
	testutil.AssertErrorCode(t, resp, "ALREADY_REVIEWED")

	// The approved court survives the failed second review.
	assert.Equal(t, 1, testutil.CourtCount(t, env, "Once Only"))
}

func TestSuggestions_ReviewUnknownAction(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	id := createSuggestion(t, env, token, "Bad Action", "1100 Typo Ct")

	resp := env.AuthPOST("/admin/suggestions/"+id.String()+"/review",
		map[string]interface{}{"action": "maybe"}, env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusBadRequest)
}

func TestSuggestions_Review404(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.AuthPOST("/admin/suggestions/"+uuid.New().String()+"/review",
		map[string]interface{}{"action": "approve"}, env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusNotFound)
}

func TestSuggestions_SelfReviewForbidden(t *testing.T) {
	env := testutil.NewTestEnv(t)

	// The admin submits a suggestion as a regular user, then tries to
	// review it with their admin token.
	adminUserToken, err := env.JWTMgr.GenerateToken(auth.RealmUser, env.AdminID, "Admin As User", "admin@test.com", "")
	require.NoError(t, err)
	id := createSuggestion(t, env, adminUserToken, "Self Serve", "1200 Mirror Dr")

	resp := env.AuthPOST("/admin/suggestions/"+id.String()+"/review",
		map[string]interface{}{"action": "approve"}, env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusForbidden)
	assert.Equal(t, 0, testutil.CourtCount(t, env, "Self Serve"))
}
