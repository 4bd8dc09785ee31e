//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/courtside/platform/test/integration/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportBody(targetType string, targetID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"target_type": targetType,
		"target_id":   targetID,
		"reason":      "offensive content",
	}
}

func fileReport(t *testing.T, env *testutil.TestEnv, token, targetType string, targetID uuid.UUID) uuid.UUID {
	t.Helper()
	resp := env.AuthPOST("/reports", reportBody(targetType, targetID), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var report struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &report)
	return report.ID
}

// ─── Report Creation ───────────────────────────────────────────────────────

func TestReports_CreateAgainstReview(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.UserToken("Alice")
	courtID := env.SeedCourt("Reported Court", "Chicago")
	reviewID := env.SeedReview(courtID, uuid.New(), 1, "rude review")

	resp := env.AuthPOST("/reports", reportBody("review", reviewID), token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusCreated)
	var report struct {
		ID         uuid.UUID `json:"id"`
		Status     string    `json:"status"`
		ReporterID uuid.UUID `json:"reporter_id"`
	}
	testutil.DecodeJSON(t, resp, &report)
	assert.Equal(t, "pending", report.Status)
	assert.Equal(t, userID, report.ReporterID)
	assert.Equal(t, 1, testutil.CountOutboxEvents(t, env, report.ID, "report.created"))
}

func TestReports_CreateAgainstPhoto(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	courtID := env.SeedCourt("Photo Court", "Chicago")
	photoID := env.SeedCourtPhoto(courtID, uuid.New(), "http://storage.test/photos/bad.jpg")

	resp := env.AuthPOST("/reports", reportBody("court_photo", photoID), token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusCreated)
}

func TestReports_UnknownTargetType(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")

	resp := env.AuthPOST("/reports", reportBody("court", uuid.New()), token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusBadRequest)
}

func TestReports_TargetNotFound(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")

	resp := env.AuthPOST("/reports", reportBody("review", uuid.New()), token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusNotFound)
}

func TestReports_DuplicatePendingConflicts(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	otherToken, _ := env.UserToken("Bob")
	courtID := env.SeedCourt("Dup Report Court", "Chicago")
	reviewID := env.SeedReview(courtID, uuid.New(), 1, "spicy take")

	fileReport(t, env, token, "review", reviewID)

	// Same reporter, same target: rejected while the first is pending.
	resp := env.AuthPOST("/reports", reportBody("review", reviewID), token)
	defer resp.Body.Close()
	testutil.AssertStatus(t, resp, http.StatusConflict)
	testutil.AssertErrorCode(t, resp, "CONFLICT")

	// A different reporter may still flag the same content.
	resp = env.AuthPOST("/reports", reportBody("review", reviewID), otherToken)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestReports_ReReportAfterDismissal(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	courtID := env.SeedCourt("Second Chance Court", "Chicago")
	reviewID := env.SeedReview(courtID, uuid.New(), 1, "borderline")

	reportID := fileReport(t, env, token, "review", reviewID)

	resp := env.AuthPOST("/admin/reports/"+reportID.String()+"/resolve",
		map[string]interface{}{"action": "dismiss"}, env.AdminToken())
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Once dismissed, the same reporter can file again.
	resp = env.AuthPOST("/reports", reportBody("review", reviewID), token)
	defer resp.Body.Close()
	testutil.AssertStatus(t, resp, http.StatusCreated)
}

// ─── Report Resolution ─────────────────────────────────────────────────────

func TestReports_AdminList(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	courtID := env.SeedCourt("Queue Court", "Chicago")
	reviewID := env.SeedReview(courtID, uuid.New(), 1, "flag me")
	fileReport(t, env, token, "review", reviewID)

	resp := env.AuthGET("/admin/reports", env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusOK)
	var list []struct {
		Status string `json:"status"`
	}
	testutil.DecodeJSON(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "pending", list[0].Status)
}

func TestReports_Dismiss(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	courtID := env.SeedCourt("Dismissed Court", "Chicago")
	reviewID := env.SeedReview(courtID, uuid.New(), 1, "fine actually")
	reportID := fileReport(t, env, token, "review", reviewID)

	note := "content is within guidelines"
	resp := env.AuthPOST("/admin/reports/"+reportID.String()+"/resolve",
		map[string]interface{}{"action": "dismiss", "note": note}, env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusOK)
	var report struct {
		Status         string `json:"status"`
		ResolutionNote string `json:"resolution_note"`
	}
	testutil.DecodeJSON(t, resp, &report)
	assert.Equal(t, "dismissed", report.Status)
	assert.Equal(t, note, report.ResolutionNote)

	// The reported review is untouched.
	var isDeleted bool
	require.NoError(t, env.Pool.QueryRow(t.Context(),
		"SELECT is_deleted FROM reviews WHERE id = $1", reviewID).Scan(&isDeleted))
	assert.False(t, isDeleted)
	assert.Equal(t, 1, testutil.CountOutboxEvents(t, env, reportID, "report.dismissed"))
}

func TestReports_ResolveDeleteReview(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	courtID := env.SeedCourt("Hard Delete Court", "Chicago")
	reviewID := env.SeedReview(courtID, uuid.New(), 1, "actually abusive")
	reportID := fileReport(t, env, token, "review", reviewID)

	resp := env.AuthPOST("/admin/reports/"+reportID.String()+"/resolve",
		map[string]interface{}{"action": "delete_review"}, env.AdminToken())
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// delete_review removes the row entirely.
	var count int
	require.NoError(t, env.Pool.QueryRow(t.Context(),
		"SELECT COUNT(*) FROM reviews WHERE id = $1", reviewID).Scan(&count))
	assert.Zero(t, count)
	assert.Equal(t, 1, testutil.CountOutboxEvents(t, env, reportID, "report.resolved"))
}

func TestReports_ResolveDeletePhoto(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	courtID := env.SeedCourt("Photo Takedown Court", "Chicago")
	photoID := env.SeedCourtPhoto(courtID, uuid.New(), "http://storage.test/photos/reported.jpg")
	reportID := fileReport(t, env, token, "court_photo", photoID)

	resp := env.AuthPOST("/admin/reports/"+reportID.String()+"/resolve",
		map[string]interface{}{"action": "delete_photo"}, env.AdminToken())
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var isDeleted bool
	var reason string
	require.NoError(t, env.Pool.QueryRow(t.Context(),
		"SELECT is_deleted, delete_reason FROM court_photos WHERE id = $1", photoID).
		Scan(&isDeleted, &reason))
	assert.True(t, isDeleted)
	assert.Contains(t, reason, reportID.String())
	assert.Equal(t, 1, env.Storage.DeleteCount())
}

func TestReports_ResolveDeletePhotoStorageFailure(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	courtID := env.SeedCourt("Sticky Photo Court", "Chicago")
	photoID := env.SeedCourtPhoto(courtID, uuid.New(), "http://storage.test/photos/sticky.jpg")
	reportID := fileReport(t, env, token, "court_photo", photoID)
	env.Storage.FailDeletes = true

	resp := env.AuthPOST("/admin/reports/"+reportID.String()+"/resolve",
		map[string]interface{}{"action": "delete_photo"}, env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusOK)

	var isDeleted bool
	require.NoError(t, env.Pool.QueryRow(t.Context(),
		"SELECT is_deleted FROM court_photos WHERE id = $1", photoID).Scan(&isDeleted))
	assert.True(t, isDeleted)
}

func TestReports_ResolveActionTargetMismatch(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	courtID := env.SeedCourt("Mismatch Court", "Chicago")
	reviewID := env.SeedReview(courtID, uuid.New(), 1, "wrong lever")
	reportID := fileReport(t, env, token, "review", reviewID)

	resp := env.AuthPOST("/admin/reports/"+reportID.String()+"/resolve",
		map[string]interface{}{"action": "delete_photo"}, env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusBadRequest)
}

func TestReports_ResolveTwiceConflicts(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	courtID := env.SeedCourt("Settled Court", "Chicago")
	reviewID := env.SeedReview(courtID, uuid.New(), 1, "settled matter")
	reportID := fileReport(t, env, token, "review", reviewID)

	resp := env.AuthPOST("/admin/reports/"+reportID.String()+"/resolve",
		map[string]interface{}{"action": "dismiss"}, env.AdminToken())
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.AuthPOST("/admin/reports/"+reportID.String()+"/resolve",
		map[string]interface{}{"action": "delete_review"}, env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusConflict)
	testutil.AssertErrorCode(t, resp, "ALREADY_REVIEWED")

	// The dismissed report's target is never deleted by the losing call.
	var count int
	require.NoError(t, env.Pool.QueryRow(t.Context(),
		"SELECT COUNT(*) FROM reviews WHERE id = $1", reviewID).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestReports_ResolveAfterDismissalLeavesPhotoObjectIntact(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	courtID := env.SeedCourt("Archive Court", "Chicago")
	photoID := env.SeedCourtPhoto(courtID, uuid.New(), "http://storage.test/photos/archived.jpg")
	reportID := fileReport(t, env, token, "court_photo", photoID)

	resp := env.AuthPOST("/admin/reports/"+reportID.String()+"/resolve",
		map[string]interface{}{"action": "dismiss"}, env.AdminToken())
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.AuthPOST("/admin/reports/"+reportID.String()+"/resolve",
		map[string]interface{}{"action": "delete_photo"}, env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusConflict)
	testutil.AssertErrorCode(t, resp, "ALREADY_REVIEWED")

	// The losing call must not have touched storage or the photo row.
	assert.Equal(t, 0, env.Storage.DeleteCount())
	var isDeleted bool
	require.NoError(t, env.Pool.QueryRow(t.Context(),
		"SELECT is_deleted FROM court_photos WHERE id = $1", photoID).Scan(&isDeleted))
	assert.False(t, isDeleted)
}

func TestReports_Resolve404(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.AuthPOST("/admin/reports/"+uuid.New().String()+"/resolve",
		map[string]interface{}{"action": "dismiss"}, env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusNotFound)
}
