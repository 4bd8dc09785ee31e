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

func TestReviews_Create(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.UserToken("Alice")
	courtID := env.SeedCourt("Review Target", "Chicago")

	resp := env.AuthPOST("/courts/"+courtID.String()+"/reviews", map[string]interface{}{
		"rating":     5,
		"body":       "great nets, fast surface",
		"photo_urls": []string{"http://storage.test/photos/abc.jpg"},
	}, token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusCreated)
	var review struct {
		ID        uuid.UUID `json:"id"`
		AuthorID  uuid.UUID `json:"author_id"`
		Rating    int       `json:"rating"`
		PhotoURLs []string  `json:"photo_urls"`
	}
	testutil.DecodeJSON(t, resp, &review)
	assert.Equal(t, userID, review.AuthorID)
	assert.Equal(t, 5, review.Rating)
	assert.Len(t, review.PhotoURLs, 1)
}

func TestReviews_CreateWritesModerationRows(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	courtID := env.SeedCourt("Gallery Court", "Chicago")

	resp := env.AuthPOST("/courts/"+courtID.String()+"/reviews", map[string]interface{}{
		"rating": 4,
		"body":   "photos attached",
		"photo_urls": []string{
			"http://storage.test/photos/one.jpg",
			"http://storage.test/photos/two.jpg",
		},
	}, token)
	defer resp.Body.Close()
	testutil.AssertStatus(t, resp, http.StatusCreated)

	var review struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &review)

	// Every submitted URL gets its own moderation row alongside the review.
	var count int
	require.NoError(t, env.Pool.QueryRow(t.Context(),
		"SELECT COUNT(*) FROM review_photos WHERE review_id = $1", review.ID).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestReviews_RatingOutOfRange(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")
	courtID := env.SeedCourt("Strict Court", "Chicago")

	for _, rating := range []int{0, 6, -1} {
		resp := env.AuthPOST("/courts/"+courtID.String()+"/reviews",
			map[string]interface{}{"rating": rating}, token)
		testutil.AssertStatus(t, resp, http.StatusBadRequest)
		resp.Body.Close()
	}
}

func TestReviews_CourtNotFound(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.UserToken("Alice")

	resp := env.AuthPOST("/courts/"+uuid.New().String()+"/reviews",
		map[string]interface{}{"rating": 3}, token)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusNotFound)
}

func TestReviews_ListPublic(t *testing.T) {
	env := testutil.NewTestEnv(t)
	courtID := env.SeedCourt("Listed Court", "Chicago")
	env.SeedReview(courtID, uuid.New(), 4, "solid courts")
	env.SeedReview(courtID, uuid.New(), 2, "cracked baseline")

	resp := env.GET("/courts/" + courtID.String() + "/reviews")
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusOK)
	var reviews []struct {
		Rating int `json:"rating"`
	}
	testutil.DecodeJSON(t, resp, &reviews)
	assert.Len(t, reviews, 2)
}

func TestReviews_ListExcludesDeleted(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.UserToken("Alice")
	courtID := env.SeedCourt("Pruned Court", "Chicago")
	reviewID := env.SeedReview(courtID, userID, 1, "deleting this")
	env.SeedReview(courtID, uuid.New(), 5, "keeping this")

	resp := env.AuthDELETE("/reviews/"+reviewID.String(), token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.GET("/courts/" + courtID.String() + "/reviews")
	defer resp.Body.Close()
	var reviews []struct {
		Rating int `json:"rating"`
	}
	testutil.DecodeJSON(t, resp, &reviews)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
}

func TestReviews_DeleteByNonAuthorForbidden(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, authorID := env.UserToken("Alice")
	otherToken, _ := env.UserToken("Bob")
	courtID := env.SeedCourt("Protected Court", "Chicago")
	reviewID := env.SeedReview(courtID, authorID, 3, "mine")

	resp := env.AuthDELETE("/reviews/"+reviewID.String(), otherToken)
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusForbidden)
	testutil.AssertErrorCode(t, resp, "FORBIDDEN")
}

func TestReviews_DeleteByAdmin(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, authorID := env.UserToken("Alice")
	courtID := env.SeedCourt("Moderated Court", "Chicago")
	reviewID := env.SeedReview(courtID, authorID, 1, "spam")

	resp := env.AuthDELETE("/reviews/"+reviewID.String(), env.AdminToken())
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusOK)

	var isDeleted bool
	require.NoError(t, env.Pool.QueryRow(t.Context(),
		"SELECT is_deleted FROM reviews WHERE id = $1", reviewID).Scan(&isDeleted))
	assert.True(t, isDeleted)
}

func TestReviews_DeleteTwice404(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.UserToken("Alice")
	courtID := env.SeedCourt("Gone Court", "Chicago")
	reviewID := env.SeedReview(courtID, userID, 2, "going")

	resp := env.AuthDELETE("/reviews/"+reviewID.String(), token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.AuthDELETE("/reviews/"+reviewID.String(), token)
	defer resp.Body.Close()
	testutil.AssertStatus(t, resp, http.StatusNotFound)
}
