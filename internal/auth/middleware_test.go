package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doAuthed(t *testing.T, h http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestAuthenticate(t *testing.T) {
	mgr := newTestJWTManager()

	t.Run("valid token reaches handler", func(t *testing.T) {
		userID := uuid.New()
		token, err := mgr.GenerateToken(RealmUser, userID, "Alice", "alice@test.com", "")
		require.NoError(t, err)

		var seen uuid.UUID
		h := Authenticate(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := UserIDFromContext(r.Context())
			require.NoError(t, err)
			seen = id
			w.WriteHeader(http.StatusOK)
		}))

		w := doAuthed(t, h, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID, seen)
	})

	t.Run("missing header rejected as JSON", func(t *testing.T) {
		h := Authenticate(mgr)(okHandler())
		w := doAuthed(t, h, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeErrorBody(t, w)
		assert.Equal(t, "UNAUTHORIZED", body["code"])
	})
}

func TestAuthenticateAdmin(t *testing.T) {
	mgr := newTestJWTManager()
	adminID := uuid.New()

	t.Run("admin realm token accepted", func(t *testing.T) {
		token, err := mgr.GenerateToken(RealmAdmin, adminID, "Admin", "admin@test.com", RoleSuperAdmin)
		require.NoError(t, err)

		h := AuthenticateAdmin(mgr)(okHandler())
		w := doAuthed(t, h, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("user realm token rejected even for an admin subject", func(t *testing.T) {
		token, err := mgr.GenerateToken(RealmUser, adminID, "Admin", "admin@test.com", "")
		require.NoError(t, err)

		h := AuthenticateAdmin(mgr)(okHandler())
		w := doAuthed(t, h, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeErrorBody(t, w)
		assert.Equal(t, "UNAUTHORIZED", body["code"])
	})
}

// fakeBanChecker answers IsBanned from a fixed map of banned scopes.
type fakeBanChecker struct {
	banned map[domain.BanScope]bool
	err    error
}

func (f *fakeBanChecker) IsBanned(ctx context.Context, userID uuid.UUID, scope domain.BanScope) (bool, error) {
	return f.banned[scope], f.err
}

func TestRequireNotBanned(t *testing.T) {
	mgr := newTestJWTManager()
	token, err := mgr.GenerateToken(RealmUser, uuid.New(), "Alice", "alice@test.com", "")
	require.NoError(t, err)

	t.Run("banned scope rejected with BANNED code", func(t *testing.T) {
		checker := &fakeBanChecker{banned: map[domain.BanScope]bool{domain.BanReviews: true}}
		h := Authenticate(mgr)(RequireNotBanned(checker, domain.BanReviews)(okHandler()))

		w := doAuthed(t, h, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		body := decodeErrorBody(t, w)
		assert.Equal(t, "BANNED", body["code"])
	})

	t.Run("unbanned scope passes through", func(t *testing.T) {
		checker := &fakeBanChecker{banned: map[domain.BanScope]bool{domain.BanReviews: true}}
		h := Authenticate(mgr)(RequireNotBanned(checker, domain.BanPhotos)(okHandler()))

		w := doAuthed(t, h, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
