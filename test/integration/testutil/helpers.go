//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/courtside/platform/internal/auth"
	"github.com/google/uuid"
)

// UserToken generates a JWT for a fresh regular user and returns the token
// together with the user's ID.
func (env *TestEnv) UserToken(name string) (token string, userID uuid.UUID) {
	env.t.Helper()
	userID = uuid.New()
	email := fmt.Sprintf("user_%s@test.com", userID.String()[:8])
	token, err := env.JWTMgr.GenerateToken(auth.RealmUser, userID, name, email, "")
	if err != nil {
		env.t.Fatalf("UserToken: %v", err)
	}
	return token, userID
}

// AdminToken generates a JWT for the allow-listed admin of this environment.
func (env *TestEnv) AdminToken() string {
	env.t.Helper()
	token, err := env.JWTMgr.GenerateToken(auth.RealmAdmin, env.AdminID, "Test Admin", "admin@test.com", auth.RoleSuperAdmin)
	if err != nil {
		env.t.Fatalf("AdminToken: %v", err)
	}
	return token
}

// DomainAdminToken generates a JWT for a user whose email domain is on the
// admin domain allow-list but whose ID is not.
func (env *TestEnv) DomainAdminToken() string {
	env.t.Helper()
	token, err := env.JWTMgr.GenerateToken(auth.RealmAdmin, uuid.New(), "Domain Admin", "mod@courts.example.com", "")
	if err != nil {
		env.t.Fatalf("DomainAdminToken: %v", err)
	}
	return token
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with optional auth token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.request("POST", path, body, token)
}

// AuthGET performs an authenticated GET request.
func (env *TestEnv) AuthGET(path, token string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("GET", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("AuthGET %s: new request: %v", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("AuthGET %s: %v", path, err)
	}
	return resp
}

// AuthPOST performs an authenticated POST request.
func (env *TestEnv) AuthPOST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.request("POST", path, body, token)
}

// AuthPUT performs an authenticated PUT request.
func (env *TestEnv) AuthPUT(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.request("PUT", path, body, token)
}

// AuthPATCH performs an authenticated PATCH request.
func (env *TestEnv) AuthPATCH(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.request("PATCH", path, body, token)
}

// AuthDELETE performs an authenticated DELETE request.
func (env *TestEnv) AuthDELETE(path, token string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("DELETE", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("DELETE %s: new request: %v", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("DELETE %s: %v", path, err)
	}
	return resp
}

func (env *TestEnv) request(method, path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("%s %s: encode: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("%s %s: new request: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// SeedCourt inserts a public court directly into the DB and returns its ID.
func (env *TestEnv) SeedCourt(name, city string) uuid.UUID {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	courtID := uuid.New()
	addr := fmt.Sprintf("%s Main St", courtID.String()[:8])
	_, err := env.Pool.Exec(ctx, `
		INSERT INTO courts (id, name, address, city, state, zip, latitude, longitude,
			number_of_courts, surface, condition, court_type, lights, hitting_wall,
			membership_required, parking, is_public)
		VALUES ($1, $2, $3, $4, 'IL', '60601', 41.88, -87.63,
			4, 'hard', 'good', 'outdoor', true, false, false, 'street', true)`,
		courtID, name, addr, city)
	if err != nil {
		env.t.Fatalf("SeedCourt: %v", err)
	}
	return courtID
}

// SeedReview inserts a review for a court and returns its ID.
func (env *TestEnv) SeedReview(courtID, authorID uuid.UUID, rating int, body string) uuid.UUID {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var reviewID uuid.UUID
	err := env.Pool.QueryRow(ctx, `
		INSERT INTO reviews (court_id, author_id, author_name, rating, body)
		VALUES ($1, $2, 'Seed Author', $3, $4) RETURNING id`,
		courtID, authorID, rating, body).Scan(&reviewID)
	if err != nil {
		env.t.Fatalf("SeedReview: %v", err)
	}
	return reviewID
}

// SeedCourtPhoto inserts a court photo and returns its ID.
func (env *TestEnv) SeedCourtPhoto(courtID, uploaderID uuid.UUID, photoURL string) uuid.UUID {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var photoID uuid.UUID
	err := env.Pool.QueryRow(ctx, `
		INSERT INTO court_photos (court_id, uploader_id, uploader_name, photo_url, caption)
		VALUES ($1, $2, 'Seed Uploader', $3, 'seeded') RETURNING id`,
		courtID, uploaderID, photoURL).Scan(&photoID)
	if err != nil {
		env.t.Fatalf("SeedCourtPhoto: %v", err)
	}
	return photoID
}
