package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
)

type contextKey string

const (
	claimsKey  contextKey = "auth_claims"
	subjectKey contextKey = "auth_subject"
)

// ClaimsFromContext extracts JWT claims from request context.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// SubjectFromContext extracts the subject ID string from request context.
func SubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(subjectKey).(string)
	return sub
}

// UserIDFromContext extracts the authenticated user's UUID from request context.
func UserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	sub := SubjectFromContext(ctx)
	if sub == "" {
		return uuid.Nil, domain.ErrUnauthorized("no auth context")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized("invalid subject claim")
	}
	return id, nil
}

// Authenticate returns middleware that validates bearer tokens from either
// realm and places the claims in context. Absence of identity is answered
// with 401 at this boundary; the handlers behind it can assume a caller.
func Authenticate(jwtMgr *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				respondAuthError(w, domain.ErrUnauthorized(err.Error()))
				return
			}
			claims, err := jwtMgr.ValidateToken(token)
			if err != nil {
				respondAuthError(w, domain.ErrUnauthorized(err.Error()))
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// AuthenticateAdmin returns middleware that only accepts tokens issued in the
// admin realm. User-realm tokens are rejected with 401 even when the subject
// would pass the admin policy, keeping the realms' separate issuance and
// expiry meaningful.
func AuthenticateAdmin(jwtMgr *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				respondAuthError(w, domain.ErrUnauthorized(err.Error()))
				return
			}
			claims, err := jwtMgr.ValidateTokenForRealm(token, RealmAdmin)
			if err != nil {
				respondAuthError(w, domain.ErrUnauthorized(err.Error()))
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin returns middleware that rejects authenticated callers the
// AdminPolicy does not recognize as admins.
func RequireAdmin(policy *AdminPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				respondAuthError(w, domain.ErrUnauthorized("no auth context"))
				return
			}
			if !policy.IsAdmin(claims) {
				respondAuthError(w, domain.ErrForbidden("admin privilege required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BanChecker reports whether a user holds an effective ban for a scope.
type BanChecker interface {
	IsBanned(ctx context.Context, userID uuid.UUID, scope domain.BanScope) (bool, error)
}

// RequireNotBanned returns middleware gating content-submission routes on the
// caller's ban status for the given scope (or a full-scope ban).
func RequireNotBanned(checker BanChecker, scope domain.BanScope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := UserIDFromContext(r.Context())
			if err != nil {
				respondAuthError(w, domain.ErrUnauthorized("no auth context"))
				return
			}

			banned, err := checker.IsBanned(r.Context(), userID, scope)
			if err != nil {
				respondAuthError(w, domain.ErrInternal("ban check failed", err))
				return
			}
			if banned {
				respondAuthError(w, domain.ErrBanned(scope))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	return context.WithValue(ctx, subjectKey, claims.Subject)
}

// respondAuthError writes the same JSON error shape the handlers use.
func respondAuthError(w http.ResponseWriter, appErr *domain.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(appErr)
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("missing Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", fmt.Errorf("invalid Authorization format")
	}
	return parts[1], nil
}
