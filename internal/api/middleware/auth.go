package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/response"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/auth"
)

const sessionKey contextKey = "session"

// SessionResolver resolves a bearer token to the current session state.
// Defined here as the subset of auth.Service the guards need, so tests can
// substitute a fake.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*auth.SessionState, error)
}

// Auth is the authenticated-only guard. It resolves the bearer token on
// every request — never from a cached prior resolution — and injects the
// SessionState into the context. Unauthenticated requests get 401 with the
// originally requested path echoed in the details so the client can return
// there after login.
func Auth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			token := bearerToken(r)
			if token == "" {
				unauthorized(w, r, requestID)
				return
			}

			state, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrSessionNotFound) {
					unauthorized(w, r, requestID)
					return
				}
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GuardMetrics records admin-guard rejections. May be nil.
type GuardMetrics interface {
	RecordAdminDenial()
}

// RequireAdmin is the admin-only guard. A present, non-admin identity gets a
// 403 denial payload with a manual escape target rather than a redirect, so
// the client renders the denial in place.
func RequireAdmin(metrics GuardMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			state := GetSessionState(r.Context())
			if state == nil {
				unauthorized(w, r, requestID)
				return
			}

			if !state.IsAdmin {
				if metrics != nil {
					metrics.RecordAdminDenial()
				}
				response.ErrWithDetails(w, http.StatusForbidden, "FORBIDDEN",
					"This account does not have admin privileges",
					map[string]string{"escapeTo": "/dashboard"},
					requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionState retrieves the resolved SessionState from the request context.
func GetSessionState(ctx context.Context) *auth.SessionState {
	if state, ok := ctx.Value(sessionKey).(*auth.SessionState); ok {
		return state
	}
	return nil
}

// BearerToken extracts the session token from the Authorization header.
func BearerToken(r *http.Request) string {
	return bearerToken(r)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, r *http.Request, requestID string) {
	response.ErrWithDetails(w, http.StatusUnauthorized, "UNAUTHORIZED",
		"Authentication required",
		map[string]string{"redirectTo": "/login", "from": r.URL.Path},
		requestID)
}
