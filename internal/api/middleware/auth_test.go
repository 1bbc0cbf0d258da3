package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/middleware"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/auth"
)

type fakeResolver struct {
	states map[string]*auth.SessionState
	err    error
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (*auth.SessionState, error) {
	if f.err != nil {
		return nil, f.err
	}
	state, ok := f.states[token]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	return state, nil
}

type envelope struct {
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func guardedHandler(t *testing.T, resolver middleware.SessionResolver, adminOnly bool) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := middleware.GetSessionState(r.Context())
		require.NotNil(t, state)
		w.WriteHeader(http.StatusOK)
	})
	var h http.Handler = inner
	if adminOnly {
		h = middleware.RequireAdmin(nil)(h)
	}
	return middleware.Auth(resolver)(h)
}

func doRequest(h http.Handler, token, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func userState(isAdmin bool) *auth.SessionState {
	return &auth.SessionState{
		Identity: auth.Identity{ID: uuid.New(), Email: "user@example.com"},
		IsAdmin:  isAdmin,
	}
}

func TestAuthGuardRejectsMissingToken(t *testing.T) {
	h := guardedHandler(t, &fakeResolver{}, false)

	rec := doRequest(h, "", "/dashboard")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	assert.Equal(t, "/login", env.Error.Details["redirectTo"])
	assert.Equal(t, "/dashboard", env.Error.Details["from"])
}

func TestAuthGuardRejectsUnknownToken(t *testing.T) {
	h := guardedHandler(t, &fakeResolver{states: map[string]*auth.SessionState{}}, false)

	rec := doRequest(h, "expired-token", "/cases")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "/cases", env.Error.Details["from"])
}

func TestAuthGuardResolverFailure(t *testing.T) {
	h := guardedHandler(t, &fakeResolver{err: errors.New("db down")}, false)

	rec := doRequest(h, "some-token", "/cases")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
}

func TestAuthGuardAdmitsResolvedSession(t *testing.T) {
	resolver := &fakeResolver{states: map[string]*auth.SessionState{
		"tok": userState(false),
	}}
	h := guardedHandler(t, resolver, false)

	rec := doRequest(h, "tok", "/cases")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminGuardMatrix(t *testing.T) {
	resolver := &fakeResolver{states: map[string]*auth.SessionState{
		"member": userState(false),
		"admin":  userState(true),
	}}

	authOnly := guardedHandler(t, resolver, false)
	adminOnly := guardedHandler(t, resolver, true)

	// No identity: both guarded surfaces bounce to login.
	assert.Equal(t, http.StatusUnauthorized, doRequest(authOnly, "", "/cases").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(adminOnly, "", "/admin").Code)

	// Signed-in member: allowed through Auth, denied in place by the admin guard.
	assert.Equal(t, http.StatusOK, doRequest(authOnly, "member", "/cases").Code)
	rec := doRequest(adminOnly, "member", "/admin")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
	assert.Equal(t, "/dashboard", env.Error.Details["escapeTo"])

	// Admin: allowed through both.
	assert.Equal(t, http.StatusOK, doRequest(authOnly, "admin", "/cases").Code)
	assert.Equal(t, http.StatusOK, doRequest(adminOnly, "admin", "/admin").Code)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, middleware.BearerToken(req))

	req.Header.Set("Authorization", "Basic abc123")
	assert.Empty(t, middleware.BearerToken(req))

	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", middleware.BearerToken(req))

	req.Header.Set("Authorization", "bearer abc123")
	assert.Equal(t, "abc123", middleware.BearerToken(req))
}
