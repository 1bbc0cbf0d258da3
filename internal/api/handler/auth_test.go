package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/handler"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/auth"
)

// scriptedAuthService answers the credential flows from fixed accounts and
// records sign-outs.
type scriptedAuthService struct {
	accounts  map[string]account
	signedOut []string
}

type account struct {
	password string
	isAdmin  bool
}

func (s *scriptedAuthService) SignUp(_ context.Context, email, password string) (*auth.SessionState, string, error) {
	if len(password) < 8 {
		return nil, "", auth.ErrWeakPassword
	}
	if _, ok := s.accounts[email]; ok {
		return nil, "", auth.ErrEmailInUse
	}
	return &auth.SessionState{Identity: auth.Identity{ID: uuid.New(), Email: email}}, "new-token", nil
}

func (s *scriptedAuthService) SignIn(_ context.Context, email, password string) (*auth.SessionState, string, error) {
	acct, ok := s.accounts[email]
	if !ok {
		return nil, "", auth.ErrUserNotFound
	}
	if acct.password != password {
		return nil, "", auth.ErrWrongPassword
	}
	state := &auth.SessionState{
		Identity: auth.Identity{ID: uuid.New(), Email: email},
		IsAdmin:  acct.isAdmin,
	}
	return state, "token-" + email, nil
}

func (s *scriptedAuthService) SignOut(_ context.Context, token string) error {
	s.signedOut = append(s.signedOut, token)
	return nil
}

type sessionEnvelope struct {
	Data *struct {
		Token      string `json:"token"`
		IsAdmin    bool   `json:"isAdmin"`
		RedirectTo string `json:"redirectTo"`
		User       struct {
			Email string `json:"email"`
		} `json:"user"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func postCredentials(t *testing.T, h http.HandlerFunc, email, password string) (*httptest.ResponseRecorder, sessionEnvelope) {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)

	var env sessionEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func newScriptedService() *scriptedAuthService {
	return &scriptedAuthService{accounts: map[string]account{
		"user@example.com": {password: "password123"},
		"root@example.com": {password: "password123", isAdmin: true},
	}}
}

func TestRegister(t *testing.T) {
	h := handler.NewAuthHandler(newScriptedService(), nil)

	rec, env := postCredentials(t, h.Register, "fresh@example.com", "password123")
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, env.Data)
	assert.Equal(t, "new-token", env.Data.Token)
	assert.Equal(t, "/dashboard", env.Data.RedirectTo)
}

func TestRegisterWeakPassword(t *testing.T) {
	h := handler.NewAuthHandler(newScriptedService(), nil)

	rec, env := postCredentials(t, h.Register, "fresh@example.com", "short12")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "WEAK_PASSWORD", env.Error.Code)
}

func TestRegisterEmailInUse(t *testing.T) {
	h := handler.NewAuthHandler(newScriptedService(), nil)

	rec, env := postCredentials(t, h.Register, "user@example.com", "password123")
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "EMAIL_IN_USE", env.Error.Code)
}

func TestLoginRedirectsByRole(t *testing.T) {
	h := handler.NewAuthHandler(newScriptedService(), nil)

	rec, env := postCredentials(t, h.Login, "user@example.com", "password123")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Data)
	assert.False(t, env.Data.IsAdmin)
	assert.Equal(t, "/dashboard", env.Data.RedirectTo)

	// An administrator through the general flow still lands on the panel.
	rec, env = postCredentials(t, h.Login, "root@example.com", "password123")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Data)
	assert.True(t, env.Data.IsAdmin)
	assert.Equal(t, "/admin", env.Data.RedirectTo)
}

func TestLoginCredentialErrors(t *testing.T) {
	h := handler.NewAuthHandler(newScriptedService(), nil)

	rec, env := postCredentials(t, h.Login, "missing@example.com", "password123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "USER_NOT_FOUND", env.Error.Code)

	rec, env = postCredentials(t, h.Login, "user@example.com", "wrongpassword")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "WRONG_PASSWORD", env.Error.Code)
}

func TestAdminLoginAdmitsAdmin(t *testing.T) {
	svc := newScriptedService()
	h := handler.NewAuthHandler(svc, nil)

	rec, env := postCredentials(t, h.AdminLogin, "root@example.com", "password123")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Data)
	assert.True(t, env.Data.IsAdmin)
	assert.Equal(t, "/admin", env.Data.RedirectTo)
	assert.Empty(t, svc.signedOut)
}

func TestAdminLoginRejectsNonAdmin(t *testing.T) {
	svc := newScriptedService()
	h := handler.NewAuthHandler(svc, nil)

	rec, env := postCredentials(t, h.AdminLogin, "user@example.com", "password123")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ADMIN_REQUIRED", env.Error.Code)
	assert.Equal(t, "This account does not have admin privileges", env.Error.Message)

	// The session opened by the credential check is torn down again, so the
	// rejection leaves no usable token behind.
	assert.Equal(t, []string{"token-user@example.com"}, svc.signedOut)
}

func TestAdminLoginWrongCredentials(t *testing.T) {
	svc := newScriptedService()
	h := handler.NewAuthHandler(svc, nil)

	rec, env := postCredentials(t, h.AdminLogin, "user@example.com", "nope-nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "WRONG_PASSWORD", env.Error.Code)
	assert.Empty(t, svc.signedOut)
}

func TestLogoutBestEffort(t *testing.T) {
	svc := newScriptedService()
	h := handler.NewAuthHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"some-token"}, svc.signedOut)
}
