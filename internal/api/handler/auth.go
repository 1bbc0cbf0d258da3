package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/middleware"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/response"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/validation"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/auth"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type sessionResponse struct {
	Token      string           `json:"token"`
	User       identityResponse `json:"user"`
	IsAdmin    bool             `json:"isAdmin"`
	RedirectTo string           `json:"redirectTo"`
}

// AuthMetrics is the subset of the metrics collector the auth handler uses.
type AuthMetrics interface {
	RecordAuthFailure()
	RecordAdminDenial()
}

// AuthService is the subset of auth.Service the handler needs.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*auth.SessionState, string, error)
	SignIn(ctx context.Context, email, password string) (*auth.SessionState, string, error)
	SignOut(ctx context.Context, token string) error
}

// AuthHandler handles registration, the two sign-in flows, and sign-out.
type AuthHandler struct {
	service AuthService
	metrics AuthMetrics
}

// NewAuthHandler creates a new AuthHandler. metrics may be nil.
func NewAuthHandler(service AuthService, metrics AuthMetrics) *AuthHandler {
	return &AuthHandler{service: service, metrics: metrics}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	req, ok := h.decodeCredentials(w, r, requestID)
	if !ok {
		return
	}

	state, token, err := h.service.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, newSessionResponse(state, token), requestID)
}

// Login handles POST /api/auth/login: the general sign-in flow. The redirect
// target depends on the resolved admin flag, so an administrator signing in
// through the general flow still lands on the admin panel.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	req, ok := h.decodeCredentials(w, r, requestID)
	if !ok {
		return
	}

	state, token, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, newSessionResponse(state, token), requestID)
}

// AdminLogin handles POST /api/auth/admin/login: the admin-specific flow.
// Reachable without a prior admin session. A successful credential check by
// a non-admin identity is signed out again immediately and rejected, so the
// flow never leaves a usable session behind for an account it turned away.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	req, ok := h.decodeCredentials(w, r, requestID)
	if !ok {
		return
	}

	state, token, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, err, requestID)
		return
	}

	if !state.IsAdmin {
		if err := h.service.SignOut(r.Context(), token); err != nil {
			slog.Error("failed to sign out rejected admin login", "error", err, "requestId", requestID)
		}
		if h.metrics != nil {
			h.metrics.RecordAdminDenial()
		}
		response.Err(w, http.StatusForbidden, "ADMIN_REQUIRED",
			"This account does not have admin privileges", requestID)
		return
	}

	response.Success(w, http.StatusOK, newSessionResponse(state, token), requestID)
}

// Logout handles POST /api/auth/logout. Best-effort: an already-gone session
// is still a successful logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.service.SignOut(r.Context(), middleware.BearerToken(r)); err != nil {
		slog.Error("sign-out failed", "error", err, "requestId", requestID)
	}

	response.NoContent(w)
}

// Me handles GET /api/auth/me, returning the resolved session state.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	state := middleware.GetSessionState(r.Context())
	if state == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", requestID)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{
		"user":    newIdentityResponse(state),
		"isAdmin": state.IsAdmin,
	}, requestID)
}

func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request, requestID string) (credentialsRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return req, false
	}

	fieldErrors := validation.ValidateCredentialsRequest(validation.CredentialsRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return req, false
	}

	return req, true
}

// writeAuthError maps the credential error taxonomy onto envelope codes.
// Messages are actionable; they are surfaced verbatim to the user.
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error, requestID string) {
	if h.metrics != nil {
		h.metrics.RecordAuthFailure()
	}

	switch {
	case errors.Is(err, auth.ErrInvalidEmail):
		response.Err(w, http.StatusBadRequest, "INVALID_EMAIL", "Email address is not valid", requestID)
	case errors.Is(err, auth.ErrWeakPassword):
		response.Err(w, http.StatusBadRequest, "WEAK_PASSWORD", "Password must be at least 8 characters", requestID)
	case errors.Is(err, auth.ErrEmailInUse):
		response.Err(w, http.StatusConflict, "EMAIL_IN_USE", "An account with this email already exists", requestID)
	case errors.Is(err, auth.ErrUserNotFound):
		response.Err(w, http.StatusUnauthorized, "USER_NOT_FOUND", "No account found for this email", requestID)
	case errors.Is(err, auth.ErrWrongPassword):
		response.Err(w, http.StatusUnauthorized, "WRONG_PASSWORD", "Incorrect password", requestID)
	default:
		slog.Error("credential operation failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "UNKNOWN", "Something went wrong, try again", requestID)
	}
}

func newIdentityResponse(state *auth.SessionState) identityResponse {
	return identityResponse{
		ID:        state.Identity.ID.String(),
		Email:     state.Identity.Email,
		CreatedAt: state.Identity.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func newSessionResponse(state *auth.SessionState, token string) sessionResponse {
	redirect := "/dashboard"
	if state.IsAdmin {
		redirect = "/admin"
	}
	return sessionResponse{
		Token:      token,
		User:       newIdentityResponse(state),
		IsAdmin:    state.IsAdmin,
		RedirectTo: redirect,
	}
}
