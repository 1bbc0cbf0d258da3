package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrWrongPassword is returned when the password does not match the stored hash.
var ErrWrongPassword = errors.New("wrong password")

// ErrWeakPassword is returned when a registration password fails the minimum policy.
var ErrWeakPassword = errors.New("password too weak")

// ErrInvalidEmail is returned when a registration email is not a valid address.
var ErrInvalidEmail = errors.New("invalid email address")

const minPasswordLength = 8

// AdminChecker reports whether the given email belongs to an administrator.
// Implementations never return an error; lookup failures resolve to false.
type AdminChecker interface {
	CheckIsAdmin(ctx context.Context, email string) bool
}

// Service provides authentication operations: registration, credential
// sign-in, sign-out, and per-request session resolution. It is the single
// owner of session lifecycle; the admin flag is re-derived on every
// resolution so no caller ever observes a stale value across identities.
type Service struct {
	userRepo      UserRepository
	sessionRepo   SessionRepository
	adminChecker  AdminChecker
	bcryptCost    int
	sessionMaxAge time.Duration
}

// NewService creates a new auth Service.
func NewService(userRepo UserRepository, sessionRepo SessionRepository, adminChecker AdminChecker, bcryptCost int, sessionMaxAge time.Duration) *Service {
	return &Service{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		adminChecker:  adminChecker,
		bcryptCost:    bcryptCost,
		sessionMaxAge: sessionMaxAge,
	}
}

// SignUp registers a new user and opens a session for it. Returns
// ErrInvalidEmail, ErrWeakPassword, or ErrEmailInUse on rejected input.
func (s *Service) SignUp(ctx context.Context, email, password string) (*SessionState, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	u := &User{Email: email, PasswordHash: string(hash)}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	slog.Info("user registered", "userId", u.ID, "email", u.Email)
	return s.openSession(ctx, u)
}

// SignIn authenticates credentials and opens a session. Returns
// ErrUserNotFound or ErrWrongPassword; both map to invalid-credential
// responses at the handler boundary.
func (s *Service) SignIn(ctx context.Context, email, password string) (*SessionState, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrWrongPassword
	}

	slog.Info("user signed in", "userId", u.ID)
	return s.openSession(ctx, u)
}

// SignOut deletes the session synchronously. Once it returns, no request
// carrying the token can resolve an identity or an admin flag; there is no
// window in which a stale admin flag survives the sign-out.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, token); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

// Resolve turns a bearer token into the current SessionState. The admin flag
// is derived from the resolved identity's email after the identity is known,
// so a result can never be attributed to a different identity. Admin lookup
// failures are fail-closed: the state resolves with IsAdmin false rather
// than an error.
func (s *Service) Resolve(ctx context.Context, token string) (*SessionState, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessionRepo.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolving session user: %w", err)
	}

	state := &SessionState{
		Identity: Identity{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt},
	}
	if u.Email != "" {
		state.IsAdmin = s.adminChecker.CheckIsAdmin(ctx, u.Email)
	}

	return state, nil
}

func (s *Service) openSession(ctx context.Context, u *User) (*SessionState, string, error) {
	token, err := generateToken()
	if err != nil {
		return nil, "", fmt.Errorf("generating session token: %w", err)
	}

	session := &Session{
		Token:     token,
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.sessionMaxAge),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("creating session: %w", err)
	}

	state := &SessionState{
		Identity: Identity{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt},
	}
	if u.Email != "" {
		state.IsAdmin = s.adminChecker.CheckIsAdmin(ctx, u.Email)
	}

	return state, token, nil
}

// generateToken produces a cryptographically random opaque session token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
