package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/auth"
)

type memUserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*auth.User
	byEmail map[string]*auth.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    make(map[uuid.UUID]*auth.User),
		byEmail: make(map[string]*auth.User),
	}
}

func (r *memUserRepo) Create(_ context.Context, u *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return auth.ErrEmailInUse
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*auth.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*auth.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, s *auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.Token] = &cp
	return nil
}

func (r *memSessionRepo) Get(_ context.Context, token string) (*auth.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok || time.Now().After(s.ExpiresAt) {
		return nil, auth.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *memSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

// setChecker grants admin to a fixed set of emails.
type setChecker struct{ admins map[string]bool }

func (c *setChecker) CheckIsAdmin(_ context.Context, email string) bool {
	return c.admins[email]
}

func newTestService(adminEmails ...string) (*auth.Service, *memSessionRepo) {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[e] = true
	}
	sessions := newMemSessionRepo()
	svc := auth.NewService(newMemUserRepo(), sessions, &setChecker{admins: admins},
		bcrypt.MinCost, time.Hour)
	return svc, sessions
}

func TestSignUpValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "not-an-email", "longenough")
	assert.ErrorIs(t, err, auth.ErrInvalidEmail)

	_, _, err = svc.SignUp(ctx, "user@example.com", "short")
	assert.ErrorIs(t, err, auth.ErrWeakPassword)
}

func TestSignUpNormalizesEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	state, token, err := svc.SignUp(ctx, "  User@Example.COM ", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user@example.com", state.Identity.Email)
	assert.False(t, state.IsAdmin)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, "user@example.com", "password123")
	assert.ErrorIs(t, err, auth.ErrEmailInUse)
}

func TestSignInCredentialErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.SignIn(ctx, "missing@example.com", "password123")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	_, _, err = svc.SignIn(ctx, "user@example.com", "wrongpassword")
	assert.ErrorIs(t, err, auth.ErrWrongPassword)
}

func TestSignInAndResolve(t *testing.T) {
	svc, _ := newTestService("root@example.com")
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "root@example.com", "password123")
	require.NoError(t, err)

	state, token, err := svc.SignIn(ctx, "root@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, state.IsAdmin)

	resolved, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, state.Identity.ID, resolved.Identity.ID)
	assert.True(t, resolved.IsAdmin)
}

func TestResolveUnknownToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)

	_, err = svc.Resolve(ctx, "deadbeef")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestSignOutClearsSessionSynchronously(t *testing.T) {
	svc, _ := newTestService("root@example.com")
	ctx := context.Background()

	_, token, err := svc.SignUp(ctx, "root@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, token))

	// Once SignOut returns, the token resolves neither identity nor admin.
	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestSignOutEmptyToken(t *testing.T) {
	svc, _ := newTestService()
	assert.NoError(t, svc.SignOut(context.Background(), ""))
}
