package admin_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/admin"
)

// fakeRepo answers Exists from a fixed set and counts calls per email.
type fakeRepo struct {
	admins map[string]bool
	err    error
	calls  map[string]int
}

func newFakeRepo(admins ...string) *fakeRepo {
	set := make(map[string]bool, len(admins))
	for _, a := range admins {
		set[a] = true
	}
	return &fakeRepo{admins: set, calls: make(map[string]int)}
}

func (f *fakeRepo) Exists(_ context.Context, email string) (bool, error) {
	f.calls[email]++
	if f.err != nil {
		return false, f.err
	}
	return f.admins[email], nil
}

func TestLookup(t *testing.T) {
	repo := newFakeRepo("root@example.com")
	resolver := admin.NewResolver(repo, 0)

	isAdmin, err := resolver.Lookup(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = resolver.Lookup(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestLookupWrapsFailures(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("connection refused")
	resolver := admin.NewResolver(repo, 0)

	isAdmin, err := resolver.Lookup(context.Background(), "root@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, admin.ErrCheckFailed)
	assert.False(t, isAdmin)
}

func TestCheckIsAdminFailsClosed(t *testing.T) {
	repo := newFakeRepo("root@example.com")
	repo.err = errors.New("connection refused")
	resolver := admin.NewResolver(repo, 0)

	// A lookup failure must deny, even for an actual admin email.
	assert.False(t, resolver.CheckIsAdmin(context.Background(), "root@example.com"))
}

func TestCheckIsAdminEmptyEmail(t *testing.T) {
	repo := newFakeRepo()
	resolver := admin.NewResolver(repo, time.Minute)

	assert.False(t, resolver.CheckIsAdmin(context.Background(), ""))
	assert.Zero(t, repo.calls[""])
}

func TestCheckIsAdminCachesPerEmail(t *testing.T) {
	repo := newFakeRepo("root@example.com")
	resolver := admin.NewResolver(repo, time.Minute)

	assert.True(t, resolver.CheckIsAdmin(context.Background(), "root@example.com"))
	assert.True(t, resolver.CheckIsAdmin(context.Background(), "root@example.com"))
	assert.Equal(t, 1, repo.calls["root@example.com"])

	// A cached grant for one email must not leak to another.
	assert.False(t, resolver.CheckIsAdmin(context.Background(), "user@example.com"))
	assert.Equal(t, 1, repo.calls["user@example.com"])
}

func TestCheckIsAdminFailureNotCached(t *testing.T) {
	repo := newFakeRepo("root@example.com")
	repo.err = errors.New("timeout")
	resolver := admin.NewResolver(repo, time.Minute)

	assert.False(t, resolver.CheckIsAdmin(context.Background(), "root@example.com"))

	// Once the backend recovers the next check must hit it again.
	repo.err = nil
	assert.True(t, resolver.CheckIsAdmin(context.Background(), "root@example.com"))
	assert.Equal(t, 2, repo.calls["root@example.com"])
}

func TestCheckIsAdminZeroTTLDisablesCache(t *testing.T) {
	repo := newFakeRepo("root@example.com")
	resolver := admin.NewResolver(repo, 0)

	assert.True(t, resolver.CheckIsAdmin(context.Background(), "root@example.com"))
	assert.True(t, resolver.CheckIsAdmin(context.Background(), "root@example.com"))
	assert.Equal(t, 2, repo.calls["root@example.com"])
}
