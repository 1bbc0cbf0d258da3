// Package admin resolves whether an identity is an administrator. Admin
// grant is an existence check against admin_records keyed by exact email;
// there is no role field and no join, at the cost of the records having to
// track identity-provider emails out-of-band.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrCheckFailed wraps any lookup failure (network, permission). It is kept
// distinct from a genuine not-admin result so callers of Lookup and tests
// can tell an infrastructure failure from a denial, even though both
// collapse to false at the CheckIsAdmin boundary.
var ErrCheckFailed = errors.New("admin check failed")

type cacheEntry struct {
	isAdmin   bool
	expiresAt time.Time
}

// Resolver answers admin membership questions, fail-closed. A short TTL
// cache absorbs the per-request lookups generated by session resolution;
// entries are stored only under the email they were resolved for, so a
// lookup still in flight for one identity can never surface under another.
type Resolver struct {
	repo Repository
	ttl  time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewResolver creates a Resolver over the given repository. A zero ttl
// disables caching.
func NewResolver(repo Repository, ttl time.Duration) *Resolver {
	return &Resolver{
		repo:  repo,
		ttl:   ttl,
		cache: make(map[string]cacheEntry),
	}
}

// Lookup reports whether email has an admin record. Failures are wrapped in
// ErrCheckFailed and the result is false.
func (r *Resolver) Lookup(ctx context.Context, email string) (bool, error) {
	exists, err := r.repo.Exists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCheckFailed, err)
	}
	return exists, nil
}

// CheckIsAdmin reports whether email belongs to an administrator. It never
// returns an error: any lookup failure is logged and mapped to false, so an
// error path can only ever deny access, never grant it.
func (r *Resolver) CheckIsAdmin(ctx context.Context, email string) bool {
	if email == "" {
		return false
	}

	now := time.Now()
	if r.ttl > 0 {
		r.mu.Lock()
		entry, ok := r.cache[email]
		r.mu.Unlock()
		if ok && now.Before(entry.expiresAt) {
			return entry.isAdmin
		}
	}

	isAdmin, err := r.Lookup(ctx, email)
	if err != nil {
		slog.Error("admin lookup failed, treating as non-admin", "email", email, "error", err)
		return false
	}

	if r.ttl > 0 {
		r.mu.Lock()
		r.cache[email] = cacheEntry{isAdmin: isAdmin, expiresAt: now.Add(r.ttl)}
		r.mu.Unlock()
	}

	return isAdmin
}
