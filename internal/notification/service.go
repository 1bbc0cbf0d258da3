// Package notification implements the per-user notification feed: a
// Postgres-backed record store, mutation operations, and a live snapshot
// stream consumed over SSE.
package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// MarkAllResult is the aggregate outcome of a mark-all-read operation.
// Per-record updates are independent and idempotent; a partial failure is
// reported, not rolled back.
type MarkAllResult struct {
	Requested int `json:"requested"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Service provides notification operations and keeps the live feed in sync
// with every mutation.
type Service struct {
	repo Repository
	feed *Feed
}

// NewService creates a notification Service.
func NewService(repo Repository, feed *Feed) *Service {
	return &Service{repo: repo, feed: feed}
}

// List returns the user's current feed as one consistent snapshot.
func (s *Service) List(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(records), nil
}

// Notify creates a notification and refreshes the owner's live feed.
func (s *Service) Notify(ctx context.Context, n *Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.feed.Invalidate(ctx, n.UserID)
	return nil
}

// MarkRead flips one record's read flag. Live subscribers converge via the
// snapshot pushed afterwards; there is no optimistic local update anywhere.
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return err
	}
	s.feed.Invalidate(ctx, userID)
	return nil
}

// MarkAllRead issues one update per currently-unread record concurrently and
// reports the aggregate outcome. Records whose update failed stay unread and
// will be retried by whatever marks them next; the ones that succeeded are
// reflected in the snapshot pushed at the end.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (MarkAllResult, error) {
	ids, err := s.repo.ListUnreadIDs(ctx, userID)
	if err != nil {
		return MarkAllResult{}, err
	}

	result := MarkAllResult{Requested: len(ids)}
	if len(ids) == 0 {
		return result, nil
	}

	errs := make(chan error, len(ids))
	for _, id := range ids {
		go func(id uuid.UUID) {
			errs <- s.repo.MarkRead(ctx, id, userID)
		}(id)
	}

	for range ids {
		if err := <-errs; err != nil {
			result.Failed++
			slog.Error("mark-all-read update failed", "userId", userID, "error", err)
		} else {
			result.Succeeded++
		}
	}

	s.feed.Invalidate(ctx, userID)
	return result, nil
}

// Delete removes one record from the store. Snapshot-driven convergence,
// same as MarkRead.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.feed.Invalidate(ctx, userID)
	return nil
}

// Subscribe opens a live subscription on the feed.
func (s *Service) Subscribe(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	return s.feed.Subscribe(ctx, userID)
}
