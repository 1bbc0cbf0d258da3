package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// FeedMetrics is the subset of the metrics collector the feed reports to.
type FeedMetrics interface {
	RecordSnapshot()
	StreamOpened()
	StreamClosed()
}

// Feed fans out per-user snapshot pushes to live subscribers. Every change
// to a user's notifications triggers one re-query and a wholesale snapshot
// push; subscribers never receive incremental patches, so each delivery is a
// complete consistent view of the feed.
type Feed struct {
	repo    Repository
	metrics FeedMetrics

	mu   sync.Mutex
	subs map[uuid.UUID]map[*Subscription]struct{}
}

// NewFeed creates a Feed over the given repository. metrics may be nil.
func NewFeed(repo Repository, metrics FeedMetrics) *Feed {
	return &Feed{
		repo:    repo,
		metrics: metrics,
		subs:    make(map[uuid.UUID]map[*Subscription]struct{}),
	}
}

// Subscription is one live feed subscription. C delivers snapshots until
// Close is called; a pending undelivered snapshot is replaced by a newer one,
// so a slow consumer converges to the latest state instead of draining a
// backlog of stale views.
type Subscription struct {
	C chan Snapshot

	feed   *Feed
	userID uuid.UUID
	once   sync.Once
}

// Subscribe opens a subscription for userID and delivers the current
// snapshot as its first element. The caller owns the subscription and must
// call Close when the consumer goes away or the identity changes; a leaked
// subscription would keep receiving the previous identity's records.
func (f *Feed) Subscribe(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	records, err := f.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading initial snapshot: %w", err)
	}

	sub := &Subscription{
		C:      make(chan Snapshot, 1),
		feed:   f,
		userID: userID,
	}

	f.mu.Lock()
	if f.subs[userID] == nil {
		f.subs[userID] = make(map[*Subscription]struct{})
	}
	f.subs[userID][sub] = struct{}{}
	sub.deliver(NewSnapshot(records))
	f.mu.Unlock()

	if f.metrics != nil {
		f.metrics.StreamOpened()
	}

	return sub, nil
}

// Close tears down the subscription. Idempotent. After Close returns no
// further snapshots are delivered and C is closed.
func (s *Subscription) Close() {
	s.once.Do(func() {
		f := s.feed
		f.mu.Lock()
		if set, ok := f.subs[s.userID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(f.subs, s.userID)
			}
		}
		f.mu.Unlock()

		close(s.C)

		if f.metrics != nil {
			f.metrics.StreamClosed()
		}
	})
}

// Invalidate re-queries userID's feed and pushes the fresh snapshot to every
// live subscriber. Query failures are logged and swallowed; subscribers keep
// their last consistent view rather than seeing a torn one.
func (f *Feed) Invalidate(ctx context.Context, userID uuid.UUID) {
	f.mu.Lock()
	active := len(f.subs[userID]) > 0
	f.mu.Unlock()
	if !active {
		return
	}

	records, err := f.repo.ListByUser(ctx, userID)
	if err != nil {
		slog.Error("feed refresh failed, keeping last snapshot", "userId", userID, "error", err)
		return
	}
	snapshot := NewSnapshot(records)

	f.mu.Lock()
	for sub := range f.subs[userID] {
		sub.deliver(snapshot)
		if f.metrics != nil {
			f.metrics.RecordSnapshot()
		}
	}
	f.mu.Unlock()
}

// deliver replaces any pending snapshot with the newer one. Called with the
// feed mutex held, which also guarantees no delivery races a Close.
func (s *Subscription) deliver(snapshot Snapshot) {
	for {
		select {
		case s.C <- snapshot:
			return
		default:
			select {
			case <-s.C:
			default:
			}
		}
	}
}
