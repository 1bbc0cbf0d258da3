package notification_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/notification"
)

// memRepo is an in-memory notification store. failMarkRead, when set,
// makes MarkRead fail for that one record.
type memRepo struct {
	mu           sync.Mutex
	records      map[uuid.UUID]*notification.Notification
	listErr      error
	failMarkRead uuid.UUID
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[uuid.UUID]*notification.Notification)}
}

func (r *memRepo) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	cp := *n
	r.records[n.ID] = &cp
	return nil
}

func (r *memRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []notification.Notification{}
	for _, n := range r.records {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) ListUnreadIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []uuid.UUID{}
	for _, n := range r.records {
		if n.UserID == userID && !n.Read {
			ids = append(ids, n.ID)
		}
	}
	return ids, nil
}

func (r *memRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == r.failMarkRead {
		return errors.New("update failed")
	}
	n, ok := r.records[id]
	if !ok || n.UserID != userID {
		return notification.ErrNotFound
	}
	n.Read = true
	return nil
}

func (r *memRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.records[id]
	if !ok || n.UserID != userID {
		return notification.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func seed(t *testing.T, repo *memRepo, userID uuid.UUID, read bool) uuid.UUID {
	t.Helper()
	n := &notification.Notification{
		UserID:  userID,
		Type:    notification.TypeStatusChange,
		Title:   "Case updated",
		Message: "Your case moved forward",
		Read:    read,
	}
	require.NoError(t, repo.Create(context.Background(), n))
	return n.ID
}

func receive(t *testing.T, sub *notification.Subscription) notification.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.C:
		require.True(t, ok, "subscription channel closed unexpectedly")
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return notification.Snapshot{}
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	repo := newMemRepo()
	userID := uuid.New()
	seed(t, repo, userID, false)
	seed(t, repo, userID, true)

	feed := notification.NewFeed(repo, nil)
	sub, err := feed.Subscribe(context.Background(), userID)
	require.NoError(t, err)
	defer sub.Close()

	snap := receive(t, sub)
	assert.Len(t, snap.Notifications, 2)
	assert.Equal(t, 1, snap.UnreadCount)
}

func TestInvalidatePushesWholesaleSnapshot(t *testing.T) {
	repo := newMemRepo()
	userID := uuid.New()
	feed := notification.NewFeed(repo, nil)

	sub, err := feed.Subscribe(context.Background(), userID)
	require.NoError(t, err)
	defer sub.Close()
	assert.Empty(t, receive(t, sub).Notifications)

	seed(t, repo, userID, false)
	feed.Invalidate(context.Background(), userID)

	snap := receive(t, sub)
	assert.Len(t, snap.Notifications, 1)
	assert.Equal(t, 1, snap.UnreadCount)
}

func TestSlowConsumerGetsLatestSnapshot(t *testing.T) {
	repo := newMemRepo()
	userID := uuid.New()
	feed := notification.NewFeed(repo, nil)

	sub, err := feed.Subscribe(context.Background(), userID)
	require.NoError(t, err)
	defer sub.Close()

	// Without draining the channel, push three changes. The pending
	// snapshot must be replaced each time, not queued.
	for i := 0; i < 3; i++ {
		seed(t, repo, userID, false)
		feed.Invalidate(context.Background(), userID)
	}

	snap := receive(t, sub)
	assert.Len(t, snap.Notifications, 3)
	assert.Equal(t, 3, snap.UnreadCount)
}

func TestInvalidateKeepsLastSnapshotOnQueryFailure(t *testing.T) {
	repo := newMemRepo()
	userID := uuid.New()
	seed(t, repo, userID, false)

	feed := notification.NewFeed(repo, nil)
	sub, err := feed.Subscribe(context.Background(), userID)
	require.NoError(t, err)
	defer sub.Close()
	first := receive(t, sub)

	repo.listErr = errors.New("db down")
	feed.Invalidate(context.Background(), userID)

	// No torn snapshot arrives; the channel stays empty.
	select {
	case snap := <-sub.C:
		t.Fatalf("unexpected snapshot after query failure: %+v", snap)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 1, first.UnreadCount)
}

func TestInvalidateScopedToUser(t *testing.T) {
	repo := newMemRepo()
	alice := uuid.New()
	bob := uuid.New()
	feed := notification.NewFeed(repo, nil)

	sub, err := feed.Subscribe(context.Background(), alice)
	require.NoError(t, err)
	defer sub.Close()
	receive(t, sub)

	seed(t, repo, bob, false)
	feed.Invalidate(context.Background(), bob)

	select {
	case snap := <-sub.C:
		t.Fatalf("snapshot for another user leaked: %+v", snap)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	repo := newMemRepo()
	userID := uuid.New()
	feed := notification.NewFeed(repo, nil)

	sub, err := feed.Subscribe(context.Background(), userID)
	require.NoError(t, err)
	receive(t, sub)

	sub.Close()
	sub.Close()

	_, ok := <-sub.C
	assert.False(t, ok)

	// Invalidating after teardown must not panic or deliver.
	feed.Invalidate(context.Background(), userID)
}
