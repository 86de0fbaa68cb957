package viewstate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentra/ems-api/internal/models"
)

type fakeNotificationLister struct {
	mu     sync.Mutex
	items  []models.Notification
	unread int
	calls  int
}

func (f *fakeNotificationLister) Notifications(_ context.Context, _ bool, _ int) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.items, nil
}

func (f *fakeNotificationLister) UnreadCount(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread, nil
}

func TestNotificationFeedPrimesOnStart(t *testing.T) {
	lister := &fakeNotificationLister{
		items:  []models.Notification{{ID: "n-1", Title: "Leave request approved"}},
		unread: 1,
	}
	feed := NewNotificationFeed(lister, time.Hour, nil)
	feed.Start(context.Background())
	defer feed.Close()

	items, unread := feed.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "n-1", items[0].ID)
	assert.Equal(t, 1, unread)
}

func TestNotificationFeedPollsAndStops(t *testing.T) {
	lister := &fakeNotificationLister{}
	feed := NewNotificationFeed(lister, 5*time.Millisecond, nil)
	feed.Start(context.Background())

	require.Eventually(t, func() bool {
		lister.mu.Lock()
		defer lister.mu.Unlock()
		return lister.calls >= 3
	}, time.Second, time.Millisecond)

	feed.Close()
	lister.mu.Lock()
	stopped := lister.calls
	lister.mu.Unlock()

	time.Sleep(25 * time.Millisecond)
	lister.mu.Lock()
	defer lister.mu.Unlock()
	assert.Equal(t, stopped, lister.calls)
}
