package viewstate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/talentra/ems-api/internal/models"
	"github.com/talentra/ems-api/pkg/jobs"
)

const feedPageSize = 20

// notificationLister is the slice of the API client the feed needs.
type notificationLister interface {
	Notifications(ctx context.Context, unreadOnly bool, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
}

// NotificationFeed keeps the header bell fresh by polling on a fixed
// interval. The poller's lifetime is tied to the feed: Close stops it and
// waits for the in-flight tick to finish.
type NotificationFeed struct {
	client notificationLister
	logger *zap.Logger
	poller *jobs.Poller

	mu          sync.Mutex
	items       []models.Notification
	unreadCount int
	refreshedAt time.Time
}

// NewNotificationFeed builds a feed polling at the given interval.
func NewNotificationFeed(client notificationLister, interval time.Duration, logger *zap.Logger) *NotificationFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &NotificationFeed{client: client, logger: logger}
	f.poller = jobs.NewPoller("notification-feed", interval, f.refresh, logger)
	return f
}

// Start primes the feed once and launches the refresh loop.
func (f *NotificationFeed) Start(ctx context.Context) {
	if err := f.refresh(ctx); err != nil {
		f.logger.Warn("initial notification refresh failed", zap.Error(err))
	}
	f.poller.Start(ctx)
}

func (f *NotificationFeed) refresh(ctx context.Context) error {
	items, err := f.client.Notifications(ctx, false, feedPageSize)
	if err != nil {
		return err
	}
	unread, err := f.client.UnreadCount(ctx)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.items = items
	f.unreadCount = unread
	f.refreshedAt = time.Now()
	f.mu.Unlock()
	return nil
}

// Items returns the latest notifications and the unread badge count.
func (f *NotificationFeed) Items() ([]models.Notification, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items, f.unreadCount
}

// Close stops the polling loop.
func (f *NotificationFeed) Close() {
	f.poller.Stop()
}
