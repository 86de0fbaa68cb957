package viewstate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/models"
)

// todayClient is the slice of the API client the dashboard check-in widget
// needs.
type todayClient interface {
	TodayAttendance(ctx context.Context) (*dto.TodayResponse, error)
	CheckIn(ctx context.Context) error
	CheckOut(ctx context.Context) error
}

// TodaySnapshot is the current check-in state shown on the dashboard.
type TodaySnapshot struct {
	State models.TodayState
	Today *models.TodayAttendance
	// ActionErr is the last failed action's error, cleared on the next
	// successful action or refresh.
	ActionErr error
	LoadedAt  time.Time
}

// TodayView drives the dashboard check-in/out widget. State transitions are
// observed only through a re-fetch: actions never update the state
// optimistically, and a failed action leaves the previous state in place.
type TodayView struct {
	client todayClient
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	closed   bool
	snapshot TodaySnapshot
}

// NewTodayView builds the widget state holder.
func NewTodayView(client todayClient, logger *zap.Logger) *TodayView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodayView{
		client: client,
		logger: logger,
		now:    time.Now,
		snapshot: TodaySnapshot{
			State: models.TodayStateNotCheckedIn,
		},
	}
}

// Refresh re-queries today's attendance and replaces the snapshot. On fetch
// failure the previous state is kept and the error is recorded.
func (v *TodayView) Refresh(ctx context.Context) (TodaySnapshot, error) {
	out, err := v.client.TodayAttendance(ctx)
	if err != nil {
		v.logger.Warn("today attendance fetch failed", zap.Error(err))
		v.mu.Lock()
		defer v.mu.Unlock()
		if !v.closed {
			v.snapshot.ActionErr = err
		}
		return v.snapshot, err
	}

	snap := TodaySnapshot{
		State:    out.State,
		Today:    out.Today,
		LoadedAt: v.now(),
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.closed {
		v.snapshot = snap
	}
	return snap, nil
}

// CheckIn performs the check-in action and, on success, refreshes from the
// server. The new state comes from the re-fetch, never from the action
// itself.
func (v *TodayView) CheckIn(ctx context.Context) (TodaySnapshot, error) {
	return v.act(ctx, v.client.CheckIn)
}

// CheckOut performs the check-out action and refreshes on success.
func (v *TodayView) CheckOut(ctx context.Context) (TodaySnapshot, error) {
	return v.act(ctx, v.client.CheckOut)
}

func (v *TodayView) act(ctx context.Context, action func(context.Context) error) (TodaySnapshot, error) {
	if err := action(ctx); err != nil {
		v.mu.Lock()
		defer v.mu.Unlock()
		if !v.closed {
			v.snapshot.ActionErr = err
		}
		return v.snapshot, err
	}
	return v.Refresh(ctx)
}

// Snapshot returns the currently held state.
func (v *TodayView) Snapshot() TodaySnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot
}

// Close marks the view as torn down.
func (v *TodayView) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}
