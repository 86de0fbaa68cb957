// Package viewstate holds the client-side view models consumed by the web
// dashboard's backend-for-frontend. Each view owns the latest fetched state
// for one screen and re-derives it fully on every load.
package viewstate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/models"
	"github.com/talentra/ems-api/internal/service"
)

// monthFetcher is the slice of the API client the calendar view needs.
type monthFetcher interface {
	MonthAttendance(ctx context.Context, employeeID string, year, month int) (*dto.MonthViewResponse, error)
}

// CalendarSnapshot is the immutable result of the most recent load.
type CalendarSnapshot struct {
	Year    int
	Month   time.Month
	Records []models.AttendanceRecord
	Summary models.AttendanceSummary
	Cells   []models.CalendarCell
	// Err is the load failure, if any. A failed load still carries a full
	// empty grid so the month renders as blank rather than broken.
	Err      error
	LoadedAt time.Time
}

// CalendarView holds the latest derived month view for one employee.
// Concurrent loads are resolved last-request-wins: a response belonging to a
// superseded request is discarded instead of overwriting newer state.
type CalendarView struct {
	fetcher    monthFetcher
	employeeID string
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.Mutex
	seq      uint64
	closed   bool
	snapshot CalendarSnapshot
}

// NewCalendarView builds a view for the given employee. Pass "me" to view
// the authenticated user's own calendar.
func NewCalendarView(fetcher monthFetcher, employeeID string, logger *zap.Logger) *CalendarView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarView{
		fetcher:    fetcher,
		employeeID: employeeID,
		logger:     logger,
		now:        time.Now,
	}
}

// Load fetches the month and replaces the snapshot. Stale responses from
// earlier Load calls are dropped, and a view that has been closed ignores
// every result. The returned snapshot is what this call produced, even when
// it lost the race and was not stored.
func (v *CalendarView) Load(ctx context.Context, year int, month time.Month) CalendarSnapshot {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return CalendarSnapshot{Year: year, Month: month}
	}
	v.seq++
	seq := v.seq
	v.mu.Unlock()

	snap := v.fetch(ctx, year, month)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return snap
	}
	if seq != v.seq {
		v.logger.Debug("stale month response discarded",
			zap.Int("year", year),
			zap.Int("month", int(month)))
		return snap
	}
	v.snapshot = snap
	return snap
}

func (v *CalendarView) fetch(ctx context.Context, year int, month time.Month) CalendarSnapshot {
	now := v.now()
	snap := CalendarSnapshot{Year: year, Month: month, LoadedAt: now}

	view, err := v.fetcher.MonthAttendance(ctx, v.employeeID, year, int(month))
	if err != nil {
		v.logger.Warn("month attendance fetch failed",
			zap.String("employee_id", v.employeeID),
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Error(err))
		snap.Err = err
		snap.Cells = service.BuildCalendar(nil, year, month, now)
		return snap
	}

	snap.Records = view.Records
	snap.Summary = view.Summary
	snap.Cells = view.Cells
	if len(snap.Cells) == 0 {
		snap.Cells = service.BuildCalendar(view.Records, year, month, now)
	}
	return snap
}

// Snapshot returns the currently held state.
func (v *CalendarView) Snapshot() CalendarSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot
}

// Close marks the view as torn down. Results from in-flight loads are
// discarded after this point.
func (v *CalendarView) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}
