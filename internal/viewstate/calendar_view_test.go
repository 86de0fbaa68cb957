package viewstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/models"
)

type fakeMonthFetcher struct {
	mu    sync.Mutex
	calls int
	fn    func(year, month int) (*dto.MonthViewResponse, error)
}

func (f *fakeMonthFetcher) MonthAttendance(_ context.Context, _ string, year, month int) (*dto.MonthViewResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn(year, month)
}

func monthResponse(year, month, present int) *dto.MonthViewResponse {
	return &dto.MonthViewResponse{
		Year:    year,
		Month:   month,
		Summary: models.AttendanceSummary{Present: present},
		Cells:   make([]models.CalendarCell, 42),
	}
}

func TestCalendarLoadStoresSnapshot(t *testing.T) {
	fetcher := &fakeMonthFetcher{fn: func(year, month int) (*dto.MonthViewResponse, error) {
		return monthResponse(year, month, 5), nil
	}}
	view := NewCalendarView(fetcher, "me", nil)

	snap := view.Load(context.Background(), 2024, time.March)
	require.NoError(t, snap.Err)
	assert.Equal(t, 5, snap.Summary.Present)
	assert.Equal(t, snap, view.Snapshot())
}

func TestCalendarFetchFailureYieldsEmptyGrid(t *testing.T) {
	fetcher := &fakeMonthFetcher{fn: func(int, int) (*dto.MonthViewResponse, error) {
		return nil, errors.New("connection refused")
	}}
	view := NewCalendarView(fetcher, "me", nil)

	snap := view.Load(context.Background(), 2024, time.March)
	require.Error(t, snap.Err)
	assert.Empty(t, snap.Records)
	assert.Zero(t, snap.Summary)
	require.NotEmpty(t, snap.Cells)
	assert.Zero(t, len(snap.Cells)%7)
	for _, cell := range snap.Cells {
		assert.Nil(t, cell.Record)
	}
}

func TestCalendarLastRequestWins(t *testing.T) {
	gate := make(chan struct{})
	fetcher := &fakeMonthFetcher{}
	fetcher.fn = func(year, month int) (*dto.MonthViewResponse, error) {
		if month == 3 {
			<-gate
		}
		return monthResponse(year, month, month), nil
	}
	view := NewCalendarView(fetcher, "me", nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		view.Load(context.Background(), 2024, time.March)
	}()

	// Wait for the March fetch to be in flight before issuing April.
	require.Eventually(t, func() bool {
		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		return fetcher.calls == 1
	}, time.Second, time.Millisecond)

	april := view.Load(context.Background(), 2024, time.April)
	require.NoError(t, april.Err)

	close(gate)
	wg.Wait()

	// The March response resolved after April started and must not win.
	assert.Equal(t, time.April, view.Snapshot().Month)
	assert.Equal(t, 4, view.Snapshot().Summary.Present)
}

func TestCalendarCloseDiscardsInFlightResult(t *testing.T) {
	gate := make(chan struct{})
	fetcher := &fakeMonthFetcher{fn: func(year, month int) (*dto.MonthViewResponse, error) {
		<-gate
		return monthResponse(year, month, 9), nil
	}}
	view := NewCalendarView(fetcher, "me", nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		view.Load(context.Background(), 2024, time.March)
	}()

	require.Eventually(t, func() bool {
		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		return fetcher.calls == 1
	}, time.Second, time.Millisecond)

	view.Close()
	close(gate)
	wg.Wait()

	assert.Zero(t, view.Snapshot().Summary.Present)

	// Loads after close are no-ops.
	snap := view.Load(context.Background(), 2024, time.May)
	assert.Nil(t, snap.Cells)
	fetcher.mu.Lock()
	assert.Equal(t, 1, fetcher.calls)
	fetcher.mu.Unlock()
}
