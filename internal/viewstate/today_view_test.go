package viewstate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/models"
)

type fakeTodayClient struct {
	today      *dto.TodayResponse
	todayErr   error
	checkInErr error
	checkOuts  int
	fetches    int
}

func (f *fakeTodayClient) TodayAttendance(context.Context) (*dto.TodayResponse, error) {
	f.fetches++
	if f.todayErr != nil {
		return nil, f.todayErr
	}
	return f.today, nil
}

func (f *fakeTodayClient) CheckIn(context.Context) error {
	if f.checkInErr != nil {
		return f.checkInErr
	}
	f.today = &dto.TodayResponse{
		State: models.TodayStateOpen,
		Today: &models.TodayAttendance{Status: models.AttendanceStatusPresent, CheckedIn: true},
	}
	return nil
}

func (f *fakeTodayClient) CheckOut(context.Context) error {
	f.checkOuts++
	f.today = &dto.TodayResponse{State: models.TodayStateClosed}
	return nil
}

func TestTodayViewStartsNotCheckedIn(t *testing.T) {
	view := NewTodayView(&fakeTodayClient{}, nil)
	assert.Equal(t, models.TodayStateNotCheckedIn, view.Snapshot().State)
}

func TestTodayCheckInObservedOnlyViaRefetch(t *testing.T) {
	client := &fakeTodayClient{today: &dto.TodayResponse{State: models.TodayStateNotCheckedIn}}
	view := NewTodayView(client, nil)

	snap, err := view.CheckIn(context.Background())
	require.NoError(t, err)

	// The open state came from the follow-up fetch, not the action itself.
	assert.Equal(t, 1, client.fetches)
	assert.Equal(t, models.TodayStateOpen, snap.State)
	require.NotNil(t, snap.Today)
	assert.True(t, snap.Today.CheckedIn)
}

func TestTodayCheckInFailureLeavesStateUnchanged(t *testing.T) {
	client := &fakeTodayClient{
		today:      &dto.TodayResponse{State: models.TodayStateNotCheckedIn},
		checkInErr: errors.New("attendance already has an open check-in"),
	}
	view := NewTodayView(client, nil)

	snap, err := view.CheckIn(context.Background())
	require.Error(t, err)
	assert.Equal(t, models.TodayStateNotCheckedIn, snap.State)
	assert.Equal(t, err, snap.ActionErr)
	// No re-fetch happens after a failed action.
	assert.Zero(t, client.fetches)
}

func TestTodayCheckOutClosesDay(t *testing.T) {
	client := &fakeTodayClient{today: &dto.TodayResponse{State: models.TodayStateOpen}}
	view := NewTodayView(client, nil)

	snap, err := view.CheckOut(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, client.checkOuts)
	assert.Equal(t, models.TodayStateClosed, snap.State)
}

func TestTodayRefreshFailureKeepsPreviousState(t *testing.T) {
	client := &fakeTodayClient{today: &dto.TodayResponse{State: models.TodayStateOpen}}
	view := NewTodayView(client, nil)

	_, err := view.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.TodayStateOpen, view.Snapshot().State)

	client.todayErr = errors.New("gateway timeout")
	snap, err := view.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, models.TodayStateOpen, snap.State)
	assert.Equal(t, err, snap.ActionErr)
}

func TestTodayCloseFreezesSnapshotOnFailedPaths(t *testing.T) {
	client := &fakeTodayClient{today: &dto.TodayResponse{State: models.TodayStateOpen}}
	view := NewTodayView(client, nil)

	_, err := view.Refresh(context.Background())
	require.NoError(t, err)
	before := view.Snapshot()

	view.Close()

	client.todayErr = errors.New("gateway timeout")
	_, err = view.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, before, view.Snapshot())

	client.checkInErr = errors.New("conflict")
	_, err = view.CheckIn(context.Background())
	require.Error(t, err)
	assert.Equal(t, before, view.Snapshot())
}

func TestTodayOnLeaveIsTerminal(t *testing.T) {
	client := &fakeTodayClient{today: &dto.TodayResponse{
		State: models.TodayStateOnLeave,
		Today: &models.TodayAttendance{Status: models.AttendanceStatusOnLeave},
	}}
	view := NewTodayView(client, nil)

	snap, err := view.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TodayStateOnLeave, snap.State)
}
