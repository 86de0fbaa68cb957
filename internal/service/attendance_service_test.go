package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentra/ems-api/internal/models"
	appErrors "github.com/talentra/ems-api/pkg/errors"
)

type fakeAttendanceRepo struct {
	records  []models.AttendanceRecord
	byDate   *models.AttendanceRecord
	listErr  error
	inserted *models.AttendanceRecord
	updated  *models.AttendanceRecord
}

func (f *fakeAttendanceRepo) ListMonth(context.Context, string, int, time.Month) ([]models.AttendanceRecord, error) {
	return f.records, f.listErr
}

func (f *fakeAttendanceRepo) FindByDate(context.Context, string, time.Time) (*models.AttendanceRecord, error) {
	return f.byDate, nil
}

func (f *fakeAttendanceRepo) Insert(_ context.Context, record *models.AttendanceRecord) error {
	f.inserted = record
	return nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, record *models.AttendanceRecord) error {
	f.updated = record
	return nil
}

type fakeLeaveChecker struct {
	onLeave bool
	err     error
}

func (f *fakeLeaveChecker) HasApprovedLeave(context.Context, string, time.Time) (bool, error) {
	return f.onLeave, f.err
}

func newAttendanceService(repo *fakeAttendanceRepo, leaves *fakeLeaveChecker, now time.Time) *AttendanceService {
	svc := NewAttendanceService(repo, leaves, nil, nil, AttendanceServiceConfig{
		Location:      time.UTC,
		LateAfter:     "09:15",
		HalfDayBefore: "13:00",
	})
	svc.now = func() time.Time { return now }
	return svc
}

func TestMonthViewComposesRecordsSummaryAndCells(t *testing.T) {
	checkIn := time.Date(2024, time.March, 5, 9, 5, 0, 0, time.UTC)
	repo := &fakeAttendanceRepo{records: []models.AttendanceRecord{
		{ID: "r1", Date: day(2024, time.March, 5), Status: models.AttendanceStatusPresent, CheckIn: &checkIn},
		{ID: "r2", Date: day(2024, time.March, 6), Status: models.AttendanceStatusLate},
	}}
	svc := newAttendanceService(repo, &fakeLeaveChecker{}, day(2024, time.March, 10))

	view, cacheHit, err := svc.MonthView(context.Background(), "emp-1", 2024, time.March)
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Len(t, view.Records, 2)
	assert.Equal(t, 1, view.Summary.Present)
	assert.Equal(t, 1, view.Summary.Late)
	assert.Len(t, view.Cells, 42)
}

func TestMonthViewValidatesInput(t *testing.T) {
	svc := newAttendanceService(&fakeAttendanceRepo{}, &fakeLeaveChecker{}, day(2024, time.March, 10))

	_, _, err := svc.MonthView(context.Background(), "", 2024, time.March)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, _, err = svc.MonthView(context.Background(), "emp-1", 2024, time.Month(13))
	require.Error(t, err)
}

func TestTodayStates(t *testing.T) {
	now := time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC)
	checkIn := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, time.March, 10, 17, 0, 0, 0, time.UTC)

	t.Run("not checked in", func(t *testing.T) {
		svc := newAttendanceService(&fakeAttendanceRepo{}, &fakeLeaveChecker{}, now)
		resp, err := svc.Today(context.Background(), "emp-1")
		require.NoError(t, err)
		assert.Equal(t, models.TodayStateNotCheckedIn, resp.State)
	})

	t.Run("open after check-in", func(t *testing.T) {
		repo := &fakeAttendanceRepo{byDate: &models.AttendanceRecord{
			Status: models.AttendanceStatusPresent, CheckIn: &checkIn,
		}}
		svc := newAttendanceService(repo, &fakeLeaveChecker{}, now)
		resp, err := svc.Today(context.Background(), "emp-1")
		require.NoError(t, err)
		assert.Equal(t, models.TodayStateOpen, resp.State)
		assert.True(t, resp.Today.CheckedIn)
	})

	t.Run("closed after check-out", func(t *testing.T) {
		repo := &fakeAttendanceRepo{byDate: &models.AttendanceRecord{
			Status: models.AttendanceStatusPresent, CheckIn: &checkIn, CheckOut: &checkOut,
		}}
		svc := newAttendanceService(repo, &fakeLeaveChecker{}, now)
		resp, err := svc.Today(context.Background(), "emp-1")
		require.NoError(t, err)
		assert.Equal(t, models.TodayStateClosed, resp.State)
	})

	t.Run("on leave is terminal and bypasses records", func(t *testing.T) {
		repo := &fakeAttendanceRepo{byDate: &models.AttendanceRecord{CheckIn: &checkIn}}
		svc := newAttendanceService(repo, &fakeLeaveChecker{onLeave: true}, now)
		resp, err := svc.Today(context.Background(), "emp-1")
		require.NoError(t, err)
		assert.Equal(t, models.TodayStateOnLeave, resp.State)
	})
}

func TestCheckInRecordsPresentOrLate(t *testing.T) {
	t.Run("on time", func(t *testing.T) {
		repo := &fakeAttendanceRepo{}
		now := time.Date(2024, time.March, 11, 9, 0, 0, 0, time.UTC)
		svc := newAttendanceService(repo, &fakeLeaveChecker{}, now)

		require.NoError(t, svc.CheckIn(context.Background(), "emp-1"))
		require.NotNil(t, repo.inserted)
		assert.Equal(t, models.AttendanceStatusPresent, repo.inserted.Status)
		assert.Equal(t, day(2024, time.March, 11), repo.inserted.Date)
		require.NotNil(t, repo.inserted.CheckIn)
	})

	t.Run("non-utc zone stores the canonical date key", func(t *testing.T) {
		wib := time.FixedZone("WIB", 7*3600)
		repo := &fakeAttendanceRepo{}
		now := time.Date(2024, time.March, 5, 10, 0, 0, 0, wib)
		svc := NewAttendanceService(repo, &fakeLeaveChecker{}, nil, nil, AttendanceServiceConfig{
			Location: wib, LateAfter: "09:15", HalfDayBefore: "13:00",
		})
		svc.now = func() time.Time { return now }

		require.NoError(t, svc.CheckIn(context.Background(), "emp-1"))
		require.NotNil(t, repo.inserted)
		assert.Equal(t, models.DateKey(now), repo.inserted.Date)
		assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), repo.inserted.Date)
	})

	t.Run("late after threshold", func(t *testing.T) {
		repo := &fakeAttendanceRepo{}
		now := time.Date(2024, time.March, 11, 9, 40, 0, 0, time.UTC)
		svc := newAttendanceService(repo, &fakeLeaveChecker{}, now)

		require.NoError(t, svc.CheckIn(context.Background(), "emp-1"))
		require.NotNil(t, repo.inserted)
		assert.Equal(t, models.AttendanceStatusLate, repo.inserted.Status)
	})
}

func TestCheckInRejectsInvalidTransitions(t *testing.T) {
	now := time.Date(2024, time.March, 11, 9, 0, 0, 0, time.UTC)

	t.Run("double check-in", func(t *testing.T) {
		repo := &fakeAttendanceRepo{byDate: &models.AttendanceRecord{CheckIn: &now}}
		svc := newAttendanceService(repo, &fakeLeaveChecker{}, now)
		err := svc.CheckIn(context.Background(), "emp-1")
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrAlreadyCheckedIn.Code, appErrors.FromError(err).Code)
		assert.Nil(t, repo.inserted, "failed action must not mutate state")
	})

	t.Run("on leave", func(t *testing.T) {
		repo := &fakeAttendanceRepo{}
		svc := newAttendanceService(repo, &fakeLeaveChecker{onLeave: true}, now)
		err := svc.CheckIn(context.Background(), "emp-1")
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrOnLeaveToday.Code, appErrors.FromError(err).Code)
		assert.Nil(t, repo.inserted)
	})
}

func TestCheckOutTransitions(t *testing.T) {
	checkIn := time.Date(2024, time.March, 11, 9, 0, 0, 0, time.UTC)

	t.Run("closes the day", func(t *testing.T) {
		repo := &fakeAttendanceRepo{byDate: &models.AttendanceRecord{
			Status: models.AttendanceStatusPresent, CheckIn: &checkIn,
		}}
		now := time.Date(2024, time.March, 11, 17, 30, 0, 0, time.UTC)
		svc := newAttendanceService(repo, &fakeLeaveChecker{}, now)

		require.NoError(t, svc.CheckOut(context.Background(), "emp-1"))
		require.NotNil(t, repo.updated)
		require.NotNil(t, repo.updated.CheckOut)
		assert.Equal(t, models.AttendanceStatusPresent, repo.updated.Status)
	})

	t.Run("early check-out becomes half-day", func(t *testing.T) {
		repo := &fakeAttendanceRepo{byDate: &models.AttendanceRecord{
			Status: models.AttendanceStatusPresent, CheckIn: &checkIn,
		}}
		now := time.Date(2024, time.March, 11, 11, 30, 0, 0, time.UTC)
		svc := newAttendanceService(repo, &fakeLeaveChecker{}, now)

		require.NoError(t, svc.CheckOut(context.Background(), "emp-1"))
		require.NotNil(t, repo.updated)
		assert.Equal(t, models.AttendanceStatusHalfDay, repo.updated.Status)
	})

	t.Run("without open check-in", func(t *testing.T) {
		repo := &fakeAttendanceRepo{}
		now := time.Date(2024, time.March, 11, 17, 0, 0, 0, time.UTC)
		svc := newAttendanceService(repo, &fakeLeaveChecker{}, now)

		err := svc.CheckOut(context.Background(), "emp-1")
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrNotCheckedIn.Code, appErrors.FromError(err).Code)
	})

	t.Run("double check-out", func(t *testing.T) {
		out := time.Date(2024, time.March, 11, 17, 0, 0, 0, time.UTC)
		repo := &fakeAttendanceRepo{byDate: &models.AttendanceRecord{
			Status: models.AttendanceStatusPresent, CheckIn: &checkIn, CheckOut: &out,
		}}
		svc := newAttendanceService(repo, &fakeLeaveChecker{}, out)

		err := svc.CheckOut(context.Background(), "emp-1")
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrAlreadyCheckedOut.Code, appErrors.FromError(err).Code)
		assert.Nil(t, repo.updated)
	})
}
