package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/models"
	appErrors "github.com/talentra/ems-api/pkg/errors"
)

type fakeLeaveRepo struct {
	byID      *models.LeaveRequest
	findErr   error
	created   *models.LeaveRequest
	decidedID string
	decided   models.LeaveStatus
	decideErr error
}

func (f *fakeLeaveRepo) List(context.Context, models.LeaveFilter) ([]models.LeaveRequest, int, error) {
	return nil, 0, nil
}

func (f *fakeLeaveRepo) FindByID(context.Context, string) (*models.LeaveRequest, error) {
	return f.byID, f.findErr
}

func (f *fakeLeaveRepo) Create(_ context.Context, request *models.LeaveRequest) error {
	f.created = request
	return nil
}

func (f *fakeLeaveRepo) Decide(_ context.Context, id string, status models.LeaveStatus, _ string, _ *string, _ time.Time) error {
	f.decidedID = id
	f.decided = status
	return f.decideErr
}

type fakeLeaveNotifier struct {
	decided []*models.LeaveRequest
}

func (f *fakeLeaveNotifier) LeaveDecided(_ context.Context, request *models.LeaveRequest) {
	f.decided = append(f.decided, request)
}

func newLeaveService(repo *fakeLeaveRepo, notifier *fakeLeaveNotifier, now time.Time) *LeaveService {
	svc := NewLeaveService(repo, notifier, nil, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestLeaveRequestCreatesPendingRow(t *testing.T) {
	repo := &fakeLeaveRepo{}
	svc := newLeaveService(repo, &fakeLeaveNotifier{}, day(2024, time.March, 1))

	request, err := svc.Request(context.Background(), "emp-1", dto.CreateLeaveRequest{
		LeaveTypeID: "8f14e45f-ceea-467f-a8ce-8a472bceea5a",
		StartDate:   "2024-03-11",
		EndDate:     "2024-03-12",
		Reason:      "family event",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, models.LeaveStatusPending, request.Status)
	assert.Equal(t, day(2024, time.March, 11), request.StartDate)
	assert.Equal(t, day(2024, time.March, 12), request.EndDate)
}

func TestLeaveRequestRejectsInvertedDates(t *testing.T) {
	svc := newLeaveService(&fakeLeaveRepo{}, &fakeLeaveNotifier{}, day(2024, time.March, 1))

	_, err := svc.Request(context.Background(), "emp-1", dto.CreateLeaveRequest{
		LeaveTypeID: "8f14e45f-ceea-467f-a8ce-8a472bceea5a",
		StartDate:   "2024-03-12",
		EndDate:     "2024-03-11",
		Reason:      "typo",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLeaveApproveNotifiesEmployee(t *testing.T) {
	repo := &fakeLeaveRepo{byID: &models.LeaveRequest{
		ID:         "lv-1",
		EmployeeID: "emp-1",
		StartDate:  day(2024, time.March, 11),
		EndDate:    day(2024, time.March, 12),
		Status:     models.LeaveStatusPending,
	}}
	notifier := &fakeLeaveNotifier{}
	svc := newLeaveService(repo, notifier, day(2024, time.March, 2))

	request, err := svc.Approve(context.Background(), "lv-1", "sup-1", dto.DecideLeaveRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveStatusApproved, request.Status)
	assert.Equal(t, models.LeaveStatusApproved, repo.decided)
	require.Len(t, notifier.decided, 1)
	assert.Equal(t, "lv-1", notifier.decided[0].ID)
}

func TestLeaveDecideRequiresPendingStatus(t *testing.T) {
	repo := &fakeLeaveRepo{byID: &models.LeaveRequest{
		ID:     "lv-1",
		Status: models.LeaveStatusApproved,
	}}
	svc := newLeaveService(repo, &fakeLeaveNotifier{}, day(2024, time.March, 2))

	_, err := svc.Reject(context.Background(), "lv-1", "sup-1", dto.DecideLeaveRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrLeaveNotPending.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.decidedID)
}

func TestLeaveCancelScopedToOwner(t *testing.T) {
	repo := &fakeLeaveRepo{byID: &models.LeaveRequest{
		ID:         "lv-1",
		EmployeeID: "emp-1",
		Status:     models.LeaveStatusPending,
	}}
	svc := newLeaveService(repo, &fakeLeaveNotifier{}, day(2024, time.March, 2))

	_, err := svc.Cancel(context.Background(), "lv-1", "emp-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	request, err := svc.Cancel(context.Background(), "lv-1", "emp-1")
	require.NoError(t, err)
	assert.Equal(t, models.LeaveStatusCancelled, request.Status)
}

func TestLeaveGetMissingRow(t *testing.T) {
	repo := &fakeLeaveRepo{findErr: sql.ErrNoRows}
	svc := newLeaveService(repo, &fakeLeaveNotifier{}, day(2024, time.March, 2))

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
