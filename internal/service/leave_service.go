package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/models"
	appErrors "github.com/talentra/ems-api/pkg/errors"
)

type leaveRepository interface {
	List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, int, error)
	FindByID(ctx context.Context, id string) (*models.LeaveRequest, error)
	Create(ctx context.Context, request *models.LeaveRequest) error
	Decide(ctx context.Context, id string, status models.LeaveStatus, decidedBy string, note *string, at time.Time) error
}

type leaveNotifier interface {
	LeaveDecided(ctx context.Context, request *models.LeaveRequest)
}

// LeaveService implements the leave request workflow.
type LeaveService struct {
	repo      leaveRepository
	notifier  leaveNotifier
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewLeaveService constructs a LeaveService.
func NewLeaveService(repo leaveRepository, notifier leaveNotifier, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LeaveService{
		repo:      repo,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns leave requests matching the filter.
func (s *LeaveService) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, int, error) {
	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}
	return requests, total, nil
}

// Get fetches a single leave request.
func (s *LeaveService) Get(ctx context.Context, id string) (*models.LeaveRequest, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch leave request")
	}
	return request, nil
}

// Request files a new pending leave application for the employee.
func (s *LeaveService) Request(ctx context.Context, employeeID string, req dto.CreateLeaveRequest) (*models.LeaveRequest, error) {
	if employeeID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employee id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}

	start, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start date")
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end date")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not be before start date")
	}

	now := s.now().UTC()
	request := &models.LeaveRequest{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		Reason:      req.Reason,
		Status:      models.LeaveStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave request")
	}

	s.logger.Info("leave requested",
		zap.String("leave_id", request.ID),
		zap.String("employee_id", employeeID),
		zap.Time("start", start),
		zap.Time("end", end),
	)
	return request, nil
}

// Approve marks a pending request approved.
func (s *LeaveService) Approve(ctx context.Context, id, decidedBy string, req dto.DecideLeaveRequest) (*models.LeaveRequest, error) {
	return s.decide(ctx, id, decidedBy, models.LeaveStatusApproved, req)
}

// Reject marks a pending request rejected.
func (s *LeaveService) Reject(ctx context.Context, id, decidedBy string, req dto.DecideLeaveRequest) (*models.LeaveRequest, error) {
	return s.decide(ctx, id, decidedBy, models.LeaveStatusRejected, req)
}

// Cancel lets the owning employee withdraw a pending request.
func (s *LeaveService) Cancel(ctx context.Context, id, employeeID string) (*models.LeaveRequest, error) {
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.EmployeeID != employeeID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "leave request belongs to another employee")
	}
	if request.Status != models.LeaveStatusPending {
		return nil, appErrors.Clone(appErrors.ErrLeaveNotPending, fmt.Sprintf("leave request is already %s", request.Status))
	}

	now := s.now().UTC()
	if err := s.repo.Decide(ctx, id, models.LeaveStatusCancelled, employeeID, nil, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel leave request")
	}
	request.Status = models.LeaveStatusCancelled
	request.DecidedBy = &employeeID
	request.DecidedAt = &now
	return request, nil
}

func (s *LeaveService) decide(ctx context.Context, id, decidedBy string, status models.LeaveStatus, req dto.DecideLeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}

	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != models.LeaveStatusPending {
		return nil, appErrors.Clone(appErrors.ErrLeaveNotPending, fmt.Sprintf("leave request is already %s", request.Status))
	}

	now := s.now().UTC()
	if err := s.repo.Decide(ctx, id, status, decidedBy, req.Note, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record leave decision")
	}

	request.Status = status
	request.DecidedBy = &decidedBy
	request.DecidedAt = &now
	request.DecisionNote = req.Note
	request.UpdatedAt = now

	if s.notifier != nil {
		s.notifier.LeaveDecided(ctx, request)
	}

	s.logger.Info("leave decided",
		zap.String("leave_id", id),
		zap.String("status", string(status)),
		zap.String("decided_by", decidedBy),
	)
	return request, nil
}
