package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentra/ems-api/internal/models"
	appErrors "github.com/talentra/ems-api/pkg/errors"
)

type notificationRepository interface {
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error)
	Create(ctx context.Context, n *models.Notification) error
	MarkRead(ctx context.Context, id, userID string, at time.Time) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type notificationUserLookup interface {
	FindByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
}

// NotificationService manages in-app notifications.
type NotificationService struct {
	repo   notificationRepository
	users  notificationUserLookup
	logger *zap.Logger
	now    func() time.Time
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(repo notificationRepository, users notificationUserLookup, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, users: users, logger: logger, now: time.Now}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, nil
}

// UnreadCount returns the badge counter shown in the top bar.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notifications")
	}
	return count, nil
}

// MarkRead stamps one notification as read. Scoped to the owning user.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.MarkRead(ctx, id, userID, s.now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

// Notify creates a notification for a user account directly.
func (s *NotificationService) Notify(ctx context.Context, userID, title, body string) error {
	notification := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}
	return nil
}

// LeaveDecided notifies the employee that owns a decided leave request.
// Failures are logged, never propagated: the decision itself already stuck.
func (s *NotificationService) LeaveDecided(ctx context.Context, request *models.LeaveRequest) {
	user, err := s.users.FindByEmployeeID(ctx, request.EmployeeID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to resolve user for leave notification",
				zap.String("employee_id", request.EmployeeID), zap.Error(err))
		}
		return
	}

	title := "Leave request " + string(request.Status)
	body := fmt.Sprintf("Your leave from %s to %s was %s.",
		request.StartDate.Format("2 Jan 2006"),
		request.EndDate.Format("2 Jan 2006"),
		request.Status,
	)
	if request.DecisionNote != nil && *request.DecisionNote != "" {
		body += " Note: " + *request.DecisionNote
	}

	if err := s.Notify(ctx, user.ID, title, body); err != nil {
		s.logger.Warn("failed to create leave notification",
			zap.String("employee_id", request.EmployeeID), zap.Error(err))
	}
}
