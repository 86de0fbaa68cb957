package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/models"
	appErrors "github.com/talentra/ems-api/pkg/errors"
)

type attendanceRepository interface {
	ListMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]models.AttendanceRecord, error)
	FindByDate(ctx context.Context, employeeID string, date time.Time) (*models.AttendanceRecord, error)
	Insert(ctx context.Context, record *models.AttendanceRecord) error
	Update(ctx context.Context, record *models.AttendanceRecord) error
}

type approvedLeaveChecker interface {
	HasApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error)
}

// AttendanceServiceConfig tunes derivation and check-in behaviour.
type AttendanceServiceConfig struct {
	// Location is the viewer's calendar reference zone.
	Location *time.Location
	// LateAfter is the HH:MM wall clock after which check-in counts as late.
	LateAfter string
	// HalfDayBefore is the HH:MM wall clock before which check-out
	// downgrades the day to half-day.
	HalfDayBefore string
	CacheTTL      time.Duration
}

// AttendanceService owns the month view derivation and the daily
// check-in/check-out workflow.
type AttendanceService struct {
	repo   attendanceRepository
	leaves approvedLeaveChecker
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    AttendanceServiceConfig
}

// NewAttendanceService constructs the service.
func NewAttendanceService(repo attendanceRepository, leaves approvedLeaveChecker, cache *CacheService, logger *zap.Logger, cfg AttendanceServiceConfig) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.LateAfter == "" {
		cfg.LateAfter = "09:15"
	}
	if cfg.HalfDayBefore == "" {
		cfg.HalfDayBefore = "13:00"
	}
	return &AttendanceService{repo: repo, leaves: leaves, cache: cache, logger: logger, now: time.Now, cfg: cfg}
}

// MonthView assembles records, summary tiles and derived calendar cells for
// one employee and month. The bool reports cache utilisation.
func (s *AttendanceService) MonthView(ctx context.Context, employeeID string, year int, month time.Month) (*dto.MonthViewResponse, bool, error) {
	if employeeID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "employee id is required")
	}
	if month < time.January || month > time.December {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}

	cacheKey := fmt.Sprintf("attendance:month:%s:%d-%02d", employeeID, year, int(month))
	if s.cache.Enabled() {
		var cached dto.MonthViewResponse
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, true, nil
		}
	}

	records, err := s.repo.ListMonth(ctx, employeeID, year, month)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance records")
	}

	today := s.now().In(s.cfg.Location)
	view := &dto.MonthViewResponse{
		Year:    year,
		Month:   int(month),
		Records: records,
		Summary: Summarize(records),
		Cells:   BuildCalendar(records, year, month, today),
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, view, s.cfg.CacheTTL)
	}
	return view, false, nil
}

// Today reports the current day's attendance state. An approved leave for the
// day reports the terminal on-leave state regardless of any record.
func (s *AttendanceService) Today(ctx context.Context, employeeID string) (*dto.TodayResponse, error) {
	if employeeID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employee id is required")
	}
	today := s.now().In(s.cfg.Location)

	onLeave, err := s.leaves.HasApprovedLeave(ctx, employeeID, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check leave status")
	}
	if onLeave {
		att := &models.TodayAttendance{Status: models.AttendanceStatusOnLeave}
		return &dto.TodayResponse{State: att.State(), Today: att}, nil
	}

	record, err := s.repo.FindByDate(ctx, employeeID, today)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load today's attendance")
	}
	if record == nil {
		att := &models.TodayAttendance{}
		return &dto.TodayResponse{State: att.State(), Today: att}, nil
	}

	att := &models.TodayAttendance{
		Status:    record.Status,
		CheckedIn: record.CheckIn != nil,
		CheckIn:   record.CheckIn,
		CheckOut:  record.CheckOut,
		Note:      record.Note,
	}
	return &dto.TodayResponse{State: att.State(), Today: att}, nil
}

// CheckIn opens today's attendance. The transition is validated against the
// current state and persisted; callers observe the new state only by
// re-querying Today, never from an optimistic local copy.
func (s *AttendanceService) CheckIn(ctx context.Context, employeeID string) error {
	if employeeID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "employee id is required")
	}
	now := s.now().In(s.cfg.Location)

	onLeave, err := s.leaves.HasApprovedLeave(ctx, employeeID, now)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check leave status")
	}
	if onLeave {
		return appErrors.ErrOnLeaveToday
	}

	existing, err := s.repo.FindByDate(ctx, employeeID, now)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load today's attendance")
	}
	if existing != nil && existing.CheckIn != nil {
		return appErrors.ErrAlreadyCheckedIn
	}

	status := models.AttendanceStatusPresent
	if s.afterClock(now, s.cfg.LateAfter) {
		status = models.AttendanceStatusLate
	}

	record := &models.AttendanceRecord{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Date:       models.DateKey(now),
		Status:     status,
		CheckIn:    &now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record check-in")
	}

	s.invalidateMonth(ctx, employeeID, now)
	s.logger.Info("employee checked in",
		zap.String("employee_id", employeeID),
		zap.String("status", string(status)))
	return nil
}

// CheckOut closes today's open attendance.
func (s *AttendanceService) CheckOut(ctx context.Context, employeeID string) error {
	if employeeID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "employee id is required")
	}
	now := s.now().In(s.cfg.Location)

	record, err := s.repo.FindByDate(ctx, employeeID, now)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load today's attendance")
	}
	if record == nil || record.CheckIn == nil {
		return appErrors.ErrNotCheckedIn
	}
	if record.CheckOut != nil {
		return appErrors.ErrAlreadyCheckedOut
	}

	record.CheckOut = &now
	if !s.afterClock(now, s.cfg.HalfDayBefore) && record.Status != models.AttendanceStatusLate {
		record.Status = models.AttendanceStatusHalfDay
	}
	record.UpdatedAt = now

	if err := s.repo.Update(ctx, record); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record check-out")
	}

	s.invalidateMonth(ctx, employeeID, now)
	s.logger.Info("employee checked out", zap.String("employee_id", employeeID))
	return nil
}

func (s *AttendanceService) invalidateMonth(ctx context.Context, employeeID string, at time.Time) {
	if !s.cache.Enabled() {
		return
	}
	pattern := fmt.Sprintf("attendance:month:%s:%d-%02d", employeeID, at.Year(), int(at.Month()))
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("failed to invalidate attendance cache", zap.String("pattern", pattern), zap.Error(err))
	}
}

// afterClock reports whether t's wall clock is strictly after the HH:MM mark.
func (s *AttendanceService) afterClock(t time.Time, clock string) bool {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return false
	}
	hh, err1 := strconv.Atoi(parts[0])
	mm, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return false
	}
	return t.Hour()*60+t.Minute() > hh*60+mm
}
