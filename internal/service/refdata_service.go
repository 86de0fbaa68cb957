package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/models"
	appErrors "github.com/talentra/ems-api/pkg/errors"
)

const refdataCacheKey = "refdata:bundle"

type refdataRepository interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	CreateDepartment(ctx context.Context, d *models.Department) error
	UpdateDepartment(ctx context.Context, id, name string, at time.Time) error
	DeleteDepartment(ctx context.Context, id string) error
	ListDesignations(ctx context.Context) ([]models.Designation, error)
	CreateDesignation(ctx context.Context, d *models.Designation) error
	ListEmployeeTypes(ctx context.Context) ([]models.EmployeeType, error)
	CreateEmployeeType(ctx context.Context, t *models.EmployeeType) error
	ListLeaveTypes(ctx context.Context) ([]models.LeaveType, error)
	CreateLeaveType(ctx context.Context, t *models.LeaveType) error
}

// RefdataService serves the dropdown reference data with caching.
type RefdataService struct {
	repo      refdataRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRefdataService constructs a RefdataService.
func NewRefdataService(repo refdataRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *RefdataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	return &RefdataService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Bundle returns all reference data in one payload. The bool reports
// whether the payload came from cache.
func (s *RefdataService) Bundle(ctx context.Context) (*dto.RefdataBundle, bool, error) {
	var cached dto.RefdataBundle
	if hit, err := s.cache.Get(ctx, refdataCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	designations, err := s.repo.ListDesignations(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list designations")
	}
	employeeTypes, err := s.repo.ListEmployeeTypes(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employee types")
	}
	leaveTypes, err := s.repo.ListLeaveTypes(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave types")
	}

	bundle := &dto.RefdataBundle{
		Departments:   departments,
		Designations:  designations,
		EmployeeTypes: employeeTypes,
		LeaveTypes:    leaveTypes,
	}
	if err := s.cache.Set(ctx, refdataCacheKey, bundle, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache refdata bundle", zap.Error(err))
	}
	return bundle, false, nil
}

// CreateDepartment adds a department and refreshes the cache.
func (s *RefdataService) CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	now := s.now().UTC()
	department := &models.Department{ID: uuid.NewString(), Name: req.Name, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.CreateDepartment(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}
	s.invalidate(ctx)
	return department, nil
}

// UpdateDepartment renames a department.
func (s *RefdataService) UpdateDepartment(ctx context.Context, id string, req dto.CreateDepartmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	if err := s.repo.UpdateDepartment(ctx, id, req.Name, s.now().UTC()); err != nil {
		return translateRowError(err, "department not found", "failed to update department")
	}
	s.invalidate(ctx)
	return nil
}

// DeleteDepartment removes a department.
func (s *RefdataService) DeleteDepartment(ctx context.Context, id string) error {
	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return translateRowError(err, "department not found", "failed to delete department")
	}
	s.invalidate(ctx)
	return nil
}

// CreateDesignation adds a job title.
func (s *RefdataService) CreateDesignation(ctx context.Context, req dto.CreateDesignationRequest) (*models.Designation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid designation payload")
	}
	now := s.now().UTC()
	designation := &models.Designation{ID: uuid.NewString(), Name: req.Name, DepartmentID: req.DepartmentID, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.CreateDesignation(ctx, designation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create designation")
	}
	s.invalidate(ctx)
	return designation, nil
}

// CreateEmployeeType adds an employment arrangement.
func (s *RefdataService) CreateEmployeeType(ctx context.Context, req dto.CreateEmployeeTypeRequest) (*models.EmployeeType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee type payload")
	}
	now := s.now().UTC()
	employeeType := &models.EmployeeType{ID: uuid.NewString(), Name: req.Name, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.CreateEmployeeType(ctx, employeeType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee type")
	}
	s.invalidate(ctx)
	return employeeType, nil
}

// CreateLeaveType adds a leave category.
func (s *RefdataService) CreateLeaveType(ctx context.Context, req dto.CreateLeaveTypeRequest) (*models.LeaveType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave type payload")
	}
	now := s.now().UTC()
	leaveType := &models.LeaveType{ID: uuid.NewString(), Name: req.Name, AnnualQuota: req.AnnualQuota, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.CreateLeaveType(ctx, leaveType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave type")
	}
	s.invalidate(ctx)
	return leaveType, nil
}

func (s *RefdataService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, refdataCacheKey); err != nil {
		s.logger.Warn("failed to invalidate refdata cache", zap.Error(err))
	}
}

func translateRowError(err error, notFoundMessage, internalMessage string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMessage)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internalMessage)
}
