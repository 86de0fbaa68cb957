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

type skillRepository interface {
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Skill, error)
	Upsert(ctx context.Context, skill *models.Skill) error
	Delete(ctx context.Context, id string) error
}

// SkillService manages profile skills.
type SkillService struct {
	repo      skillRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSkillService constructs a SkillService.
func NewSkillService(repo skillRepository, validate *validator.Validate, logger *zap.Logger) *SkillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SkillService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns the skills on an employee profile.
func (s *SkillService) List(ctx context.Context, employeeID string) ([]models.Skill, error) {
	skills, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list skills")
	}
	return skills, nil
}

// Upsert adds or updates a skill keyed by its name.
func (s *SkillService) Upsert(ctx context.Context, employeeID string, req dto.UpsertSkillRequest) (*models.Skill, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid skill payload")
	}

	now := s.now().UTC()
	skill := &models.Skill{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Name:       req.Name,
		Level:      req.Level,
		YearsUsed:  req.YearsUsed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Upsert(ctx, skill); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save skill")
	}
	return skill, nil
}

// Delete removes a skill row.
func (s *SkillService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "skill not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete skill")
	}
	return nil
}
