package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/models"
	appErrors "github.com/talentra/ems-api/pkg/errors"
	"github.com/talentra/ems-api/pkg/export"
	"github.com/talentra/ems-api/pkg/jobs"
)

type salaryRepository interface {
	History(ctx context.Context, employeeID string) ([]models.SalaryRecord, error)
	FindEntry(ctx context.Context, employeeID string, year, month int) (*models.SalaryRecord, error)
	CreatePayslipJob(ctx context.Context, job *models.PayslipJob) error
	FindPayslipJob(ctx context.Context, id string) (*models.PayslipJob, error)
	UpdatePayslipJob(ctx context.Context, id string, status models.PayslipJobStatus, filePath, jobErr *string, at time.Time) error
}

type payslipEmployeeLookup interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

type payslipStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type payslipQueue interface {
	Enqueue(job jobs.Job) error
}

type payslipTokenSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error)
}

// SalaryServiceConfig carries rendering context for payslips.
type SalaryServiceConfig struct {
	CompanyName string
}

// SalaryService exposes salary history and asynchronous payslip exports.
type SalaryService struct {
	repo      salaryRepository
	employees payslipEmployeeLookup
	storage   payslipStorage
	queue     payslipQueue
	signer    payslipTokenSigner
	renderer  *export.PayslipRenderer
	validator *validator.Validate
	logger    *zap.Logger
	config    SalaryServiceConfig
	now       func() time.Time
}

// NewSalaryService constructs a SalaryService.
func NewSalaryService(
	repo salaryRepository,
	employees payslipEmployeeLookup,
	storage payslipStorage,
	queue payslipQueue,
	signer payslipTokenSigner,
	validate *validator.Validate,
	logger *zap.Logger,
	config SalaryServiceConfig,
) *SalaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SalaryService{
		repo:      repo,
		employees: employees,
		storage:   storage,
		queue:     queue,
		signer:    signer,
		renderer:  export.NewPayslipRenderer(),
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// SetQueue attaches the payslip worker queue after construction. The queue
// handler needs the service, so wiring happens in two steps.
func (s *SalaryService) SetQueue(queue payslipQueue) {
	s.queue = queue
}

// History returns the salary entries for one employee, newest first.
func (s *SalaryService) History(ctx context.Context, employeeID string) ([]models.SalaryRecord, error) {
	records, err := s.repo.History(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list salary history")
	}
	return records, nil
}

// RequestExport queues an asynchronous payslip PDF for the given month.
func (s *SalaryService) RequestExport(ctx context.Context, employeeID, requestedBy string, req dto.PayslipExportRequest) (*models.PayslipJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payslip payload")
	}

	if _, err := s.repo.FindEntry(ctx, employeeID, req.Year, req.Month); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no salary entry for the requested month")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch salary entry")
	}

	now := s.now().UTC()
	job := &models.PayslipJob{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		Year:        req.Year,
		Month:       req.Month,
		Status:      models.PayslipJobQueued,
		RequestedBy: requestedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreatePayslipJob(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payslip job")
	}

	if s.queue != nil {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "payslip", Payload: job.ID, Enqueued: now}); err != nil {
			s.logger.Error("failed to enqueue payslip job", zap.String("job_id", job.ID), zap.Error(err))
			s.markFailed(ctx, job.ID, "queue unavailable")
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue payslip export")
		}
	}

	s.logger.Info("payslip export queued",
		zap.String("job_id", job.ID),
		zap.String("employee_id", employeeID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
	)
	return job, nil
}

// JobStatus fetches a payslip job row.
func (s *SalaryService) JobStatus(ctx context.Context, id string) (*models.PayslipJob, error) {
	job, err := s.repo.FindPayslipJob(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payslip job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch payslip job")
	}
	return job, nil
}

// IssueDownloadToken returns a signed token for a completed payslip.
func (s *SalaryService) IssueDownloadToken(ctx context.Context, jobID string) (string, time.Time, error) {
	job, err := s.JobStatus(ctx, jobID)
	if err != nil {
		return "", time.Time{}, err
	}
	if job.Status != models.PayslipJobCompleted || job.FilePath == nil {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrConflict, "payslip is not ready for download")
	}
	token, expiresAt, err := s.signer.Generate(job.ID, *job.FilePath)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}
	return token, expiresAt, nil
}

// OpenByToken validates a signed token and opens the referenced payslip file.
func (s *SalaryService) OpenByToken(ctx context.Context, token string) (*models.PayslipJob, *os.File, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	job, err := s.JobStatus(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if job.FilePath == nil || *job.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "download token does not match the stored file")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open payslip file")
	}
	return job, file, nil
}

// ProcessJob is the queue handler that renders and stores one payslip.
func (s *SalaryService) ProcessJob(ctx context.Context, job jobs.Job) error {
	jobID, ok := job.Payload.(string)
	if !ok || jobID == "" {
		return fmt.Errorf("payslip job payload must be a job id")
	}

	record, err := s.repo.FindPayslipJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load payslip job %s: %w", jobID, err)
	}
	if record.Status == models.PayslipJobCompleted {
		return nil
	}

	if err := s.repo.UpdatePayslipJob(ctx, jobID, models.PayslipJobRunning, nil, nil, s.now().UTC()); err != nil {
		return fmt.Errorf("mark payslip job running: %w", err)
	}

	entry, err := s.repo.FindEntry(ctx, record.EmployeeID, record.Year, record.Month)
	if err != nil {
		s.markFailed(ctx, jobID, "salary entry missing")
		return fmt.Errorf("load salary entry: %w", err)
	}
	employee, err := s.employees.FindByID(ctx, record.EmployeeID)
	if err != nil {
		s.markFailed(ctx, jobID, "employee missing")
		return fmt.Errorf("load employee: %w", err)
	}

	department := ""
	if employee.DepartmentName != nil {
		department = *employee.DepartmentName
	}
	pdfBytes, err := s.renderer.Render(export.PayslipData{
		CompanyName:  s.config.CompanyName,
		EmployeeNo:   employee.EmployeeNo,
		EmployeeName: employee.FullName,
		Department:   department,
		Year:         entry.Year,
		Month:        time.Month(entry.Month),
		BasicAmount:  entry.BasicAmount,
		Allowances:   entry.Allowances,
		Deductions:   entry.Deductions,
		NetAmount:    entry.NetAmount,
		PaidAt:       entry.PaidAt,
		GeneratedAt:  s.now().UTC(),
	})
	if err != nil {
		s.markFailed(ctx, jobID, "render failed")
		return fmt.Errorf("render payslip: %w", err)
	}

	relPath := filepath.Join("payslips", record.EmployeeID, fmt.Sprintf("%d-%02d-%s.pdf", record.Year, record.Month, record.ID))
	if _, err := s.storage.Save(relPath, pdfBytes); err != nil {
		s.markFailed(ctx, jobID, "storage failed")
		return fmt.Errorf("store payslip: %w", err)
	}

	if err := s.repo.UpdatePayslipJob(ctx, jobID, models.PayslipJobCompleted, &relPath, nil, s.now().UTC()); err != nil {
		return fmt.Errorf("mark payslip job completed: %w", err)
	}

	s.logger.Info("payslip rendered", zap.String("job_id", jobID), zap.String("path", relPath))
	return nil
}

func (s *SalaryService) markFailed(ctx context.Context, jobID, reason string) {
	if err := s.repo.UpdatePayslipJob(ctx, jobID, models.PayslipJobFailed, nil, &reason, s.now().UTC()); err != nil {
		s.logger.Error("failed to mark payslip job failed", zap.String("job_id", jobID), zap.Error(err))
	}
}
