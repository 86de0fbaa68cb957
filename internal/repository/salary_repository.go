package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/talentra/ems-api/internal/models"
)

// SalaryRepository handles persistence for salary history and payslip jobs.
type SalaryRepository struct {
	db *sqlx.DB
}

// NewSalaryRepository constructs the repository.
func NewSalaryRepository(db *sqlx.DB) *SalaryRepository {
	return &SalaryRepository{db: db}
}

// History returns salary entries for one employee, newest first.
func (r *SalaryRepository) History(ctx context.Context, employeeID string) ([]models.SalaryRecord, error) {
	records := []models.SalaryRecord{}
	query := `SELECT id, employee_id, year, month, basic_amount, allowances, deductions, net_amount, paid_at, created_at
        FROM salary_records WHERE employee_id = $1 ORDER BY year DESC, month DESC`
	err := r.db.SelectContext(ctx, &records, query, employeeID)
	return records, err
}

// FindEntry returns one month's salary record.
func (r *SalaryRepository) FindEntry(ctx context.Context, employeeID string, year, month int) (*models.SalaryRecord, error) {
	var record models.SalaryRecord
	query := `SELECT id, employee_id, year, month, basic_amount, allowances, deductions, net_amount, paid_at, created_at
        FROM salary_records WHERE employee_id = $1 AND year = $2 AND month = $3`
	if err := r.db.GetContext(ctx, &record, query, employeeID, year, month); err != nil {
		return nil, err
	}
	return &record, nil
}

// CreatePayslipJob queues a payslip export.
func (r *SalaryRepository) CreatePayslipJob(ctx context.Context, job *models.PayslipJob) error {
	query := `INSERT INTO payslip_jobs (id, employee_id, year, month, status, requested_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.EmployeeID, job.Year, job.Month, job.Status, job.RequestedBy, job.CreatedAt, job.UpdatedAt)
	return err
}

// FindPayslipJob fetches one payslip job.
func (r *SalaryRepository) FindPayslipJob(ctx context.Context, id string) (*models.PayslipJob, error) {
	var job models.PayslipJob
	query := `SELECT id, employee_id, year, month, status, file_path, error, requested_by, created_at, updated_at
        FROM payslip_jobs WHERE id = $1`
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdatePayslipJob records job progress or completion.
func (r *SalaryRepository) UpdatePayslipJob(ctx context.Context, id string, status models.PayslipJobStatus, filePath, jobErr *string, at time.Time) error {
	query := `UPDATE payslip_jobs SET status = $1, file_path = $2, error = $3, updated_at = $4 WHERE id = $5`
	return execExpectingRow(ctx, r.db, query, status, filePath, jobErr, at, id)
}
