package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/talentra/ems-api/internal/models"
)

// RefdataRepository handles organisational reference data: departments,
// designations, employee types and leave types.
type RefdataRepository struct {
	db *sqlx.DB
}

// NewRefdataRepository constructs the repository.
func NewRefdataRepository(db *sqlx.DB) *RefdataRepository {
	return &RefdataRepository{db: db}
}

// ListDepartments returns all departments ordered by name.
func (r *RefdataRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	out := []models.Department{}
	err := r.db.SelectContext(ctx, &out, "SELECT id, name, created_at, updated_at FROM departments ORDER BY name ASC")
	return out, err
}

// CreateDepartment inserts a department.
func (r *RefdataRepository) CreateDepartment(ctx context.Context, d *models.Department) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO departments (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)",
		d.ID, d.Name, d.CreatedAt, d.UpdatedAt)
	return err
}

// UpdateDepartment renames a department.
func (r *RefdataRepository) UpdateDepartment(ctx context.Context, id, name string, at time.Time) error {
	return execExpectingRow(ctx, r.db, "UPDATE departments SET name = $1, updated_at = $2 WHERE id = $3", name, at, id)
}

// DeleteDepartment removes a department.
func (r *RefdataRepository) DeleteDepartment(ctx context.Context, id string) error {
	return execExpectingRow(ctx, r.db, "DELETE FROM departments WHERE id = $1", id)
}

// ListDesignations returns all designations ordered by name.
func (r *RefdataRepository) ListDesignations(ctx context.Context) ([]models.Designation, error) {
	out := []models.Designation{}
	err := r.db.SelectContext(ctx, &out, "SELECT id, name, department_id, created_at, updated_at FROM designations ORDER BY name ASC")
	return out, err
}

// CreateDesignation inserts a designation.
func (r *RefdataRepository) CreateDesignation(ctx context.Context, d *models.Designation) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO designations (id, name, department_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		d.ID, d.Name, d.DepartmentID, d.CreatedAt, d.UpdatedAt)
	return err
}

// ListEmployeeTypes returns all employee types.
func (r *RefdataRepository) ListEmployeeTypes(ctx context.Context) ([]models.EmployeeType, error) {
	out := []models.EmployeeType{}
	err := r.db.SelectContext(ctx, &out, "SELECT id, name, created_at, updated_at FROM employee_types ORDER BY name ASC")
	return out, err
}

// CreateEmployeeType inserts an employee type.
func (r *RefdataRepository) CreateEmployeeType(ctx context.Context, t *models.EmployeeType) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO employee_types (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)",
		t.ID, t.Name, t.CreatedAt, t.UpdatedAt)
	return err
}

// ListLeaveTypes returns all leave types.
func (r *RefdataRepository) ListLeaveTypes(ctx context.Context) ([]models.LeaveType, error) {
	out := []models.LeaveType{}
	err := r.db.SelectContext(ctx, &out, "SELECT id, name, annual_quota, created_at, updated_at FROM leave_types ORDER BY name ASC")
	return out, err
}

// CreateLeaveType inserts a leave type.
func (r *RefdataRepository) CreateLeaveType(ctx context.Context, t *models.LeaveType) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO leave_types (id, name, annual_quota, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		t.ID, t.Name, t.AnnualQuota, t.CreatedAt, t.UpdatedAt)
	return err
}

func execExpectingRow(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
