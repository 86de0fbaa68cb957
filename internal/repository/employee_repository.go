package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/talentra/ems-api/internal/models"
)

// EmployeeRepository handles persistence for the employee roster.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs the repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `e.id, e.employee_no, e.full_name, e.email, e.phone,
        e.department_id, d.name AS department_name, e.designation_id, dg.name AS designation_name,
        e.employee_type_id, e.supervisor_id, e.joined_at, e.active, e.created_at, e.updated_at, e.deactivated_at`

// List returns roster rows matching the filter plus a total count.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	base := `FROM employees e
JOIN departments d ON d.id = e.department_id
JOIN designations dg ON dg.id = e.designation_id`
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.DepartmentID != "" {
		where = append(where, fmt.Sprintf("e.department_id = $%d", len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("e.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(e.full_name ILIKE $%d OR e.employee_no ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"full_name":   "e.full_name",
		"employee_no": "e.employee_no",
		"joined_at":   "e.joined_at",
	}
	sortColumn, ok := allowedSort[filter.SortBy]
	if !ok {
		sortColumn = "e.full_name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		employeeColumns, base, whereClause, sortColumn, order, size, offset)

	employees := []models.Employee{}
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// FindByID fetches one employee with reference data joined in.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees e
        JOIN departments d ON d.id = e.department_id
        JOIN designations dg ON dg.id = e.designation_id
        WHERE e.id = $1`, employeeColumns)

	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// Create inserts a new employee row.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	query := `INSERT INTO employees (id, employee_no, full_name, email, phone, department_id, designation_id,
        employee_type_id, supervisor_id, joined_at, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		employee.ID,
		employee.EmployeeNo,
		employee.FullName,
		employee.Email,
		employee.Phone,
		employee.DepartmentID,
		employee.DesignationID,
		employee.EmployeeTypeID,
		employee.SupervisorID,
		employee.JoinedAt,
		employee.Active,
		employee.CreatedAt,
		employee.UpdatedAt,
	)
	return err
}

// Update rewrites the mutable profile fields.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	query := `UPDATE employees
        SET full_name = $1, email = $2, phone = $3, department_id = $4, designation_id = $5,
            employee_type_id = $6, supervisor_id = $7, updated_at = $8
        WHERE id = $9`

	res, err := r.db.ExecContext(ctx, query,
		employee.FullName,
		employee.Email,
		employee.Phone,
		employee.DepartmentID,
		employee.DesignationID,
		employee.EmployeeTypeID,
		employee.SupervisorID,
		employee.UpdatedAt,
		employee.ID,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Deactivate soft-deletes an employee.
func (r *EmployeeRepository) Deactivate(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE employees SET active = false, deactivated_at = $1, updated_at = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
