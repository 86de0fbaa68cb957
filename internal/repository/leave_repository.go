package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/talentra/ems-api/internal/models"
)

// LeaveRepository handles persistence for leave requests.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs the repository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// List returns leave requests matching the provided filter plus a total count.
func (r *LeaveRepository) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, int, error) {
	base := `FROM leave_requests lr
JOIN employees e ON e.id = lr.employee_id
JOIN leave_types lt ON lt.id = lr.leave_type_id`
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.EmployeeID != "" {
		where = append(where, fmt.Sprintf("lr.employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	if filter.Status != nil && filter.Status.Valid() {
		where = append(where, fmt.Sprintf("lr.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("lr.end_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("lr.start_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"start_date": "lr.start_date",
		"status":     "lr.status",
		"created_at": "lr.created_at",
	}
	sortColumn, ok := allowedSort[filter.SortBy]
	if !ok {
		sortColumn = "lr.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
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

	query := fmt.Sprintf(`SELECT lr.id, lr.employee_id, e.full_name AS employee_name, lr.leave_type_id,
        lt.name AS leave_type_name, lr.start_date, lr.end_date, lr.reason, lr.status,
        lr.decided_by, lr.decided_at, lr.decision_note, lr.created_at, lr.updated_at
        %s WHERE %s
        ORDER BY %s %s
        LIMIT %d OFFSET %d`, base, whereClause, sortColumn, order, size, offset)

	requests := []models.LeaveRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// FindByID fetches a single leave request.
func (r *LeaveRepository) FindByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	query := `SELECT lr.id, lr.employee_id, e.full_name AS employee_name, lr.leave_type_id,
        lt.name AS leave_type_name, lr.start_date, lr.end_date, lr.reason, lr.status,
        lr.decided_by, lr.decided_at, lr.decision_note, lr.created_at, lr.updated_at
        FROM leave_requests lr
        JOIN employees e ON e.id = lr.employee_id
        JOIN leave_types lt ON lt.id = lr.leave_type_id
        WHERE lr.id = $1`

	var request models.LeaveRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// Create inserts a new pending leave request.
func (r *LeaveRepository) Create(ctx context.Context, request *models.LeaveRequest) error {
	query := `INSERT INTO leave_requests (id, employee_id, leave_type_id, start_date, end_date, reason, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		request.ID,
		request.EmployeeID,
		request.LeaveTypeID,
		request.StartDate,
		request.EndDate,
		request.Reason,
		request.Status,
		request.CreatedAt,
		request.UpdatedAt,
	)
	return err
}

// Decide records an approval or rejection.
func (r *LeaveRepository) Decide(ctx context.Context, id string, status models.LeaveStatus, decidedBy string, note *string, at time.Time) error {
	query := `UPDATE leave_requests
        SET status = $1, decided_by = $2, decided_at = $3, decision_note = $4, updated_at = $3
        WHERE id = $5`

	_, err := r.db.ExecContext(ctx, query, status, decidedBy, at, note, id)
	return err
}

// HasApprovedLeave reports whether the employee has an approved leave
// covering the given calendar date.
func (r *LeaveRepository) HasApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	day := models.DateKey(date)

	query := `SELECT COUNT(*) FROM leave_requests
        WHERE employee_id = $1 AND status = $2 AND start_date <= $3 AND end_date >= $3`

	var count int
	if err := r.db.GetContext(ctx, &count, query, employeeID, models.LeaveStatusApproved, day); err != nil {
		return false, err
	}
	return count > 0, nil
}
