package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/talentra/ems-api/internal/models"
)

// AttendanceRepository handles persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListMonth returns all records for one employee within the given month,
// ordered by date.
func (r *AttendanceRepository) ListMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]models.AttendanceRecord, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	query := `SELECT id, employee_id, date, status, check_in, check_out, note, created_at, updated_at
        FROM attendance_records
        WHERE employee_id = $1 AND date >= $2 AND date < $3
        ORDER BY date ASC`

	records := []models.AttendanceRecord{}
	if err := r.db.SelectContext(ctx, &records, query, employeeID, from, to); err != nil {
		return nil, err
	}
	return records, nil
}

// FindByDate returns the single record for the given calendar date, or
// (nil, sql.ErrNoRows) when the day is unrecorded. The date is canonicalised
// through models.DateKey, matching the instant the write path stores.
func (r *AttendanceRepository) FindByDate(ctx context.Context, employeeID string, date time.Time) (*models.AttendanceRecord, error) {
	day := models.DateKey(date)

	query := `SELECT id, employee_id, date, status, check_in, check_out, note, created_at, updated_at
        FROM attendance_records
        WHERE employee_id = $1 AND date = $2
        LIMIT 1`

	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, employeeID, day); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &record, nil
}

// Insert stores a new attendance record.
func (r *AttendanceRepository) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	query := `INSERT INTO attendance_records (id, employee_id, date, status, check_in, check_out, note, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Date,
		record.Status,
		record.CheckIn,
		record.CheckOut,
		record.Note,
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}

// Update rewrites the mutable fields of an existing record.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.AttendanceRecord) error {
	query := `UPDATE attendance_records
        SET status = $1, check_in = $2, check_out = $3, note = $4, updated_at = $5
        WHERE id = $6`

	res, err := r.db.ExecContext(ctx, query,
		record.Status,
		record.CheckIn,
		record.CheckOut,
		record.Note,
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
