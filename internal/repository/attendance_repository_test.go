package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentra/ems-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestAttendanceListMonth(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	checkIn := time.Date(2024, time.March, 5, 9, 5, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "employee_id", "date", "status", "check_in", "check_out", "note", "created_at", "updated_at"}).
		AddRow("r1", "emp-1", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), "present", checkIn, nil, nil, now, now).
		AddRow("r2", "emp-1", time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), "late", nil, nil, nil, now, now)

	mock.ExpectQuery("SELECT id, employee_id, date, status").
		WithArgs("emp-1",
			time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(rows)

	records, err := repo.ListMonth(context.Background(), "emp-1", 2024, time.March)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.AttendanceStatusPresent, records[0].Status)
	require.NotNil(t, records[0].CheckIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceFindByDateMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("SELECT id, employee_id, date, status").
		WillReturnError(sql.ErrNoRows)

	record, err := repo.FindByDate(context.Background(), "emp-1", time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC))
	assert.Nil(t, record)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceFindByDateCanonicalisesZone(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	wib := time.FixedZone("WIB", 7*3600)
	local := time.Date(2024, time.March, 5, 10, 0, 0, 0, wib)
	rows := sqlmock.NewRows([]string{"id", "employee_id", "date", "status", "check_in", "check_out", "note", "created_at", "updated_at"}).
		AddRow("r1", "emp-1", models.DateKey(local), "present", local, nil, nil, now, now)

	mock.ExpectQuery("SELECT id, employee_id, date, status").
		WithArgs("emp-1", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(rows)

	record, err := repo.FindByDate(context.Background(), "emp-1", local)
	require.NoError(t, err)
	assert.Equal(t, "r1", record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceInsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance_records")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	now := time.Now()
	err := repo.Insert(context.Background(), &models.AttendanceRecord{
		ID:         "r1",
		EmployeeID: "emp-1",
		Date:       time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
		Status:     models.AttendanceStatusPresent,
		CheckIn:    &now,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE attendance_records")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.AttendanceRecord{ID: "missing"})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
