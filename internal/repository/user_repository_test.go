package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentra/ems-api/internal/models"
)

func userRows(id, email string, role models.UserRole, employeeID *string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "full_name", "role", "employee_id",
		"active", "last_login", "created_at", "updated_at",
	}).AddRow(id, email, "$2a$10$hash", "Ana Pereira", string(role), employeeID, true, nil, now, now)
}

func TestUserFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	empID := "emp-1"
	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("ana@talentra.io").
		WillReturnRows(userRows("u-1", "ana@talentra.io", models.RoleEmployee, &empID))

	user, err := repo.FindByEmail(context.Background(), "ana@talentra.io")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, models.RoleEmployee, user.Role)
	require.NotNil(t, user.EmployeeID)
	assert.Equal(t, "emp-1", *user.EmployeeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByEmployeeIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("emp-x").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmployeeID(context.Background(), "emp-x")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRefreshTokenRoundTrip(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	token := &models.RefreshToken{
		ID:        "rt-1",
		UserID:    "u-1",
		Token:     "opaque-token",
		ExpiresAt: now.Add(7 * 24 * time.Hour),
		CreatedAt: now,
	}
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(token.ID, token.UserID, token.Token, token.ExpiresAt, token.CreatedAt,
			false, token.IPAddress, token.UserAgent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.CreateRefreshToken(context.Background(), token))

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "token", "expires_at", "created_at", "revoked",
		"revoked_at", "ip_address", "user_agent",
	}).AddRow(token.ID, token.UserID, token.Token, token.ExpiresAt, token.CreatedAt, false, nil, "", "")
	mock.ExpectQuery("SELECT id, user_id, token").
		WithArgs("opaque-token").
		WillReturnRows(rows)

	found, err := repo.FindRefreshToken(context.Background(), "opaque-token")
	require.NoError(t, err)
	assert.Equal(t, "rt-1", found.ID)
	assert.False(t, found.Revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRevokeAllTokens(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked = true").
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.RevokeUserRefreshTokens(context.Background(), "u-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
