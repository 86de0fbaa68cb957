package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/talentra/ems-api/internal/models"
	appErrors "github.com/talentra/ems-api/pkg/errors"
)

type fakeAuthRepo struct {
	users      map[string]*models.User
	tokens     map[string]*models.RefreshToken
	lastLogin  map[string]time.Time
	revokedAll []string
	passwords  map[string]string
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		users:     map[string]*models.User{},
		tokens:    map[string]*models.RefreshToken{},
		lastLogin: map[string]time.Time{},
		passwords: map[string]string{},
	}
}

func (f *fakeAuthRepo) addUser(user *models.User, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user.PasswordHash = string(hash)
	f.users[user.ID] = user
}

func (f *fakeAuthRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeAuthRepo) UpdateLastLogin(_ context.Context, id string, ts time.Time) error {
	f.lastLogin[id] = ts
	return nil
}

func (f *fakeAuthRepo) UpdatePassword(_ context.Context, id, passwordHash string, _ time.Time) error {
	f.passwords[id] = passwordHash
	if user, ok := f.users[id]; ok {
		user.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeAuthRepo) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	f.revokedAll = append(f.revokedAll, userID)
	for _, token := range f.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (f *fakeAuthRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeAuthRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := f.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return stored, nil
}

func (f *fakeAuthRepo) RevokeRefreshToken(_ context.Context, id string, revokedAt time.Time) error {
	for _, token := range f.tokens {
		if token.ID == id {
			token.Revoked = true
			token.RevokedAt = &revokedAt
		}
	}
	return nil
}

func authConfigForTest() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             "ems-api-test",
	}
}

func activeUser() *models.User {
	empID := "emp-1"
	return &models.User{
		ID:         "u-1",
		Email:      "ana@talentra.io",
		FullName:   "Ana Pereira",
		Role:       models.RoleEmployee,
		EmployeeID: &empID,
		Active:     true,
	}
}

func TestLoginIssuesValidatableToken(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(activeUser(), "s3cret-pass")
	svc := NewAuthService(repo, nil, nil, authConfigForTest())

	out, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ana@talentra.io",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, "u-1", out.User.ID)
	assert.Contains(t, repo.lastLogin, "u-1")

	claims, err := svc.ValidateToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "emp-1", claims.EmployeeID)
	assert.Equal(t, models.RoleEmployee, claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(activeUser(), "s3cret-pass")
	svc := NewAuthService(repo, nil, nil, authConfigForTest())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ana@talentra.io",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := newFakeAuthRepo()
	user := activeUser()
	user.Active = false
	repo.addUser(user, "s3cret-pass")
	svc := NewAuthService(repo, nil, nil, authConfigForTest())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ana@talentra.io",
		Password: "s3cret-pass",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestLoginSingleSessionRevokesPriorTokens(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(activeUser(), "s3cret-pass")
	cfg := authConfigForTest()
	cfg.SingleSession = true
	svc := NewAuthService(repo, nil, nil, cfg)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ana@talentra.io",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"u-1"}, repo.revokedAll)
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(activeUser(), "s3cret-pass")
	svc := NewAuthService(repo, nil, nil, authConfigForTest())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ana@talentra.io",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	out, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, out.RefreshToken)

	// The old token was revoked during rotation and cannot be replayed.
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(activeUser(), "s3cret-pass")
	repo.tokens["stale"] = &models.RefreshToken{
		ID:        "rt-stale",
		UserID:    "u-1",
		Token:     "stale",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	svc := NewAuthService(repo, nil, nil, authConfigForTest())

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "stale"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(activeUser(), "s3cret-pass")
	svc := NewAuthService(repo, nil, nil, authConfigForTest())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ana@talentra.io",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	// Unknown tokens log out silently.
	assert.NoError(t, svc.Logout(context.Background(), "never-issued"))
}

func TestChangePasswordVerifiesCurrentAndRevokesSessions(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(activeUser(), "s3cret-pass")
	svc := NewAuthService(repo, nil, nil, authConfigForTest())

	err := svc.ChangePassword(context.Background(), "u-1", models.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "brand-new-pass",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.passwords)

	err = svc.ChangePassword(context.Background(), "u-1", models.ChangePasswordRequest{
		CurrentPassword: "s3cret-pass",
		NewPassword:     "brand-new-pass",
	})
	require.NoError(t, err)
	require.Contains(t, repo.passwords, "u-1")
	assert.Equal(t, []string{"u-1"}, repo.revokedAll)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.passwords["u-1"]), []byte("brand-new-pass")))
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(activeUser(), "s3cret-pass")
	svc := NewAuthService(repo, nil, nil, authConfigForTest())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ana@talentra.io",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	other := NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret: "different-secret",
		AccessTokenExpiry: time.Minute,
	})
	_, err = other.ValidateToken(login.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
