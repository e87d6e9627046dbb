package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twill-app/twill-api/internal/models"
	appErrors "github.com/twill-app/twill-api/pkg/errors"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) CountByEmail(ctx context.Context, email string) (int, error) {
	if _, ok := f.users[email]; ok {
		return 1, nil
	}
	return 0, nil
}

func testAuthService(repo authUserRepository) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "twill-api",
	})
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := testAuthService(repo)

	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "student@example.com",
		Password: "secret123",
		FullName: "Test Student",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, models.RoleStudent, res.User.Role)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "student@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := testAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "student@example.com",
		Password: "secret123",
		FullName: "Test Student",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), models.RegisterRequest{
		Email:    "student@example.com",
		Password: "other456",
		FullName: "Other Student",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := testAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "student@example.com",
		Password: "secret123",
		FullName: "Test Student",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "student@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := testAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := testAuthService(repo)

	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "student@example.com",
		Password: "secret123",
		FullName: "Test Student",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)

	_, err = svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
