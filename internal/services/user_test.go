package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel-story-backend/internal/auth"
	"travel-story-backend/internal/models"
	"travel-story-backend/internal/repository"
	"travel-story-backend/internal/repository/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newUserService(t *testing.T, repo UserStore) (*UserService, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService("test-secret", 72*time.Hour)
	svc, err := NewUserService(repo, tokens, bcrypt.MinCost)
	require.NoError(t, err)
	return svc, tokens
}

func TestCreateAccount_ThenLogin(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewUserRepository()
	svc, tokens := newUserService(t, repo)

	res, err := svc.CreateAccount(ctx, "Ana", "ana@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, models.PublicUser{FullName: "Ana", Email: "ana@x.com"}, res.User)
	require.NotEmpty(t, res.AccessToken)

	userID, err := tokens.ValidateToken(res.AccessToken)
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))

	login, err := svc.Login(ctx, "ana@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, res.User, login.User)

	loginID, err := tokens.ValidateToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, loginID)
}

func TestCreateAccount_Validation(t *testing.T) {
	svc, _ := newUserService(t, inmemory.NewUserRepository())

	cases := [][3]string{
		{"", "a@x.com", "pw"},
		{"Ana", "", "pw"},
		{"Ana", "a@x.com", ""},
		{"   ", "a@x.com", "pw"},
	}
	for _, c := range cases {
		_, err := svc.CreateAccount(context.Background(), c[0], c[1], c[2])
		assert.ErrorIs(t, err, ErrValidation, "input %v", c)
	}
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t, inmemory.NewUserRepository())

	_, err := svc.CreateAccount(ctx, "Ana", "ana@x.com", "secret123")
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, "Other", "ANA@x.com ", "different")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "User already exists", err.Error())
}

type racingUserRepo struct {
	*inmemory.UserRepository
}

func (racingUserRepo) EmailExists(context.Context, string) (bool, error) { return false, nil }

func (racingUserRepo) Create(context.Context, *models.User) error { return repository.ErrDuplicate }

func TestCreateAccount_UniqueViolationIsConflict(t *testing.T) {
	svc, _ := newUserService(t, racingUserRepo{inmemory.NewUserRepository()})

	_, err := svc.CreateAccount(context.Background(), "Ana", "ana@x.com", "pw")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t, inmemory.NewUserRepository())
	_, err := svc.CreateAccount(ctx, "Ana", "ana@x.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "", "x")
	assert.ErrorIs(t, err, ErrValidation)

	_, wrongPassword := svc.Login(ctx, "ana@x.com", "nope")
	assert.ErrorIs(t, wrongPassword, ErrUnauthorized)

	_, unknownUser := svc.Login(ctx, "nobody@x.com", "secret123")
	assert.ErrorIs(t, unknownUser, ErrUnauthorized)

	assert.Equal(t, wrongPassword.Error(), unknownUser.Error(), "login must not reveal which emails exist")
}

type failingUserRepo struct{}

func (failingUserRepo) Create(context.Context, *models.User) error { return errBoom{} }
func (failingUserRepo) GetByID(context.Context, string) (*models.User, error) {
	return nil, errBoom{}
}
func (failingUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, errBoom{}
}
func (failingUserRepo) EmailExists(context.Context, string) (bool, error) { return false, errBoom{} }

func TestUserService_StoreFailuresAreInternal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t, failingUserRepo{})

	_, err := svc.CreateAccount(ctx, "Ana", "ana@x.com", "pw")
	require.Error(t, err)
	var svcErr *Error
	assert.False(t, errors.As(err, &svcErr))

	_, err = svc.Login(ctx, "ana@x.com", "pw")
	require.Error(t, err)
	assert.False(t, errors.As(err, &svcErr))

	_, err = svc.GetCurrentUser(ctx, uuid.NewString())
	require.Error(t, err)
	assert.False(t, errors.As(err, &svcErr))
}

func TestGetCurrentUser(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewUserRepository()
	svc, tokens := newUserService(t, repo)

	res, err := svc.CreateAccount(ctx, "Ana", "ana@x.com", "secret123")
	require.NoError(t, err)
	userID, err := tokens.ValidateToken(res.AccessToken)
	require.NoError(t, err)

	user, err := svc.GetCurrentUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.FullName)

	_, err = svc.GetCurrentUser(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.GetCurrentUser(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
