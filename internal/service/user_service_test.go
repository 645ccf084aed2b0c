package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"caravanshare/internal/config"
	"caravanshare/internal/database"
	"caravanshare/internal/domain"
	"caravanshare/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Signup(t *testing.T) {
	env := newTestEnv(t, config.BookingConfig{}, false)
	ctx := context.Background()

	user, err := env.users.Signup(ctx, signupInput(" guest@example.com ", ""))
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", user.Email)
	assert.Equal(t, models.RoleGuest, user.Role)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "secret-password", user.PasswordHash)

	host, err := env.users.Signup(ctx, signupInput("host@example.com", models.RoleHost))
	require.NoError(t, err)
	assert.True(t, host.IsHost())

	tests := []struct {
		name  string
		input domain.SignupInput
		kind  domain.Kind
	}{
		{"MissingEmail", domain.SignupInput{Password: "x", Name: "n"}, domain.KindValidation},
		{"MissingPassword", domain.SignupInput{Email: "a@example.com", Name: "n"}, domain.KindValidation},
		{"MissingName", domain.SignupInput{Email: "a@example.com", Password: "x"}, domain.KindValidation},
		{"BadEmail", domain.SignupInput{Email: "nope", Password: "x", Name: "n"}, domain.KindValidation},
		{"BadRole", domain.SignupInput{Email: "a@example.com", Password: "x", Name: "n", Role: "ADMIN"}, domain.KindValidation},
		{"TooLongPassword", domain.SignupInput{Email: "a@example.com", Password: strings.Repeat("x", 100), Name: "n"}, domain.KindValidation},
		{"DuplicateEmail", signupInput("guest@example.com", ""), domain.KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Signup(ctx, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.KindOf(err))
		})
	}
}

func TestUserService_Login(t *testing.T) {
	env := newTestEnv(t, config.BookingConfig{}, false)
	ctx := context.Background()
	created := env.signup(t, "guest@example.com", "")

	user, err := env.users.Login(ctx, "guest@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, wrongPassword := env.users.Login(ctx, "guest@example.com", "wrong")
	_, unknownEmail := env.users.Login(ctx, "nobody@example.com", "secret-password")
	assert.ErrorIs(t, wrongPassword, domain.ErrUnauthorized)
	assert.ErrorIs(t, unknownEmail, domain.ErrUnauthorized)
	// no account enumeration
	assert.Equal(t, domain.MessageOf(wrongPassword), domain.MessageOf(unknownEmail))

	_, err = env.users.Login(ctx, "", "x")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_Profile(t *testing.T) {
	env := newTestEnv(t, config.BookingConfig{}, false)
	ctx := context.Background()
	created := env.signup(t, "guest@example.com", "")

	got, err := env.users.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)

	_, err = env.users.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	contact := "010-0000-0000"
	updated, err := env.users.UpdateProfile(ctx, created.ID, nil, &contact)
	require.NoError(t, err)
	require.NotNil(t, updated.ContactNumber)
	assert.Equal(t, contact, *updated.ContactNumber)
	assert.Equal(t, created.Name, updated.Name)

	_, err = env.users.UpdateProfile(ctx, created.ID, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	blank := "  "
	_, err = env.users.UpdateProfile(ctx, created.ID, &blank, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	name := "New"
	_, err = env.users.UpdateProfile(ctx, "missing", &name, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) UpdateUserProfile(ctx context.Context, id string, name, contactNumber *string) (*models.User, error) {
	args := m.Called(ctx, id, name, contactNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestUserService_StorageFailureIsInternal(t *testing.T) {
	repo := new(mockUserRepo)
	logger := zerolog.New(io.Discard)
	svc := NewUserService(repo, &logger)
	ctx := context.Background()

	repo.On("GetUserByID", ctx, "u-1").Return(nil, errors.New("disk I/O error")).Once()
	repo.On("GetUserByEmail", ctx, "a@example.com").Return(nil, database.ErrNotFound).Once()

	_, err := svc.GetUser(ctx, "u-1")
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Equal(t, "internal server error", domain.MessageOf(err))
	assert.Contains(t, err.Error(), "disk I/O error")

	_, err = svc.Login(ctx, "a@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	repo.AssertExpectations(t)
}
