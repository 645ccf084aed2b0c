package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"caravanshare/internal/database"
	"caravanshare/internal/domain"
	"caravanshare/internal/logging"
	"caravanshare/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "invalid email or password"

type UserService struct {
	repo   domain.UserRepository
	cost   int
	logger *zerolog.Logger
}

func NewUserService(repo domain.UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		cost:   bcrypt.DefaultCost,
		logger: logging.Component(logger, "users"),
	}
}

func (s *UserService) Signup(ctx context.Context, input domain.SignupInput) (*models.User, error) {
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)
	if email == "" || input.Password == "" || name == "" {
		return nil, domain.Validation("email, password and name are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Validation("email %q is not valid", email)
	}

	role := input.Role
	if role == "" {
		role = models.RoleGuest
	}
	if !models.IsValidRole(role) {
		return nil, domain.Validation("role must be %s or %s", models.RoleGuest, models.RoleHost)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		// bcrypt отклоняет пароли длиннее 72 байт
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.Validation("password is too long")
		}
		return nil, domain.Internal("internal server error", err)
	}

	user := &models.User{
		Email:          email,
		PasswordHash:   string(hash),
		Name:           name,
		ContactNumber:  input.ContactNumber,
		ProfilePicture: input.ProfilePicture,
		Role:           role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, translate(err, "user")
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user signed up")
	return user, nil
}

// Login returns the same error for an unknown email and a wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.Validation("email and password are required")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, domain.Unauthorized(invalidCredentials)
	}
	if err != nil {
		return nil, translate(err, "user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug().Str("user_id", user.ID).Msg("login rejected")
		return nil, domain.Unauthorized(invalidCredentials)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, name, contactNumber *string) (*models.User, error) {
	if name == nil && contactNumber == nil {
		return nil, domain.Validation("nothing to update: provide name or contactNumber")
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, domain.Validation("name must not be empty")
		}
		name = &trimmed
	}

	user, err := s.repo.UpdateUserProfile(ctx, id, name, contactNumber)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}
