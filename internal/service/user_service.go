package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "crimetracker/internal/errors"
	"crimetracker/internal/model"
	"crimetracker/internal/repository"
)

// UserService implements the admin-only user management operations.
type UserService interface {
	// List returns every user. Password hashes never serialize thanks to the
	// model's json tags.
	List(ctx context.Context, caller *model.User) ([]model.User, error)
	// Create provisions a user on behalf of an admin, with the same
	// validation rules as self-registration.
	Create(ctx context.Context, caller *model.User, username, email, password, role string) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context, caller *model.User) ([]model.User, error) {
	if caller.Role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) Create(ctx context.Context, caller *model.User, username, email, password, role string) (*model.User, error) {
	if caller.Role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if !model.ValidRole(role) {
		return nil, apperrors.ErrInvalidRole
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.ErrPasswordTooShort
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
