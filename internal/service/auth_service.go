package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"crimetracker/internal/auth"
	apperrors "crimetracker/internal/errors"
	"crimetracker/internal/model"
	"crimetracker/internal/repository"
	"crimetracker/internal/session"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

// AuthService handles registration, login, logout, and password resets.
type AuthService interface {
	// Register creates a user and immediately authenticates them, returning
	// the new session token alongside the user.
	Register(ctx context.Context, username, email, password, role string) (*model.User, string, error)
	// Login authenticates credentials and opens a session.
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	// Logout revokes the session. Idempotent: revoking an unknown or already
	// revoked token succeeds silently.
	Logout(ctx context.Context, token string) error
	// RequestPasswordReset issues a single-use reset token for the user.
	RequestPasswordReset(ctx context.Context, username string) (*model.User, string, error)
	// ResetPassword consumes a reset token and stores the new password. It
	// does not log the user in.
	ResetPassword(ctx context.Context, token, newPassword string) (*model.User, error)
}

type authService struct {
	users       repository.UserRepository
	sessions    session.Store
	sessionTTL  time.Duration
	resetTokens *auth.ResetTokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, sessions session.Store, sessionTTL time.Duration, resetTokens *auth.ResetTokenService) AuthService {
	return &authService{
		users:       users,
		sessions:    sessions,
		sessionTTL:  sessionTTL,
		resetTokens: resetTokens,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password, role string) (*model.User, string, error) {
	if role == "" {
		role = model.RoleReporter
	}
	if !model.ValidRole(role) {
		return nil, "", apperrors.ErrInvalidRole
	}
	if len(password) < minPasswordLength {
		return nil, "", apperrors.ErrPasswordTooShort
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, "", apperrors.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	// Auto-login after registration saves the client a second round trip.
	sess, err := s.sessions.Create(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	return user, sess.Token, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		// Logged server-side; the client sees the same generic failure as a
		// wrong password.
		log.Printf("login rejected: unknown username %q", username)
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Printf("login rejected: wrong password for user %d", user.ID)
		return nil, "", apperrors.ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	return user, sess.Token, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

func (s *authService) RequestPasswordReset(ctx context.Context, username string) (*model.User, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	token, err := s.resetTokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue reset token: %w", err)
	}
	return user, token, nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) (*model.User, error) {
	if len(newPassword) < minPasswordLength {
		return nil, apperrors.ErrPasswordTooShort
	}

	userID, err := s.resetTokens.Consume(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user, string(hashed)); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	return user, nil
}
