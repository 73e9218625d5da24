package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"crimetracker/internal/auth"
	apperrors "crimetracker/internal/errors"
	"crimetracker/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, user *model.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockSessionStore is a mock implementation of session.Store.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, userID uint, ttl time.Duration) (*model.Session, error) {
	args := m.Called(ctx, userID, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, token string) (*model.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionStore) Touch(ctx context.Context, token string, ttl time.Duration) error {
	args := m.Called(ctx, token, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockResetTokenRepository is a mock implementation of ResetTokenRepository.
type MockResetTokenRepository struct {
	mock.Mock
}

func (m *MockResetTokenRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockResetTokenRepository) FindByTokenID(ctx context.Context, tokenID string) (*model.PasswordResetToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasswordResetToken), args.Error(1)
}

func (m *MockResetTokenRepository) MarkUsed(ctx context.Context, token *model.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func newTestAuthService(users *MockUserRepository, sessions *MockSessionStore, resetRepo *MockResetTokenRepository) AuthService {
	resetTokens := auth.NewResetTokenService("test-secret", time.Hour, resetRepo)
	return NewAuthService(users, sessions, time.Hour, resetTokens)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		email         string
		password      string
		role          string
		setupMock     func(*MockUserRepository, *MockSessionStore)
		expectedError error
		expectedRole  string
	}{
		{
			name:     "successful registration defaults to reporter",
			username: "alice",
			email:    "alice@example.com",
			password: "secret1",
			setupMock: func(users *MockUserRepository, sessions *MockSessionStore) {
				users.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				sessions.On("Create", mock.Anything, mock.Anything, time.Hour).Return(&model.Session{Token: "tok"}, nil)
			},
			expectedRole: model.RoleReporter,
		},
		{
			name:     "username already taken",
			username: "bob",
			email:    "bob@example.com",
			password: "secret1",
			setupMock: func(users *MockUserRepository, sessions *MockSessionStore) {
				users.On("FindByUsername", mock.Anything, "bob").Return(&model.User{Username: "bob"}, nil)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
		{
			name:          "password too short",
			username:      "carol",
			email:         "carol@example.com",
			password:      "12345",
			setupMock:     func(users *MockUserRepository, sessions *MockSessionStore) {},
			expectedError: apperrors.ErrPasswordTooShort,
		},
		{
			name:          "unknown role rejected",
			username:      "dave",
			email:         "dave@example.com",
			password:      "secret1",
			role:          "superuser",
			setupMock:     func(users *MockUserRepository, sessions *MockSessionStore) {},
			expectedError: apperrors.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			sessions := new(MockSessionStore)
			tt.setupMock(users, sessions)

			svc := newTestAuthService(users, sessions, new(MockResetTokenRepository))
			user, token, err := svc.Register(context.Background(), tt.username, tt.email, tt.password, tt.role)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.expectedRole, user.Role)
				// The stored value is a hash, never the plaintext.
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}

			users.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret1"), 10)
	stored := &model.User{ID: 7, Username: "alice", PasswordHash: string(hashed)}

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository, *MockSessionStore)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "alice",
			password: "secret1",
			setupMock: func(users *MockUserRepository, sessions *MockSessionStore) {
				users.On("FindByUsername", mock.Anything, "alice").Return(stored, nil)
				sessions.On("Create", mock.Anything, uint(7), time.Hour).Return(&model.Session{Token: "tok", UserID: 7}, nil)
			},
		},
		{
			name:     "unknown username",
			username: "nobody",
			password: "secret1",
			setupMock: func(users *MockUserRepository, sessions *MockSessionStore) {
				users.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "not-it",
			setupMock: func(users *MockUserRepository, sessions *MockSessionStore) {
				users.On("FindByUsername", mock.Anything, "alice").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			sessions := new(MockSessionStore)
			tt.setupMock(users, sessions)

			svc := newTestAuthService(users, sessions, new(MockResetTokenRepository))
			user, token, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				// Unknown user and wrong password fail identically.
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotEmpty(t, token)
			}

			users.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_LogoutIdempotent(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionStore)
	sessions.On("Delete", mock.Anything, "tok").Return(nil).Twice()

	svc := newTestAuthService(users, sessions, new(MockResetTokenRepository))

	assert.NoError(t, svc.Logout(context.Background(), "tok"))
	assert.NoError(t, svc.Logout(context.Background(), "tok"))
	// An empty reference never reaches the store.
	assert.NoError(t, svc.Logout(context.Background(), ""))

	sessions.AssertExpectations(t)
}

func TestAuthService_ResetPassword(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionStore)
	resetRepo := new(MockResetTokenRepository)

	resetTokens := auth.NewResetTokenService("test-secret", time.Hour, resetRepo)
	svc := NewAuthService(users, sessions, time.Hour, resetTokens)

	stored := &model.User{ID: 3, Username: "alice"}
	users.On("FindByUsername", mock.Anything, "alice").Return(stored, nil)
	users.On("FindByID", mock.Anything, uint(3)).Return(stored, nil)
	users.On("UpdatePassword", mock.Anything, stored, mock.AnythingOfType("string")).Return(nil)

	var issued *model.PasswordResetToken
	resetRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.PasswordResetToken")).
		Run(func(args mock.Arguments) {
			issued = args.Get(1).(*model.PasswordResetToken)
		}).Return(nil)

	user, token, err := svc.RequestPasswordReset(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Equal(t, stored, user)
	assert.NotEmpty(t, token)

	// First consumption succeeds.
	resetRepo.On("FindByTokenID", mock.Anything, issued.TokenID).Return(issued, nil).Once()
	resetRepo.On("MarkUsed", mock.Anything, issued).
		Run(func(args mock.Arguments) {
			now := time.Now()
			issued.UsedAt = &now
		}).Return(nil).Once()

	updated, err := svc.ResetPassword(context.Background(), token, "newsecret")
	assert.NoError(t, err)
	assert.Equal(t, stored, updated)

	// Second consumption of the same token fails.
	resetRepo.On("FindByTokenID", mock.Anything, issued.TokenID).Return(issued, nil).Once()
	_, err = svc.ResetPassword(context.Background(), token, "newsecret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)

	// Too-short replacement passwords are rejected before token consumption.
	_, err = svc.ResetPassword(context.Background(), token, "short")
	assert.ErrorIs(t, err, apperrors.ErrPasswordTooShort)

	users.AssertExpectations(t)
	resetRepo.AssertExpectations(t)
}

func TestAuthService_RequestPasswordResetUnknownUser(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	svc := newTestAuthService(users, new(MockSessionStore), new(MockResetTokenRepository))

	_, _, err := svc.RequestPasswordReset(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	users.AssertExpectations(t)
}
