package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "crimetracker/internal/errors"
	"crimetracker/internal/model"
	"crimetracker/internal/repository"
)

// MockReportRepository is a mock implementation of ReportRepository.
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *model.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) FindByID(ctx context.Context, id uint) (*model.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, filter repository.ReportFilter) ([]model.Report, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Report), args.Error(1)
}

func (m *MockReportRepository) UpdateStatus(ctx context.Context, report *model.Report, status string) error {
	args := m.Called(ctx, report, status)
	if args.Error(0) == nil {
		report.Status = status
	}
	return args.Error(0)
}

func (m *MockReportRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// captureNotifier records notifications for assertions.
type captureNotifier struct {
	mu      sync.Mutex
	done    chan struct{}
	reports []model.Report
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{done: make(chan struct{}, 1)}
}

func (n *captureNotifier) ReportCreated(report *model.Report, reporterName string) {
	n.mu.Lock()
	n.reports = append(n.reports, *report)
	n.mu.Unlock()
	n.done <- struct{}{}
}

var (
	reporterAlice = &model.User{ID: 7, Username: "alice", Role: model.RoleReporter}
	adminEve      = &model.User{ID: 1, Username: "eve", Role: model.RoleAdmin}
)

func TestReportService_CreateForcesReporterAndStatus(t *testing.T) {
	repo := new(MockReportRepository)
	notifier := newCaptureNotifier()
	svc := NewReportService(repo, notifier)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Report")).Return(nil)

	report, err := svc.Create(context.Background(), reporterAlice, ReportInput{
		Title:       "t",
		Description: "d",
		Category:    "c",
		Location:    "l",
	})

	assert.NoError(t, err)
	assert.Equal(t, reporterAlice.ID, report.ReporterID)
	assert.Equal(t, model.StatusPending, report.Status)

	// The notification runs detached but still fires.
	<-notifier.done
	assert.Len(t, notifier.reports, 1)
	assert.Equal(t, "t", notifier.reports[0].Title)

	repo.AssertExpectations(t)
}

func TestReportService_ListScopesByRole(t *testing.T) {
	tests := []struct {
		name           string
		caller         *model.User
		status         string
		category       string
		expectedFilter repository.ReportFilter
	}{
		{
			name:           "admin sees all with filters applied",
			caller:         adminEve,
			status:         "pending",
			category:       "theft",
			expectedFilter: repository.ReportFilter{Status: "pending", Category: "theft"},
		},
		{
			name:           "admin with no filters sees everything",
			caller:         adminEve,
			expectedFilter: repository.ReportFilter{},
		},
		{
			name:           "reporter scoped to own reports, filters ignored",
			caller:         reporterAlice,
			status:         "closed",
			category:       "theft",
			expectedFilter: repository.ReportFilter{ReporterID: reporterAlice.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockReportRepository)
			repo.On("List", mock.Anything, tt.expectedFilter).Return([]model.Report{}, nil)

			svc := NewReportService(repo, nil)
			_, err := svc.List(context.Background(), tt.caller, tt.status, tt.category)

			assert.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestReportService_GetEnforcesOwnership(t *testing.T) {
	foreign := &model.Report{ID: 9, ReporterID: 99}

	tests := []struct {
		name          string
		caller        *model.User
		setupMock     func(*MockReportRepository)
		expectedError error
	}{
		{
			name:   "admin reads any report",
			caller: adminEve,
			setupMock: func(repo *MockReportRepository) {
				repo.On("FindByID", mock.Anything, uint(9)).Return(foreign, nil)
			},
		},
		{
			name:   "reporter blocked from foreign report",
			caller: reporterAlice,
			setupMock: func(repo *MockReportRepository) {
				repo.On("FindByID", mock.Anything, uint(9)).Return(foreign, nil)
			},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:   "missing report",
			caller: adminEve,
			setupMock: func(repo *MockReportRepository) {
				repo.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrReportNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockReportRepository)
			tt.setupMock(repo)

			svc := NewReportService(repo, nil)
			report, err := svc.Get(context.Background(), tt.caller, 9)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, report)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, foreign, report)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestReportService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name          string
		caller        *model.User
		status        string
		setupMock     func(*MockReportRepository)
		expectedError error
	}{
		{
			name:   "admin sets reviewed",
			caller: adminEve,
			status: model.StatusReviewed,
			setupMock: func(repo *MockReportRepository) {
				repo.On("FindByID", mock.Anything, uint(4)).Return(&model.Report{ID: 4, Status: model.StatusPending}, nil)
				repo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("*model.Report"), model.StatusReviewed).Return(nil)
			},
		},
		{
			name:          "non-admin rejected before anything else",
			caller:        reporterAlice,
			status:        model.StatusReviewed,
			setupMock:     func(repo *MockReportRepository) {},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:          "status outside the enum rejected without touching the report",
			caller:        adminEve,
			status:        "archived",
			setupMock:     func(repo *MockReportRepository) {},
			expectedError: apperrors.ErrInvalidStatus,
		},
		{
			name:   "unknown report id",
			caller: adminEve,
			status: model.StatusClosed,
			setupMock: func(repo *MockReportRepository) {
				repo.On("FindByID", mock.Anything, uint(4)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrReportNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockReportRepository)
			tt.setupMock(repo)

			svc := NewReportService(repo, nil)
			report, err := svc.UpdateStatus(context.Background(), tt.caller, 4, tt.status)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, report)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.status, report.Status)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestReportService_Delete(t *testing.T) {
	repo := new(MockReportRepository)
	svc := NewReportService(repo, nil)

	// Non-admins never reach the repository.
	err := svc.Delete(context.Background(), reporterAlice, 4)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	repo.On("FindByID", mock.Anything, uint(4)).Return(&model.Report{ID: 4}, nil)
	repo.On("Delete", mock.Anything, uint(4)).Return(nil)
	assert.NoError(t, svc.Delete(context.Background(), adminEve, 4))

	repo.AssertExpectations(t)
}

func TestUserService_AdminOnly(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users)

	_, err := svc.List(context.Background(), reporterAlice)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.Create(context.Background(), reporterAlice, "x", "x@example.com", "secret1", model.RoleReporter)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	users.On("List", mock.Anything).Return([]model.User{{ID: 1, Username: "eve"}}, nil)
	list, err := svc.List(context.Background(), adminEve)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	users.On("FindByUsername", mock.Anything, "frank").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	created, err := svc.Create(context.Background(), adminEve, "frank", "frank@example.com", "secret1", model.RoleReporter)
	assert.NoError(t, err)
	assert.Equal(t, "frank", created.Username)
	assert.NotEqual(t, "secret1", created.PasswordHash)

	users.AssertExpectations(t)
}
