package handler_test

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"crimetracker/internal/model"
	"crimetracker/internal/repository"
)

// In-memory repositories backing the handler flow tests.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, user *model.User, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.PasswordHash = passwordHash
	user.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	nextID  uint
	reports map[uint]*model.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{nextID: 1, reports: make(map[uint]*model.Report)}
}

func (r *fakeReportRepo) Create(_ context.Context, report *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.ID = r.nextID
	r.nextID++
	report.CreatedAt = time.Now()
	copied := *report
	r.reports[report.ID] = &copied
	return nil
}

func (r *fakeReportRepo) FindByID(_ context.Context, id uint) (*model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *report
	return &copied, nil
}

func (r *fakeReportRepo) List(_ context.Context, filter repository.ReportFilter) ([]model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Report
	for _, report := range r.reports {
		if filter.Status != "" && report.Status != filter.Status {
			continue
		}
		if filter.Category != "" && report.Category != filter.Category {
			continue
		}
		if filter.ReporterID != 0 && report.ReporterID != filter.ReporterID {
			continue
		}
		out = append(out, *report)
	}
	return out, nil
}

func (r *fakeReportRepo) UpdateStatus(_ context.Context, report *model.Report, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.reports[report.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = status
	report.Status = status
	return nil
}

func (r *fakeReportRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reports, id)
	return nil
}

type fakeResetTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.PasswordResetToken
}

func newFakeResetTokenRepo() *fakeResetTokenRepo {
	return &fakeResetTokenRepo{tokens: make(map[string]*model.PasswordResetToken)}
}

func (r *fakeResetTokenRepo) Create(_ context.Context, token *model.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.TokenID] = token
	return nil
}

func (r *fakeResetTokenRepo) FindByTokenID(_ context.Context, tokenID string) (*model.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return token, nil
}

func (r *fakeResetTokenRepo) MarkUsed(_ context.Context, token *model.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[token.TokenID]
	if !ok || stored.UsedAt != nil {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	stored.UsedAt = &now
	token.UsedAt = &now
	return nil
}
