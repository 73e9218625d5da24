package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	apperrors "crimetracker/internal/errors"
	"crimetracker/internal/model"
	"crimetracker/internal/repository"
)

// Notifier receives fire-and-forget notifications about report activity.
type Notifier interface {
	ReportCreated(report *model.Report, reporterName string)
}

// ReportInput carries the caller-supplied fields of a new report. The
// reporter id is never taken from the client.
type ReportInput struct {
	Title       string
	Description string
	Category    string
	Location    string
}

// ReportService implements role-scoped report operations.
type ReportService interface {
	Create(ctx context.Context, caller *model.User, in ReportInput) (*model.Report, error)
	// List returns all reports for admins (optionally filtered by status and
	// category) and only the caller's own reports otherwise.
	List(ctx context.Context, caller *model.User, status, category string) ([]model.Report, error)
	Get(ctx context.Context, caller *model.User, id uint) (*model.Report, error)
	UpdateStatus(ctx context.Context, caller *model.User, id uint, status string) (*model.Report, error)
	Delete(ctx context.Context, caller *model.User, id uint) error
}

type reportService struct {
	reports  repository.ReportRepository
	notifier Notifier
}

// NewReportService creates a new report service. notifier may be nil.
func NewReportService(reports repository.ReportRepository, notifier Notifier) ReportService {
	return &reportService{reports: reports, notifier: notifier}
}

func (s *reportService) Create(ctx context.Context, caller *model.User, in ReportInput) (*model.Report, error) {
	report := &model.Report{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		Status:      model.StatusPending,
		ReporterID:  caller.ID,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	// The request returns as soon as the report is persisted; notification
	// runs detached and owns its own failures.
	if s.notifier != nil {
		go s.dispatchCreated(*report, caller.Username)
	}

	return report, nil
}

func (s *reportService) dispatchCreated(report model.Report, reporterName string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("report notification panicked: %v", r)
		}
	}()
	s.notifier.ReportCreated(&report, reporterName)
}

func (s *reportService) List(ctx context.Context, caller *model.User, status, category string) ([]model.Report, error) {
	filter := repository.ReportFilter{}
	if caller.Role == model.RoleAdmin {
		filter.Status = status
		filter.Category = category
	} else {
		// Non-admins see only their own reports; filters are ignored.
		filter.ReporterID = caller.ID
	}

	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func (s *reportService) Get(ctx context.Context, caller *model.User, id uint) (*model.Report, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReportNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}

	if caller.Role != model.RoleAdmin && report.ReporterID != caller.ID {
		return nil, apperrors.ErrForbidden
	}
	return report, nil
}

func (s *reportService) UpdateStatus(ctx context.Context, caller *model.User, id uint, status string) (*model.Report, error) {
	if caller.Role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if !model.ValidStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReportNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}

	if err := s.reports.UpdateStatus(ctx, report, status); err != nil {
		return nil, fmt.Errorf("update report status: %w", err)
	}
	return report, nil
}

func (s *reportService) Delete(ctx context.Context, caller *model.User, id uint) error {
	if caller.Role != model.RoleAdmin {
		return apperrors.ErrForbidden
	}

	if _, err := s.reports.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrReportNotFound
		}
		return fmt.Errorf("find report: %w", err)
	}

	if err := s.reports.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}
