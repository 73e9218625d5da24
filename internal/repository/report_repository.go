package repository

import (
	"context"

	"gorm.io/gorm"

	"crimetracker/internal/model"
)

// ReportFilter narrows a report listing. Zero values mean no constraint.
type ReportFilter struct {
	Status     string
	Category   string
	ReporterID uint
}

// ReportRepository defines persistence operations for reports.
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uint) (*model.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]model.Report, error)
	UpdateStatus(ctx context.Context, report *model.Report, status string) error
	Delete(ctx context.Context, id uint) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository builds a GORM-backed repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uint) (*model.Report, error) {
	var report model.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	q := r.db.WithContext(ctx).Model(&model.Report{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.ReporterID != 0 {
		q = q.Where("reporter_id = ?", filter.ReporterID)
	}

	var reports []model.Report
	if err := q.Order("created_at desc").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, report *model.Report, status string) error {
	if err := r.db.WithContext(ctx).Model(report).Update("status", status).Error; err != nil {
		return err
	}
	report.Status = status
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Report{}, id).Error
}
