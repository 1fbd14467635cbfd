package repository

import (
	"context"
	"errors"
	"strings"

	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/pkg/apperror"
	"gorm.io/gorm"
)

type ReportRepository interface {
	// Create stores a new report. A second report from the same reporter on
	// the same content fails with ErrDuplicateReport.
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uint) (*model.Report, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]model.Report, int64, error)
	Update(ctx context.Context, report *model.Report) error
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Report{}).
		Where("reporter_id = ? AND content_id = ?", report.ReporterID, report.ContentID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.ErrDuplicateReport
	}

	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		// The unique index catches the race the pre-check misses
		if strings.Contains(err.Error(), "idx_reporter_content") {
			return apperror.ErrDuplicateReport
		}
		return err
	}
	return nil
}

func (r *reportRepository) FindByID(ctx context.Context, id uint) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).Preload("Content").Where("id = ?", id).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]model.Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []model.Report
	err := query.Preload("Content").
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reportRepository) Update(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}
