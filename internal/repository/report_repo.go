// internal/repository/report_repo.go
package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type ReportRepository interface {
	Create(ctx context.Context, report *models.ProductReport) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductReport, error)
	HasPending(ctx context.Context, productID, reporterID uuid.UUID) (bool, error)
	List(ctx context.Context, status models.ReportStatus, params utils.PaginationParams) ([]models.ProductReport, int64, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *models.ProductReport) error {
	return translate(r.db.WithContext(ctx).Create(report).Error)
}

func (r *reportRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductReport, error) {
	var report models.ProductReport
	if err := r.db.WithContext(ctx).Preload("Product").First(&report, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

func (r *reportRepo) HasPending(ctx context.Context, productID, reporterID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductReport{}).
		Where("product_id = ? AND reporter_id = ? AND status = ?", productID, reporterID, models.ReportStatusPending).
		Count(&count).Error
	return count > 0, err
}

// List returns every report when status is empty.
func (r *reportRepo) List(ctx context.Context, status models.ReportStatus, params utils.PaginationParams) ([]models.ProductReport, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductReport{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.ProductReport
	err := query.Preload("Product").Order("created_at desc").Scopes(params.Window()).Find(&reports).Error
	return reports, total, err
}

func (r *reportRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.ProductReport{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
