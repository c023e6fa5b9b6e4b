// internal/services/report_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type ReportService struct {
	reports  repository.ReportRepository
	products repository.ProductRepository
	profiles repository.ProfileRepository
}

type ReportProductRequest struct {
	Reason      string `json:"reason" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

type UpdateReportStatusRequest struct {
	Status     models.ReportStatus `json:"status" validate:"required,oneof=pending reviewed resolved dismissed"`
	AdminNotes string              `json:"admin_notes" validate:"max=2000"`
}

func NewReportService(reports repository.ReportRepository, products repository.ProductRepository, profiles repository.ProfileRepository) *ReportService {
	return &ReportService{reports: reports, products: products, profiles: profiles}
}

func (s *ReportService) Report(ctx context.Context, reporter Actor, productID uuid.UUID, req *ReportProductRequest) (*models.ProductReport, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, invalid("report reason is required")
	}

	profile, err := s.profiles.FindByID(ctx, reporter.ID)
	if err != nil {
		return nil, orNotFound(err, "user")
	}
	if profile.IsRestricted {
		return nil, fmt.Errorf("%w: account is restricted", ErrForbidden)
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, orNotFound(err, "product")
	}

	pending, err := s.reports.HasPending(ctx, productID, reporter.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, invalid("you have already reported this product")
	}

	report := &models.ProductReport{
		ProductID:   productID,
		ReporterID:  reporter.ID,
		Reason:      strings.TrimSpace(req.Reason),
		Description: req.Description,
		Status:      models.ReportStatusPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to submit report: %w", err)
	}
	return report, nil
}

func (s *ReportService) List(ctx context.Context, status string, params utils.PaginationParams) ([]models.ProductReport, int64, error) {
	st := models.ReportStatus(status)
	if st != "" && !st.Valid() {
		return nil, 0, invalid("unknown report status " + status)
	}
	return s.reports.List(ctx, st, params)
}

func (s *ReportService) UpdateStatus(ctx context.Context, admin Actor, id uuid.UUID, req *UpdateReportStatusRequest) (*models.ProductReport, error) {
	if !req.Status.Valid() {
		return nil, invalid("unknown report status " + string(req.Status))
	}

	now := time.Now()
	err := s.reports.Update(ctx, id, map[string]interface{}{
		"status":      req.Status,
		"admin_notes": req.AdminNotes,
		"reviewed_by": admin.ID,
		"reviewed_at": now,
	})
	if err != nil {
		return nil, orNotFound(err, "report")
	}
	return s.reports.FindByID(ctx, id)
}
