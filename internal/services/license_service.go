// internal/services/license_service.go
package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
)

// LicenseService lets sellers check the license keys issued at checkout.
type LicenseService struct {
	purchases repository.PurchaseRepository
}

type VerifyLicenseRequest struct {
	ProductID  uuid.UUID `json:"product_id" validate:"required"`
	LicenseKey string    `json:"license_key" validate:"required,max=64"`
}

type LicenseVerification struct {
	Valid       bool                  `json:"valid"`
	Status      models.PurchaseStatus `json:"status"`
	ProductID   uuid.UUID             `json:"product_id"`
	ProductName string                `json:"product_name,omitempty"`
	VariantID   *uuid.UUID            `json:"variant_id,omitempty"`
	PurchasedAt *time.Time            `json:"purchased_at,omitempty"`
}

func NewLicenseService(purchases repository.PurchaseRepository) *LicenseService {
	return &LicenseService{purchases: purchases}
}

func normalizeLicenseKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Verify reports a key as valid only for the product it was issued for and
// only once the payment has completed. A key for another product is
// reported as unknown.
func (s *LicenseService) Verify(ctx context.Context, req *VerifyLicenseRequest) (*LicenseVerification, error) {
	key := normalizeLicenseKey(req.LicenseKey)
	if key == "" {
		return nil, invalid("license_key is required")
	}

	purchase, err := s.purchases.FindByLicenseKey(ctx, key)
	if err != nil {
		return nil, orNotFound(err, "license")
	}
	if purchase.ProductID != req.ProductID {
		return nil, notFound("license")
	}

	result := &LicenseVerification{
		Valid:       purchase.Status == models.PurchaseStatusCompleted,
		Status:      purchase.Status,
		ProductID:   purchase.ProductID,
		VariantID:   purchase.VariantID,
		PurchasedAt: purchase.PurchasedAt,
	}
	if purchase.Product != nil {
		result.ProductName = purchase.Product.Name
	}
	return result, nil
}
