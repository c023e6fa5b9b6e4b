// internal/services/purchase_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type PurchaseService struct {
	purchases repository.PurchaseRepository
	stats     repository.StatsRepository
}

type SalesReport struct {
	Sales   []models.Purchase        `json:"sales"`
	Total   int64                    `json:"total"`
	Summary *repository.SalesSummary `json:"summary"`
}

type OwnershipStatus struct {
	Purchased bool `json:"purchased"`
}

func NewPurchaseService(purchases repository.PurchaseRepository, stats repository.StatsRepository) *PurchaseService {
	return &PurchaseService{purchases: purchases, stats: stats}
}

func (s *PurchaseService) MyPurchases(ctx context.Context, customerID uuid.UUID, params utils.PaginationParams) ([]models.Purchase, int64, error) {
	return s.purchases.ListByCustomer(ctx, customerID, params)
}

func (s *PurchaseService) Sales(ctx context.Context, sellerID uuid.UUID, params utils.PaginationParams) (*SalesReport, error) {
	sales, total, err := s.purchases.ListBySeller(ctx, sellerID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	summary, err := s.stats.SellerSummary(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return &SalesReport{Sales: sales, Total: total, Summary: summary}, nil
}

func (s *PurchaseService) CheckOwnership(ctx context.Context, customerID, productID uuid.UUID) (*OwnershipStatus, error) {
	ok, err := s.purchases.HasCompleted(ctx, customerID, productID)
	if err != nil {
		return nil, err
	}
	return &OwnershipStatus{Purchased: ok}, nil
}

// ByOrder returns the caller's rows of one provider order.
func (s *PurchaseService) ByOrder(ctx context.Context, actor Actor, orderID string) ([]models.Purchase, error) {
	provider := models.PaymentProviderRazorpay
	if len(orderID) > 3 && orderID[:3] == "pi_" {
		provider = models.PaymentProviderStripe
	}

	rows, err := s.purchases.FindByOrder(ctx, repository.OrderRef{Provider: provider, ID: orderID})
	if err != nil {
		return nil, err
	}

	visible := make([]models.Purchase, 0, len(rows))
	for _, p := range rows {
		if p.CustomerID == actor.ID || actor.IsAdmin() {
			visible = append(visible, p)
		}
	}
	if len(visible) == 0 {
		return nil, notFound("purchase")
	}
	return visible, nil
}

// Get is limited to the buyer, the seller and admins.
func (s *PurchaseService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Purchase, error) {
	purchase, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "purchase")
	}
	if purchase.CustomerID != actor.ID && purchase.SellerID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: not a party to this purchase", ErrForbidden)
	}
	return purchase, nil
}
