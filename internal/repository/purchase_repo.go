// internal/repository/purchase_repo.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

// OrderRef identifies every purchase row created by one provider order.
type OrderRef struct {
	Provider models.PaymentProvider
	ID       string
}

type PurchaseRepository interface {
	CreateBatch(ctx context.Context, purchases []models.Purchase) error
	FindByOrder(ctx context.Context, ref OrderRef) ([]models.Purchase, error)
	// CompletePending moves only the pending rows of ref to completed and
	// returns how many rows changed.
	CompletePending(ctx context.Context, ref OrderRef, paymentID string, at time.Time) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	FindByLicenseKey(ctx context.Context, key string) (*models.Purchase, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params utils.PaginationParams) ([]models.Purchase, int64, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, params utils.PaginationParams) ([]models.Purchase, int64, error)
	HasCompleted(ctx context.Context, customerID, productID uuid.UUID) (bool, error)
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db: db}
}

func orderColumn(provider models.PaymentProvider) string {
	if provider == models.PaymentProviderStripe {
		return "stripe_payment_intent_id"
	}
	return "razorpay_order_id"
}

func (r *purchaseRepo) CreateBatch(ctx context.Context, purchases []models.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range purchases {
			if err := tx.Create(&purchases[i]).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func (r *purchaseRepo) FindByOrder(ctx context.Context, ref OrderRef) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where(orderColumn(ref.Provider)+" = ?", ref.ID).
		Order("created_at asc").
		Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepo) CompletePending(ctx context.Context, ref OrderRef, paymentID string, at time.Time) (int64, error) {
	fields := map[string]interface{}{
		"status":       models.PurchaseStatusCompleted,
		"purchased_at": at,
	}
	if ref.Provider == models.PaymentProviderRazorpay {
		fields["razorpay_payment_id"] = paymentID
	}

	result := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Where(orderColumn(ref.Provider)+" = ? AND status = ?", ref.ID, models.PurchaseStatusPending).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).Preload("Product").First(&purchase, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &purchase, nil
}

func (r *purchaseRepo) FindByLicenseKey(ctx context.Context, key string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).Preload("Product").First(&purchase, "license_key = ?", key).Error; err != nil {
		return nil, translate(err)
	}
	return &purchase, nil
}

func (r *purchaseRepo) listWhere(ctx context.Context, column string, id uuid.UUID, params utils.PaginationParams) ([]models.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Where(column+" = ? AND status = ?", id, models.PurchaseStatusCompleted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var purchases []models.Purchase
	query = query.Preload("Product").Scopes(params.SortedBy("created_at", "purchased_at", "amount"))
	if err := query.Scopes(params.Window()).Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

func (r *purchaseRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params utils.PaginationParams) ([]models.Purchase, int64, error) {
	return r.listWhere(ctx, "customer_id", customerID, params)
}

func (r *purchaseRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, params utils.PaginationParams) ([]models.Purchase, int64, error) {
	return r.listWhere(ctx, "seller_id", sellerID, params)
}

func (r *purchaseRepo) HasCompleted(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("customer_id = ? AND product_id = ? AND status = ?", customerID, productID, models.PurchaseStatusCompleted).
		Count(&count).Error
	return count > 0, err
}
