// internal/services/checkout_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Piyush5621/AnarchyBay/internal/config"
	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/payments"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type CheckoutService struct {
	products  repository.ProductRepository
	purchases repository.PurchaseRepository
	profiles  repository.ProfileRepository
	razorpay  payments.OrderGateway
	stripe    payments.IntentGateway
	notifier  Notifier
	cfg       *config.Config
	now       func() time.Time
}

type CreateOrderRequest struct {
	ProductID      *uuid.UUID      `json:"productId"`
	ProductIDs     []uuid.UUID     `json:"productIds"`
	VariantID      *uuid.UUID      `json:"variantId"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

type OrderResponse struct {
	Provider     models.PaymentProvider `json:"provider"`
	OrderID      string                 `json:"orderId"`
	Amount       int64                  `json:"amount"`
	Currency     string                 `json:"currency"`
	ClientSecret string                 `json:"clientSecret,omitempty"`
	KeyID        string                 `json:"keyId,omitempty"`
	PurchaseID   uuid.UUID              `json:"purchaseId"`
	PurchaseIDs  []uuid.UUID            `json:"purchaseIds"`
}

type VerifyRazorpayRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

type ConfirmStripeRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

type VerifyResult struct {
	Purchases        []models.Purchase `json:"purchases"`
	AlreadyCompleted bool              `json:"already_completed"`
}

// orderItem is one priced line of a checkout.
type orderItem struct {
	product   models.Product
	variantID *uuid.UUID
	price     decimal.Decimal
}

// NewCheckoutService accepts nil gateways for providers that are not configured.
func NewCheckoutService(
	products repository.ProductRepository,
	purchases repository.PurchaseRepository,
	profiles repository.ProfileRepository,
	razorpay payments.OrderGateway,
	stripe payments.IntentGateway,
	notifier Notifier,
	cfg *config.Config,
) *CheckoutService {
	return &CheckoutService{
		products:  products,
		purchases: purchases,
		profiles:  profiles,
		razorpay:  razorpay,
		stripe:    stripe,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *CheckoutService) CreateRazorpayOrder(ctx context.Context, customerID uuid.UUID, req *CreateOrderRequest) (*OrderResponse, error) {
	if s.razorpay == nil {
		return nil, ErrProviderDisabled
	}
	resp, err := s.createOrder(ctx, s.razorpay, customerID, req)
	if err != nil {
		return nil, err
	}
	resp.KeyID = s.cfg.Payment.RazorpayKeyID
	return resp, nil
}

func (s *CheckoutService) CreateStripeOrder(ctx context.Context, customerID uuid.UUID, req *CreateOrderRequest) (*OrderResponse, error) {
	if s.stripe == nil {
		return nil, ErrProviderDisabled
	}
	return s.createOrder(ctx, s.stripe, customerID, req)
}

// resolveItems prices every requested product. A variant only applies to a
// single product checkout.
func (s *CheckoutService) resolveItems(ctx context.Context, req *CreateOrderRequest) ([]orderItem, error) {
	if len(req.ProductIDs) > 0 {
		found, err := s.products.FindByIDs(ctx, req.ProductIDs)
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]models.Product, len(found))
		for _, p := range found {
			byID[p.ID] = p
		}
		items := make([]orderItem, 0, len(req.ProductIDs))
		for _, id := range req.ProductIDs {
			product, ok := byID[id]
			if !ok || !product.IsActive {
				return nil, notFound("product")
			}
			items = append(items, orderItem{product: product, price: product.Price})
		}
		return items, nil
	}

	if req.ProductID == nil {
		return nil, invalid("no products specified")
	}

	product, err := s.activeProduct(ctx, *req.ProductID)
	if err != nil {
		return nil, err
	}
	item := orderItem{product: *product, price: product.Price}

	if req.VariantID != nil {
		variant, err := s.products.FindVariant(ctx, *req.VariantID)
		if err != nil {
			return nil, orNotFound(err, "variant")
		}
		if variant.ProductID != product.ID {
			return nil, notFound("variant")
		}
		item.variantID = &variant.ID
		item.price = variant.Price
	}
	return []orderItem{item}, nil
}

func (s *CheckoutService) activeProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "product")
	}
	if !product.IsActive {
		return nil, notFound("product")
	}
	return product, nil
}

func (s *CheckoutService) createOrder(ctx context.Context, gateway payments.OrderGateway, customerID uuid.UUID, req *CreateOrderRequest) (*OrderResponse, error) {
	if req.DiscountAmount.IsNegative() {
		return nil, invalid("discount amount must not be negative")
	}

	items, err := s.resolveItems(ctx, req)
	if err != nil {
		return nil, err
	}

	currency := ""
	prices := make([]decimal.Decimal, len(items))
	for i, item := range items {
		c := strings.ToUpper(item.product.Currency)
		if c == "" {
			c = s.cfg.Payment.DefaultCurrency
		}
		if currency != "" && c != currency {
			return nil, invalid("all products in an order must share a currency")
		}
		currency = c
		prices[i] = item.price
	}

	total := OrderTotal(prices, req.DiscountAmount)
	if ToMinorUnits(total) <= 0 {
		return nil, invalid("order total must be greater than zero")
	}

	order, err := gateway.CreateOrder(ctx, payments.OrderRequest{
		AmountMinor: ToMinorUnits(total),
		Currency:    currency,
		Receipt:     fmt.Sprintf("receipt_%d", s.now().UnixMilli()),
		Notes:       map[string]string{"customer_id": customerID.String()},
	})
	if err != nil {
		logrus.WithError(err).WithField("provider", gateway.Provider()).Error("Payment order creation failed")
		return nil, fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}

	rows := make([]models.Purchase, 0, len(items))
	for i, item := range items {
		licenseKey, err := utils.GenerateLicenseKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate license key: %w", err)
		}
		fee, earnings := SplitFee(item.price, s.cfg.Payment.PlatformFeePercent)

		row := models.Purchase{
			CustomerID:      customerID,
			ProductID:       item.product.ID,
			SellerID:        item.product.CreatorID,
			VariantID:       item.variantID,
			Amount:          item.price,
			Currency:        currency,
			PlatformFee:     fee,
			CreatorEarnings: earnings,
			DiscountAmount:  decimal.Zero,
			PaymentProvider: gateway.Provider(),
			Status:          models.PurchaseStatusPending,
			LicenseKey:      licenseKey,
		}
		if i == 0 {
			row.DiscountAmount = req.DiscountAmount
		}
		if gateway.Provider() == models.PaymentProviderStripe {
			row.StripePaymentIntentID = order.ID
		} else {
			row.RazorpayOrderID = order.ID
		}
		rows = append(rows, row)
	}

	if err := s.purchases.CreateBatch(ctx, rows); err != nil {
		// The provider order already exists; it simply expires unpaid.
		logrus.WithError(err).WithFields(logrus.Fields{
			"provider": gateway.Provider(),
			"order_id": order.ID,
		}).Error("Failed to record pending purchases")
		return nil, fmt.Errorf("failed to create purchase records: %w", err)
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}

	return &OrderResponse{
		Provider:     gateway.Provider(),
		OrderID:      order.ID,
		Amount:       order.AmountMinor,
		Currency:     order.Currency,
		ClientSecret: order.ClientSecret,
		PurchaseID:   ids[0],
		PurchaseIDs:  ids,
	}, nil
}

func (s *CheckoutService) VerifyRazorpayPayment(ctx context.Context, req *VerifyRazorpayRequest) (*VerifyResult, error) {
	if !payments.VerifyRazorpaySignature(s.cfg.Payment.RazorpayKeySecret, req.OrderID, req.PaymentID, req.Signature) {
		return nil, ErrInvalidSignature
	}
	ref := repository.OrderRef{Provider: models.PaymentProviderRazorpay, ID: req.OrderID}
	return s.complete(ctx, ref, req.PaymentID)
}

func (s *CheckoutService) ConfirmStripePayment(ctx context.Context, req *ConfirmStripeRequest) (*VerifyResult, error) {
	if s.stripe == nil {
		return nil, ErrProviderDisabled
	}
	status, err := s.stripe.OrderStatus(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check payment status: %w", err)
	}
	if status != "succeeded" {
		return nil, fmt.Errorf("%w: status %s", ErrPaymentNotCompleted, status)
	}
	ref := repository.OrderRef{Provider: models.PaymentProviderStripe, ID: req.PaymentIntentID}
	return s.complete(ctx, ref, req.PaymentIntentID)
}

// complete moves the pending rows of one order to completed. Repeating the
// call changes nothing and reports already_completed.
func (s *CheckoutService) complete(ctx context.Context, ref repository.OrderRef, paymentID string) (*VerifyResult, error) {
	existing, err := s.purchases.FindByOrder(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	if len(existing) == 0 {
		return nil, notFound("purchase")
	}

	changed, err := s.purchases.CompletePending(ctx, ref, paymentID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to complete purchases: %w", err)
	}

	purchases, err := s.purchases.FindByOrder(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to reload purchases: %w", err)
	}

	result := &VerifyResult{Purchases: purchases, AlreadyCompleted: changed == 0}
	if changed > 0 {
		s.notifyBuyer(ctx, purchases)
	}
	return result, nil
}

func (s *CheckoutService) notifyBuyer(ctx context.Context, purchases []models.Purchase) {
	if s.notifier == nil || len(purchases) == 0 {
		return
	}
	buyer, err := s.profiles.FindByID(ctx, purchases[0].CustomerID)
	if err != nil {
		logrus.WithError(err).Warn("Purchase completed but buyer profile could not be loaded")
		return
	}
	go func() {
		if err := s.notifier.PurchaseCompleted(buyer, purchases); err != nil {
			logrus.WithError(err).WithField("customer_id", buyer.ID).Error("Failed to send purchase confirmation")
		}
	}()
}
