// internal/models/purchase.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Purchase struct {
	BaseModel
	CustomerID            uuid.UUID       `json:"customer_id" gorm:"type:uuid;not null;index"`
	ProductID             uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	SellerID              uuid.UUID       `json:"seller_id" gorm:"type:uuid;not null;index"`
	VariantID             *uuid.UUID      `json:"variant_id" gorm:"type:uuid"`
	Amount                decimal.Decimal `json:"amount" gorm:"type:numeric(10,2);not null"`
	Currency              string          `json:"currency" gorm:"size:3;not null"`
	PlatformFee           decimal.Decimal `json:"platform_fee" gorm:"type:numeric(10,2);not null"`
	CreatorEarnings       decimal.Decimal `json:"creator_earnings" gorm:"type:numeric(10,2);not null"`
	DiscountAmount        decimal.Decimal `json:"discount_amount" gorm:"type:numeric(10,2);default:0"`
	PaymentProvider       PaymentProvider `json:"payment_provider" gorm:"type:varchar(20);not null"`
	RazorpayOrderID       string          `json:"razorpay_order_id,omitempty" gorm:"size:64;index"`
	RazorpayPaymentID     string          `json:"razorpay_payment_id,omitempty" gorm:"size:64"`
	StripePaymentIntentID string          `json:"stripe_payment_intent_id,omitempty" gorm:"size:64;index"`
	Status                PurchaseStatus  `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	LicenseKey            string          `json:"license_key" gorm:"size:64;uniqueIndex"`
	PurchasedAt           *time.Time      `json:"purchased_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// OrderReference is the provider-side id shared by every row of one checkout.
func (p *Purchase) OrderReference() string {
	if p.PaymentProvider == PaymentProviderStripe {
		return p.StripePaymentIntentID
	}
	return p.RazorpayOrderID
}
