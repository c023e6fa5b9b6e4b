// internal/payments/gateway.go
package payments

import (
	"context"

	"github.com/Piyush5621/AnarchyBay/internal/models"
)

type OrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// Order is the provider side view of a checkout. ClientSecret is only set
// by providers that confirm on the client (Stripe).
type Order struct {
	ID           string `json:"id"`
	AmountMinor  int64  `json:"amount"`
	Currency     string `json:"currency"`
	ClientSecret string `json:"client_secret,omitempty"`
	Status       string `json:"status,omitempty"`
}

type OrderGateway interface {
	Provider() models.PaymentProvider
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
}

// IntentGateway reports the provider status of a previously created order.
type IntentGateway interface {
	OrderGateway
	OrderStatus(ctx context.Context, orderID string) (string, error)
}
