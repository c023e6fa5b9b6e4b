// internal/payments/razorpay.go
package payments

import (
	"context"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *RazorpayGateway) Provider() models.PaymentProvider {
	return models.PaymentProviderRazorpay
}

// CreateOrder calls the Orders API. The SDK has no context support, so ctx
// only short-circuits a request that is already cancelled.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}

	body, err := g.client.Order.Create(map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": strings.ToUpper(req.Currency),
		"receipt":  req.Receipt,
		"notes":    notes,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay order: response has no id")
	}

	order := &Order{ID: id, AmountMinor: req.AmountMinor, Currency: strings.ToUpper(req.Currency)}
	if amount, ok := body["amount"].(float64); ok {
		order.AmountMinor = int64(amount)
	}
	if currency, ok := body["currency"].(string); ok {
		order.Currency = currency
	}
	if status, ok := body["status"].(string); ok {
		order.Status = status
	}
	return order, nil
}

// VerifyRazorpaySignature checks hex(HMAC-SHA256(secret, "order|payment")).
func VerifyRazorpaySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return utils.VerifyHMACSHA256Hex(secret, orderID+"|"+paymentID, signature)
}
