package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Piyush5621/AnarchyBay/internal/config"
	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type checkoutFixture struct {
	svc       *CheckoutService
	products  *fakeProducts
	purchases *fakePurchases
	razorpay  *fakeGateway
	stripe    *fakeGateway
	notifier  *fakeNotifier
	buyer     *models.Profile
	seller    uuid.UUID
}

func newCheckoutFixture(t *testing.T, products ...*models.Product) *checkoutFixture {
	t.Helper()
	seller := uuid.New()
	for _, p := range products {
		p.CreatorID = seller
	}
	buyer := &models.Profile{Email: "buyer@example.com", Roles: models.DefaultRoles(), IsActive: true}

	f := &checkoutFixture{
		products:  newFakeProducts(products...),
		purchases: &fakePurchases{},
		razorpay:  &fakeGateway{provider: models.PaymentProviderRazorpay},
		stripe:    &fakeGateway{provider: models.PaymentProviderStripe, status: "succeeded"},
		notifier:  newFakeNotifier(nil),
		buyer:     buyer,
		seller:    seller,
	}
	cfg := &config.Config{Payment: config.PaymentConfig{
		RazorpayKeyID:      "rzp_test_key",
		RazorpayKeySecret:  "s",
		PlatformFeePercent: 5,
		DefaultCurrency:    "INR",
	}}
	f.svc = NewCheckoutService(f.products, f.purchases, newFakeProfiles(buyer), f.razorpay, f.stripe, f.notifier, cfg)
	f.svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return f
}

func product(name, price string) *models.Product {
	return &models.Product{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      name,
		Price:     dec(price),
		Currency:  "INR",
		IsActive:  true,
	}
}

func (f *checkoutFixture) expectNotifications(t *testing.T, n int) []notification {
	t.Helper()
	var got []notification
	for i := 0; i < n; i++ {
		select {
		case msg := <-f.notifier.sent:
			got = append(got, msg)
		case <-time.After(time.Second):
			t.Fatalf("expected %d notifications, got %d", n, len(got))
		}
	}
	select {
	case msg := <-f.notifier.sent:
		t.Fatalf("unexpected notification %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
	return got
}

func TestCreateRazorpayOrderSingleProduct(t *testing.T) {
	p := product("React Dashboard", "499")
	f := newCheckoutFixture(t, p)

	resp, err := f.svc.CreateRazorpayOrder(context.Background(), f.buyer.ID, &CreateOrderRequest{ProductID: &p.ID})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentProviderRazorpay, resp.Provider)
	assert.Equal(t, "order_1", resp.OrderID)
	assert.Equal(t, int64(49900), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "rzp_test_key", resp.KeyID)
	assert.Equal(t, resp.PurchaseIDs[0], resp.PurchaseID)
	assert.Equal(t, "customer_id", firstKey(f.razorpay.lastRequest().Notes))

	pending := f.purchases.byStatus(models.PurchaseStatusPending)
	require.Len(t, pending, 1)
	row := pending[0]
	assert.Equal(t, f.buyer.ID, row.CustomerID)
	assert.Equal(t, f.seller, row.SellerID)
	assert.Equal(t, "order_1", row.RazorpayOrderID)
	assert.Empty(t, row.StripePaymentIntentID)
	assert.True(t, row.PlatformFee.Equal(dec("24.95")))
	assert.True(t, row.CreatorEarnings.Equal(dec("474.05")))
	assert.Regexp(t, `^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`, row.LicenseKey)
}

func firstKey(m map[string]string) string {
	for k := range m {
		return k
	}
	return ""
}

func TestCreateOrderMultipleProductsWithDiscount(t *testing.T) {
	a := product("A", "199.99")
	b := product("B", "100.01")
	f := newCheckoutFixture(t, a, b)

	resp, err := f.svc.CreateRazorpayOrder(context.Background(), f.buyer.ID, &CreateOrderRequest{
		ProductIDs:     []uuid.UUID{a.ID, b.ID},
		DiscountAmount: dec("50"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25000), resp.Amount)
	assert.Len(t, resp.PurchaseIDs, 2)

	rows := f.purchases.byStatus(models.PurchaseStatusPending)
	require.Len(t, rows, 2)
	discounts := decimal.Zero
	for _, r := range rows {
		assert.Equal(t, "order_1", r.RazorpayOrderID)
		discounts = discounts.Add(r.DiscountAmount)
	}
	assert.True(t, discounts.Equal(dec("50")))
}

func TestCreateOrderRejectsZeroTotal(t *testing.T) {
	p := product("Cheap", "10")
	f := newCheckoutFixture(t, p)

	for _, discount := range []string{"10", "25"} {
		t.Run("discount "+discount, func(t *testing.T) {
			_, err := f.svc.CreateRazorpayOrder(context.Background(), f.buyer.ID, &CreateOrderRequest{
				ProductID:      &p.ID,
				DiscountAmount: dec(discount),
			})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, f.razorpay.requests)
	assert.Empty(t, f.purchases.rows)

	resp, err := f.svc.CreateRazorpayOrder(context.Background(), f.buyer.ID, &CreateOrderRequest{
		ProductID:      &p.ID,
		DiscountAmount: dec("9.99"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Amount)
}

func TestCreateOrderUsesVariantPrice(t *testing.T) {
	p := product("Course", "999")
	f := newCheckoutFixture(t, p)
	variant := &models.ProductVariant{ProductID: p.ID, Name: "Lite", Price: dec("299.5")}
	require.NoError(t, f.products.CreateVariant(context.Background(), variant))

	resp, err := f.svc.CreateRazorpayOrder(context.Background(), f.buyer.ID, &CreateOrderRequest{
		ProductID: &p.ID,
		VariantID: &variant.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(29950), resp.Amount)

	rows := f.purchases.byStatus(models.PurchaseStatusPending)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].VariantID)
	assert.Equal(t, variant.ID, *rows[0].VariantID)
	assert.True(t, rows[0].Amount.Equal(dec("299.5")))
}

func TestCreateOrderRejections(t *testing.T) {
	p := product("Active", "100")
	inactive := product("Hidden", "100")
	inactive.IsActive = false
	usd := product("Dollar", "5")
	usd.Currency = "USD"
	f := newCheckoutFixture(t, p, inactive, usd)

	foreign := &models.ProductVariant{ProductID: inactive.ID, Name: "x", Price: dec("1")}
	require.NoError(t, f.products.CreateVariant(context.Background(), foreign))

	missing := uuid.New()
	cases := []struct {
		name   string
		req    *CreateOrderRequest
		target error
	}{
		{"no products", &CreateOrderRequest{}, ErrValidation},
		{"unknown product", &CreateOrderRequest{ProductID: &missing}, ErrNotFound},
		{"inactive product", &CreateOrderRequest{ProductID: &inactive.ID}, ErrNotFound},
		{"variant of another product", &CreateOrderRequest{ProductID: &p.ID, VariantID: &foreign.ID}, ErrNotFound},
		{"mixed currencies", &CreateOrderRequest{ProductIDs: []uuid.UUID{p.ID, usd.ID}}, ErrValidation},
		{"unknown product in basket", &CreateOrderRequest{ProductIDs: []uuid.UUID{p.ID, missing}}, ErrNotFound},
		{"inactive product in basket", &CreateOrderRequest{ProductIDs: []uuid.UUID{inactive.ID, p.ID}}, ErrNotFound},
		{"negative discount", &CreateOrderRequest{ProductID: &p.ID, DiscountAmount: dec("-1")}, ErrValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateRazorpayOrder(context.Background(), f.buyer.ID, tc.req)
			assert.ErrorIs(t, err, tc.target)
		})
	}
	assert.Empty(t, f.razorpay.requests)
	assert.Empty(t, f.purchases.rows)
}

func TestCreateOrderProviderFailure(t *testing.T) {
	p := product("A", "100")
	f := newCheckoutFixture(t, p)
	f.razorpay.err = errors.New("bad request")

	_, err := f.svc.CreateRazorpayOrder(context.Background(), f.buyer.ID, &CreateOrderRequest{ProductID: &p.ID})
	assert.ErrorIs(t, err, ErrOrderCreation)
	assert.Contains(t, err.Error(), "bad request")
	assert.Empty(t, f.purchases.rows)
}

func TestCreateOrderProviderDisabled(t *testing.T) {
	p := product("A", "100")
	f := newCheckoutFixture(t, p)
	svc := NewCheckoutService(f.products, f.purchases, newFakeProfiles(), nil, nil, nil, f.svc.cfg)

	_, err := svc.CreateRazorpayOrder(context.Background(), f.buyer.ID, &CreateOrderRequest{ProductID: &p.ID})
	assert.ErrorIs(t, err, ErrProviderDisabled)
	_, err = svc.CreateStripeOrder(context.Background(), f.buyer.ID, &CreateOrderRequest{ProductID: &p.ID})
	assert.ErrorIs(t, err, ErrProviderDisabled)
}

func TestVerifyRazorpayPaymentCompletesOnlyThatOrder(t *testing.T) {
	a := product("A", "100")
	b := product("B", "50")
	c := product("C", "75")
	f := newCheckoutFixture(t, a, b, c)
	ctx := context.Background()

	first, err := f.svc.CreateRazorpayOrder(ctx, f.buyer.ID, &CreateOrderRequest{ProductIDs: []uuid.UUID{a.ID, b.ID}})
	require.NoError(t, err)
	second, err := f.svc.CreateRazorpayOrder(ctx, f.buyer.ID, &CreateOrderRequest{ProductID: &c.ID})
	require.NoError(t, err)
	require.Equal(t, "order_1", first.OrderID)

	res, err := f.svc.VerifyRazorpayPayment(ctx, &VerifyRazorpayRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: utils.HMACSHA256Hex("s", "order_1|pay_1"),
	})
	require.NoError(t, err)
	assert.False(t, res.AlreadyCompleted)
	require.Len(t, res.Purchases, 2)
	for _, p := range res.Purchases {
		assert.Equal(t, models.PurchaseStatusCompleted, p.Status)
		assert.Equal(t, "pay_1", p.RazorpayPaymentID)
		assert.NotNil(t, p.PurchasedAt)
	}

	pending := f.purchases.byStatus(models.PurchaseStatusPending)
	require.Len(t, pending, 1)
	assert.Equal(t, second.OrderID, pending[0].RazorpayOrderID)

	sent := f.expectNotifications(t, 1)
	assert.Equal(t, notification{kind: "purchase", to: "buyer@example.com", n: 2}, sent[0])

	// Replaying the same payment changes nothing and mails nobody.
	again, err := f.svc.VerifyRazorpayPayment(ctx, &VerifyRazorpayRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: utils.HMACSHA256Hex("s", "order_1|pay_1"),
	})
	require.NoError(t, err)
	assert.True(t, again.AlreadyCompleted)
	assert.Len(t, again.Purchases, 2)
	f.expectNotifications(t, 0)
}

func TestVerifyRazorpayPaymentRejectsBadSignature(t *testing.T) {
	p := product("A", "100")
	f := newCheckoutFixture(t, p)
	ctx := context.Background()
	_, err := f.svc.CreateRazorpayOrder(ctx, f.buyer.ID, &CreateOrderRequest{ProductID: &p.ID})
	require.NoError(t, err)

	for _, sig := range []string{"", "deadbeef", utils.HMACSHA256Hex("s", "order_1|pay_2"), utils.HMACSHA256Hex("other", "order_1|pay_1")} {
		_, err := f.svc.VerifyRazorpayPayment(ctx, &VerifyRazorpayRequest{OrderID: "order_1", PaymentID: "pay_1", Signature: sig})
		assert.ErrorIs(t, err, ErrInvalidSignature, sig)
	}
	assert.Len(t, f.purchases.byStatus(models.PurchaseStatusPending), 1)
}

func TestVerifyRazorpayPaymentUnknownOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.svc.VerifyRazorpayPayment(context.Background(), &VerifyRazorpayRequest{
		OrderID:   "order_9",
		PaymentID: "pay_9",
		Signature: utils.HMACSHA256Hex("s", "order_9|pay_9"),
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "purchase", nf.Resource)
}

func TestStripeCheckoutAndConfirm(t *testing.T) {
	p := product("A", "12.34")
	f := newCheckoutFixture(t, p)
	ctx := context.Background()

	resp, err := f.svc.CreateStripeOrder(ctx, f.buyer.ID, &CreateOrderRequest{ProductID: &p.ID})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentProviderStripe, resp.Provider)
	assert.Equal(t, "pi_1", resp.OrderID)
	assert.Equal(t, "pi_1_secret", resp.ClientSecret)
	assert.Equal(t, int64(1234), resp.Amount)
	assert.Empty(t, resp.KeyID)

	f.stripe.status = "requires_payment_method"
	_, err = f.svc.ConfirmStripePayment(ctx, &ConfirmStripeRequest{PaymentIntentID: "pi_1"})
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)

	f.stripe.status = "succeeded"
	res, err := f.svc.ConfirmStripePayment(ctx, &ConfirmStripeRequest{PaymentIntentID: "pi_1"})
	require.NoError(t, err)
	require.Len(t, res.Purchases, 1)
	assert.Equal(t, models.PurchaseStatusCompleted, res.Purchases[0].Status)
	f.expectNotifications(t, 1)
}
