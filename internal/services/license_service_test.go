package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Piyush5621/AnarchyBay/internal/models"
)

func TestVerifyLicense(t *testing.T) {
	item := product("Icon Pack", "99")
	paidAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	purchases := &fakePurchases{rows: []*models.Purchase{
		{
			BaseModel:   models.BaseModel{ID: uuid.New()},
			ProductID:   item.ID,
			Status:      models.PurchaseStatusCompleted,
			LicenseKey:  "AAAA-BBBB-CCCC-DDDD",
			PurchasedAt: &paidAt,
			Product:     item,
		},
		{
			BaseModel:  models.BaseModel{ID: uuid.New()},
			ProductID:  item.ID,
			Status:     models.PurchaseStatusPending,
			LicenseKey: "PEND-PEND-PEND-PEND",
		},
	}}
	svc := NewLicenseService(purchases)
	ctx := context.Background()

	t.Run("completed purchase", func(t *testing.T) {
		got, err := svc.Verify(ctx, &VerifyLicenseRequest{ProductID: item.ID, LicenseKey: " aaaa-bbbb-cccc-dddd "})
		require.NoError(t, err)
		assert.True(t, got.Valid)
		assert.Equal(t, "Icon Pack", got.ProductName)
		assert.Equal(t, paidAt, *got.PurchasedAt)
	})

	t.Run("pending purchase", func(t *testing.T) {
		got, err := svc.Verify(ctx, &VerifyLicenseRequest{ProductID: item.ID, LicenseKey: "PEND-PEND-PEND-PEND"})
		require.NoError(t, err)
		assert.False(t, got.Valid)
		assert.Equal(t, models.PurchaseStatusPending, got.Status)
	})

	t.Run("other product", func(t *testing.T) {
		_, err := svc.Verify(ctx, &VerifyLicenseRequest{ProductID: uuid.New(), LicenseKey: "AAAA-BBBB-CCCC-DDDD"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := svc.Verify(ctx, &VerifyLicenseRequest{ProductID: item.ID, LicenseKey: "ZZZZ-ZZZZ-ZZZZ-ZZZZ"})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "license", nf.Resource)
	})

	t.Run("blank key", func(t *testing.T) {
		_, err := svc.Verify(ctx, &VerifyLicenseRequest{ProductID: item.ID, LicenseKey: "  "})
		assert.ErrorIs(t, err, ErrValidation)
	})
}
