// internal/repository/stats_repo.go
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Piyush5621/AnarchyBay/internal/models"
)

type DashboardStats struct {
	TotalUsers         int64           `db:"total_users" json:"total_users"`
	TotalProducts      int64           `db:"total_products" json:"total_products"`
	ActiveProducts     int64           `db:"active_products" json:"active_products"`
	CompletedPurchases int64           `db:"completed_purchases" json:"completed_purchases"`
	TotalRevenue       decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	PlatformFees       decimal.Decimal `db:"platform_fees" json:"platform_fees"`
	PendingReports     int64           `db:"pending_reports" json:"pending_reports"`
	UnansweredMessages int64           `db:"unanswered_messages" json:"unanswered_messages"`
}

type SalesSummary struct {
	TotalSales    int64           `db:"total_sales" json:"total_sales"`
	TotalRevenue  decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	TotalEarnings decimal.Decimal `db:"total_earnings" json:"total_earnings"`
}

type StatsRepository interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	SellerSummary(ctx context.Context, sellerID uuid.UUID) (*SalesSummary, error)
}

// statsRepo runs the aggregate queries through sqlx over the same pool gorm uses.
type statsRepo struct {
	db *sqlx.DB
}

func NewStatsRepo(db *sqlx.DB) StatsRepository {
	return &statsRepo{db: db}
}

const dashboardQuery = `
SELECT
	(SELECT COUNT(*) FROM profiles) AS total_users,
	(SELECT COUNT(*) FROM products) AS total_products,
	(SELECT COUNT(*) FROM products WHERE is_active = ?) AS active_products,
	(SELECT COUNT(*) FROM purchases WHERE status = ?) AS completed_purchases,
	(SELECT COALESCE(SUM(amount), 0) FROM purchases WHERE status = ?) AS total_revenue,
	(SELECT COALESCE(SUM(platform_fee), 0) FROM purchases WHERE status = ?) AS platform_fees,
	(SELECT COUNT(*) FROM product_reports WHERE status = ?) AS pending_reports,
	(SELECT COUNT(*) FROM contact_messages WHERE replied_at IS NULL) AS unanswered_messages`

const sellerSummaryQuery = `
SELECT
	COUNT(*) AS total_sales,
	COALESCE(SUM(amount), 0) AS total_revenue,
	COALESCE(SUM(creator_earnings), 0) AS total_earnings
FROM purchases
WHERE seller_id = ? AND status = ?`

func (r *statsRepo) Dashboard(ctx context.Context) (*DashboardStats, error) {
	completed := string(models.PurchaseStatusCompleted)

	var stats DashboardStats
	err := r.db.GetContext(ctx, &stats, r.db.Rebind(dashboardQuery),
		true, completed, completed, completed, string(models.ReportStatusPending))
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}

func (r *statsRepo) SellerSummary(ctx context.Context, sellerID uuid.UUID) (*SalesSummary, error) {
	var summary SalesSummary
	err := r.db.GetContext(ctx, &summary, r.db.Rebind(sellerSummaryQuery),
		sellerID.String(), string(models.PurchaseStatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("seller summary: %w", err)
	}
	return &summary, nil
}
