// internal/handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Piyush5621/AnarchyBay/internal/config"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	cfg *config.Config
}

func NewHealthHandler(db Pinger, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: db, cfg: cfg}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// GET /health-check also pings the database.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := gin.H{"api": "ok", "database": "ok"}
	code := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logrus.WithError(err).Warn("Health check database ping failed")
			status["database"] = "unreachable"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
	})
}

// GET /api/config exposes the keys the storefront needs.
func (h *HealthHandler) PublicConfig(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"supabaseUrl":     h.cfg.Supabase.URL,
		"supabaseAnonKey": h.cfg.Supabase.AnonKey,
		"razorpayKeyId":   h.cfg.Payment.RazorpayKeyID,
		"stripeEnabled":   h.cfg.Payment.StripeSecretKey != "",
		"currency":        h.cfg.Payment.DefaultCurrency,
	})
}
