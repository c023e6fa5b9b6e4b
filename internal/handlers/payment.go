// internal/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Piyush5621/AnarchyBay/internal/services"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type PaymentHandler struct {
	checkoutService *services.CheckoutService
}

func NewPaymentHandler(checkoutService *services.CheckoutService) *PaymentHandler {
	return &PaymentHandler{
		checkoutService: checkoutService,
	}
}

// POST /api/purchases/checkout/razorpay
func (h *PaymentHandler) CreateRazorpayOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req services.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.CreateRazorpayOrder(c.Request.Context(), actor.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, resp)
}

// POST /api/purchases/verify/razorpay
func (h *PaymentHandler) VerifyRazorpayPayment(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	var req services.VerifyRazorpayRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.checkoutService.VerifyRazorpayPayment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /api/purchases/checkout/stripe
func (h *PaymentHandler) CreateStripeOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req services.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.CreateStripeOrder(c.Request.Context(), actor.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, resp)
}

// POST /api/purchases/verify/stripe
func (h *PaymentHandler) ConfirmStripePayment(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	var req services.ConfirmStripeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.checkoutService.ConfirmStripePayment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}
