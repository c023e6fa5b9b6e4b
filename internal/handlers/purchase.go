// internal/handlers/purchase.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Piyush5621/AnarchyBay/internal/services"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type PurchaseHandler struct {
	purchaseService *services.PurchaseService
}

func NewPurchaseHandler(purchaseService *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// GET /api/purchases/my
func (h *PurchaseHandler) MyPurchases(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	params := utils.PaginationFromQuery(c)

	purchases, total, err := h.purchaseService.MyPurchases(c.Request.Context(), actor.ID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, purchases, total, params)
}

// GET /api/purchases/sales
func (h *PurchaseHandler) Sales(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	report, err := h.purchaseService.Sales(c.Request.Context(), actor.ID, utils.PaginationFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, report)
}

// GET /api/purchases/check/:productId
func (h *PurchaseHandler) CheckOwnership(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	productID, ok := paramUUID(c, "productId", "product")
	if !ok {
		return
	}

	status, err := h.purchaseService.CheckOwnership(c.Request.Context(), actor.ID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, status)
}

// GET /api/purchases/order/:orderId
func (h *PurchaseHandler) ByOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	purchases, err := h.purchaseService.ByOrder(c.Request.Context(), actor, c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, purchases)
}

// GET /api/purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "purchase")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, purchase)
}
