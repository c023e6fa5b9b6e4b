// internal/handlers/admin.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Piyush5621/AnarchyBay/internal/i18n"
	"github.com/Piyush5621/AnarchyBay/internal/services"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type AdminHandler struct {
	adminService   *services.AdminService
	reportService  *services.ReportService
	contactService *services.ContactService
}

func NewAdminHandler(adminService *services.AdminService, reportService *services.ReportService, contactService *services.ContactService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		reportService:  reportService,
		contactService: contactService,
	}
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /api/admin/users?role=&search=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.PaginationFromQuery(c)

	users, total, err := h.adminService.ListUsers(c.Request.Context(), c.Query("role"), params.Search, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, users, total, params)
}

func (h *AdminHandler) userTarget(c *gin.Context) (services.Actor, uuid.UUID, bool) {
	admin, ok := requireActor(c)
	if !ok {
		return admin, uuid.Nil, false
	}
	id, ok := paramUUID(c, "id", "user")
	return admin, id, ok
}

// PUT /api/admin/users/:id/roles
func (h *AdminHandler) ReplaceRoles(c *gin.Context) {
	admin, id, ok := h.userTarget(c)
	if !ok {
		return
	}

	var req services.ReplaceRolesRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.adminService.ReplaceRoles(c.Request.Context(), admin, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, profile)
}

// POST /api/admin/users/:id/roles/:role
func (h *AdminHandler) AddRole(c *gin.Context) {
	admin, id, ok := h.userTarget(c)
	if !ok {
		return
	}

	profile, err := h.adminService.AddRole(c.Request.Context(), admin, id, c.Param("role"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, profile)
}

// DELETE /api/admin/users/:id/roles/:role
func (h *AdminHandler) RemoveRole(c *gin.Context) {
	admin, id, ok := h.userTarget(c)
	if !ok {
		return
	}

	profile, err := h.adminService.RemoveRole(c.Request.Context(), admin, id, c.Param("role"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, profile)
}

// PUT /api/admin/users/:id/verified-seller
func (h *AdminHandler) SetVerifiedSeller(c *gin.Context) {
	admin, id, ok := h.userTarget(c)
	if !ok {
		return
	}

	var req services.SetVerifiedSellerRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.adminService.SetVerifiedSeller(c.Request.Context(), admin, id, req.Verified)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, profile)
}

// PUT /api/admin/users/:id/admin-badge
// An empty body toggles the badge.
func (h *AdminHandler) ToggleAdminBadge(c *gin.Context) {
	admin, id, ok := h.userTarget(c)
	if !ok {
		return
	}

	var req services.SetFlagRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	profile, err := h.adminService.ToggleAdminBadge(c.Request.Context(), admin, id, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, profile)
}

// PUT /api/admin/users/:id/status
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	admin, id, ok := h.userTarget(c)
	if !ok {
		return
	}

	var req services.SetUserStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.adminService.SetStatus(c.Request.Context(), admin, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, profile)
}

// GET /api/admin/products
func (h *AdminHandler) ListProducts(c *gin.Context) {
	params := utils.PaginationFromQuery(c)

	products, total, err := h.adminService.ListProducts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, products, total, params)
}

func (h *AdminHandler) productTarget(c *gin.Context) (services.Actor, uuid.UUID, bool) {
	admin, ok := requireActor(c)
	if !ok {
		return admin, uuid.Nil, false
	}
	id, ok := paramUUID(c, "id", "product")
	return admin, id, ok
}

// PUT /api/admin/products/:id/featured
// An empty body toggles the flag.
func (h *AdminHandler) ToggleFeatured(c *gin.Context) {
	admin, id, ok := h.productTarget(c)
	if !ok {
		return
	}

	var req services.SetFlagRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	product, err := h.adminService.ToggleFeatured(c.Request.Context(), admin, id, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// PUT /api/admin/products/:id/activate
func (h *AdminHandler) ActivateProduct(c *gin.Context) {
	admin, id, ok := h.productTarget(c)
	if !ok {
		return
	}

	product, err := h.adminService.ActivateProduct(c.Request.Context(), admin, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /api/admin/products/:id
func (h *AdminHandler) DeactivateProduct(c *gin.Context) {
	admin, id, ok := h.productTarget(c)
	if !ok {
		return
	}

	product, err := h.adminService.DeactivateProduct(c.Request.Context(), admin, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// GET /api/admin/reports?status=
func (h *AdminHandler) ListReports(c *gin.Context) {
	params := utils.PaginationFromQuery(c)

	reports, total, err := h.reportService.List(c.Request.Context(), c.Query("status"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, reports, total, params)
}

// PUT /api/admin/reports/:id/status
func (h *AdminHandler) UpdateReportStatus(c *gin.Context) {
	admin, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "report")
	if !ok {
		return
	}

	var req services.UpdateReportStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.reportService.UpdateStatus(c.Request.Context(), admin, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, report)
}

// GET /api/admin/contact-messages
func (h *AdminHandler) ListContactMessages(c *gin.Context) {
	params := utils.PaginationFromQuery(c)

	messages, total, err := h.contactService.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, messages, total, params)
}

// POST /api/admin/contact-messages/:id/reply
// The reply is kept even when the mail cannot be delivered.
func (h *AdminHandler) ReplyContactMessage(c *gin.Context) {
	admin, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "contact")
	if !ok {
		return
	}

	var req services.ReplyContactRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.contactService.Reply(c.Request.Context(), admin, id, &req)
	if err != nil && !errors.Is(err, services.ErrEmailDelivery) {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(utils.GetLangFromContext(c), i18n.KeyContactReplySent),
		"contact":    msg,
		"email_sent": err == nil,
	})
}

