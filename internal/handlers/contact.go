// internal/handlers/contact.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Piyush5621/AnarchyBay/internal/i18n"
	"github.com/Piyush5621/AnarchyBay/internal/services"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req services.SubmitContactRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.contactService.Submit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyContactSubmitted),
		"id":      msg.ID,
	})
}
