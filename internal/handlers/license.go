// internal/handlers/license.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Piyush5621/AnarchyBay/internal/services"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type LicenseHandler struct {
	licenseService *services.LicenseService
}

func NewLicenseHandler(licenseService *services.LicenseService) *LicenseHandler {
	return &LicenseHandler{licenseService: licenseService}
}

// POST /api/licenses/verify
func (h *LicenseHandler) Verify(c *gin.Context) {
	var req services.VerifyLicenseRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.licenseService.Verify(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}
