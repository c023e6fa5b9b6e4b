// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Piyush5621/AnarchyBay/internal/i18n"
	"github.com/Piyush5621/AnarchyBay/internal/services"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

// respondError maps service errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var notFound *services.NotFoundError
	var invalid *services.ValidationError

	switch {
	case errors.As(err, &invalid):
		utils.BadRequestResponse(c, invalid.Message, nil)
	case errors.As(err, &notFound):
		utils.Fail(c, http.StatusNotFound, i18n.T(lang, notFound.Resource+".not_found"))
	case errors.Is(err, services.ErrNotFound):
		utils.Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		message := err.Error()
		if err == services.ErrUnauthorized {
			message = i18n.T(lang, i18n.KeyAuthInvalidCredentials)
		}
		utils.UnauthorizedResponse(c, message)
	case errors.Is(err, services.ErrAccountDisabled):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthAccountDisabled))
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.Fail(c, http.StatusConflict, i18n.T(lang, i18n.KeyAuthUserExists))
	case errors.Is(err, services.ErrInvalidSignature):
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_SIGNATURE", i18n.T(lang, i18n.KeyPaymentInvalidSignature), nil)
	case errors.Is(err, services.ErrPaymentNotCompleted):
		utils.ErrorResponse(c, http.StatusBadRequest, "PAYMENT_NOT_COMPLETED", i18n.T(lang, i18n.KeyPaymentNotCompleted), err.Error())
	case errors.Is(err, services.ErrOrderCreation):
		utils.ErrorResponse(c, http.StatusBadGateway, "ORDER_CREATION_FAILED", i18n.T(lang, i18n.KeyPaymentOrderFailed), nil)
	case errors.Is(err, services.ErrProviderDisabled):
		utils.Fail(c, http.StatusServiceUnavailable, i18n.T(lang, i18n.KeyPaymentUnavailable))
	case errors.Is(err, services.ErrChatDisabled):
		utils.Fail(c, http.StatusServiceUnavailable, i18n.T(lang, i18n.KeyChatDisabled))
	case errors.Is(err, services.ErrStorageDisabled):
		utils.Fail(c, http.StatusServiceUnavailable, err.Error())
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		utils.InternalErrorResponse(c)
	}
}

// bindJSON binds and validates the body; on failure the response is written.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func paramUUID(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, resource+" ID"), nil)
		return uuid.Nil, false
	}
	return id, true
}

// actorFrom returns the caller, anonymous when no identity is set.
func actorFrom(c *gin.Context) services.Actor {
	id, ok := utils.GetUserUUID(c)
	if !ok {
		return services.Actor{}
	}
	return services.NewActor(id, utils.GetRolesFromContext(c))
}

// requireActor is used behind AuthRequired; it still guards against a
// missing identity.
func requireActor(c *gin.Context) (services.Actor, bool) {
	actor := actorFrom(c)
	if actor.Anonymous() {
		utils.UnauthorizedResponse(c, "")
		return actor, false
	}
	return actor, true
}
