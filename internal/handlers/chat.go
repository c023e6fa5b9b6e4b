// internal/handlers/chat.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Piyush5621/AnarchyBay/internal/i18n"
	"github.com/Piyush5621/AnarchyBay/internal/services"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// POST /api/chat
// Generator failures keep the {reply} shape so the widget can render them.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req services.ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.chatService.Reply(c.Request.Context(), &req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, services.ErrChatDisabled), errors.Is(err, services.ErrValidation):
		respondError(c, err)
	default:
		logrus.WithError(err).Error("Assistant request failed")
		c.JSON(http.StatusInternalServerError, services.ChatResponse{
			Reply: i18n.T(utils.GetLangFromContext(c), i18n.KeyChatConnectionError),
		})
	}
}
