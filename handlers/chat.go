package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"amanthos/services/assistant"
	"amanthos/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxChatMessageLength = 2000

// ChatHandler serves guest turns of the AI booking assistant.
type ChatHandler struct {
	Assistant assistant.Service
	Logger    *zap.Logger
}

func NewChatHandler(svc assistant.Service, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{Assistant: svc, Logger: logger}
}

func (h *ChatHandler) ChatTurnHandler(c *gin.Context) {
	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		utils.JSONError(c, http.StatusBadRequest, "Message is required")
		return
	}
	// Limit counts characters, not bytes; umlauts must not shrink the budget.
	if utf8.RuneCountInString(message) > maxChatMessageLength {
		utils.JSONError(c, http.StatusBadRequest, "Message too long (max 2000 characters)")
		return
	}

	reply, sessionID, err := h.Assistant.Chat(c.Request.Context(), req.SessionID, message)
	if err != nil {
		h.Logger.Error("Chat turn failed", zap.String("session", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Chat service temporarily unavailable. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply":      reply,
		"session_id": sessionID,
	})
}
