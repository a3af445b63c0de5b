package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/intellidoc/backend/api/middleware"
	"github.com/intellidoc/backend/internal/service/chat"
	"github.com/intellidoc/backend/pkg/logger"
)

type ChatHandler struct {
	service chat.ChatManager
	logger  logger.Logger
}

func NewChatHandler(service chat.ChatManager, log logger.Logger) *ChatHandler {
	return &ChatHandler{service: service, logger: log}
}

type askRequest struct {
	Question   string `json:"question" binding:"required"`
	DocumentID string `json:"documentId"`
}

// Ask answers a one-off question over the caller's documents.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.Ask(c.Request.Context(), middleware.OwnerID(c), req.Question, req.DocumentID)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to answer question", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Message answers a question inside a conversation and records the turn.
func (h *ChatHandler) Message(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.Message(c.Request.Context(),
		middleware.OwnerID(c), c.Param("chatId"), req.Question, req.DocumentID)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to answer question", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClearContext deletes the stored turns of a conversation.
func (h *ChatHandler) ClearContext(c *gin.Context) {
	err := h.service.ClearContext(c.Request.Context(), middleware.OwnerID(c), c.Param("chatId"))
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to clear chat context", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat context cleared"})
}

func (h *ChatHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.logger.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{Message: message}
	if err != nil {
		response.Error = err.Error()
	}
	c.JSON(status, response)
}
