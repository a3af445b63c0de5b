package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/intellidoc/backend/internal/vectorstore"
	"github.com/intellidoc/backend/pkg/logger"
)

type AnalyticsHandler struct {
	vectors vectorstore.Store
	logger  logger.Logger
}

func NewAnalyticsHandler(vectors vectorstore.Store, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{vectors: vectors, logger: log}
}

// Vectors reports per-collection point counts and the embedding model.
func (h *AnalyticsHandler) Vectors(c *gin.Context) {
	stats, err := h.vectors.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get vector stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   err.Error(),
			Message: "Failed to get vector stats",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
