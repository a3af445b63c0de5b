package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/intellidoc/backend/api/middleware"
	"github.com/intellidoc/backend/internal/service/document"
	"github.com/intellidoc/backend/internal/store"
	"github.com/intellidoc/backend/pkg/logger"
	"github.com/intellidoc/backend/pkg/queue"
)

type DocumentHandler struct {
	service document.DocumentManager
	logger  logger.Logger
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewDocumentHandler(service document.DocumentManager, log logger.Logger) *DocumentHandler {
	return &DocumentHandler{service: service, logger: log}
}

// Upload accepts one multipart file and schedules ingestion.
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(c.Request.Context(), middleware.OwnerID(c), file, header)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to upload file", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"documentId": doc.ID,
		"filename":   doc.Filename,
		"status":     string(doc.ProcessingStatus),
		"uploadedAt": doc.UploadedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// UploadBatch accepts multiple files under the "files" field.
func (h *DocumentHandler) UploadBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		h.handleError(c, http.StatusBadRequest, "No files provided", nil)
		return
	}

	docs, err := h.service.UploadBatch(c.Request.Context(), middleware.OwnerID(c), files)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to upload files", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"documents": docs,
	})
}

// Get returns document metadata including status, summary and insights.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		h.serviceError(c, "Failed to get document", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// List returns the caller's documents.
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.service.List(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// Delete removes a document, its file and its vectors.
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		h.serviceError(c, "Failed to delete document", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// Reprocess re-runs ingestion for a document.
func (h *DocumentHandler) Reprocess(c *gin.Context) {
	err := h.service.Reprocess(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, queue.ErrDuplicate) {
			h.handleError(c, http.StatusConflict, "Ingestion already in progress", err)
			return
		}
		h.serviceError(c, "Failed to reprocess document", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Reprocessing scheduled"})
}

// Status reports the ingestion job state.
func (h *DocumentHandler) Status(c *gin.Context) {
	status, err := h.service.JobStatus(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		h.serviceError(c, "Failed to get job status", err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// serviceError maps well-known service errors to status codes.
func (h *DocumentHandler) serviceError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.handleError(c, http.StatusNotFound, "Document not found", err)
	case errors.Is(err, document.ErrForbidden):
		h.handleError(c, http.StatusForbidden, "Access denied", err)
	default:
		h.handleError(c, http.StatusInternalServerError, message, err)
	}
}

func (h *DocumentHandler) handleError(c *gin.Context, status int, message string, err error) {
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
