package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/intellidoc/backend/api/handlers"
	"github.com/intellidoc/backend/api/middleware"
)

// SetupRoutes registers the HTTP surface.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, allowOrigins []string) {
	r.Use(middleware.CORS(allowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Identity())

	docs := v1.Group("/documents")
	{
		docs.POST("/upload", h.Document.Upload)
		docs.POST("/batch", h.Document.UploadBatch)
		docs.GET("", h.Document.List)
		docs.GET("/:id", h.Document.Get)
		docs.DELETE("/:id", h.Document.Delete)
		docs.POST("/:id/reprocess", h.Document.Reprocess)
		docs.GET("/:id/status", h.Document.Status)
	}

	chat := v1.Group("/chat")
	{
		chat.POST("/ask", h.Chat.Ask)
		chat.POST("/:chatId/messages", h.Chat.Message)
		chat.DELETE("/:chatId/context", h.Chat.ClearContext)
	}

	v1.GET("/analytics/vectors", h.Analytics.Vectors)
	v1.GET("/ws", h.WS.Connect)
}
