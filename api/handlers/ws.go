package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/intellidoc/backend/api/middleware"
	"github.com/intellidoc/backend/pkg/logger"
	"github.com/intellidoc/backend/pkg/notifier"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// WSHandler bridges the owner's notification channel to a websocket so
// clients see processing events live.
type WSHandler struct {
	events   *notifier.RedisNotifier
	upgrader websocket.Upgrader
	logger   logger.Logger
}

func NewWSHandler(events *notifier.RedisNotifier, log logger.Logger) *WSHandler {
	return &WSHandler{
		events: events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is enforced by the CORS middleware.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		logger: log,
	}
}

// Connect upgrades the request and streams notification events until the
// client disconnects.
func (h *WSHandler) Connect(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed",
			logger.String("owner_id", ownerID),
			logger.Error(err),
		)
		return
	}
	defer conn.Close()

	sub := h.events.Subscribe(c.Request.Context(), ownerID)
	defer sub.Close()

	h.logger.Info("Websocket connected", logger.String("owner_id", ownerID))

	// Drain client frames so close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	events := sub.Channel()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
