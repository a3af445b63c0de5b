package handlers

import (
	"github.com/intellidoc/backend/internal/service/chat"
	"github.com/intellidoc/backend/internal/service/document"
	"github.com/intellidoc/backend/internal/vectorstore"
	"github.com/intellidoc/backend/pkg/logger"
	"github.com/intellidoc/backend/pkg/notifier"
)

type Handlers struct {
	Document  *DocumentHandler
	Chat      *ChatHandler
	Analytics *AnalyticsHandler
	WS        *WSHandler
}

func NewHandlers(
	documentService document.DocumentManager,
	chatService chat.ChatManager,
	vectors vectorstore.Store,
	events *notifier.RedisNotifier,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Document:  NewDocumentHandler(documentService, log),
		Chat:      NewChatHandler(chatService, log),
		Analytics: NewAnalyticsHandler(vectors, log),
		WS:        NewWSHandler(events, log),
	}
}
