package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/intellidoc/backend/internal/models"
	"github.com/intellidoc/backend/internal/retrieval"
	"github.com/intellidoc/backend/internal/vectorstore"
	"github.com/intellidoc/backend/pkg/logger"
)

// Search depth for retrieval; context assembly trims further.
const searchLimit = 5

// Answerer runs the QA chain over an assembled context.
type Answerer interface {
	Answer(ctx context.Context, question, contextText string) models.QAResult
}

// ChatManager answers questions over a user's documents and keeps
// conversation turns searchable.
type ChatManager interface {
	Ask(ctx context.Context, ownerID, question, documentID string) (*models.QAResult, error)
	Message(ctx context.Context, ownerID, chatID, question, documentID string) (*models.QAResult, error)
	ClearContext(ctx context.Context, ownerID, chatID string) error
}

type ChatService struct {
	engine   *retrieval.Engine
	embedder retrieval.Embedder
	vectors  vectorstore.Store
	answerer Answerer
	logger   logger.Logger
}

// NewService wires the chat service.
func NewService(
	engine *retrieval.Engine,
	embedder retrieval.Embedder,
	vectors vectorstore.Store,
	answerer Answerer,
	log logger.Logger,
) ChatManager {
	return &ChatService{
		engine:   engine,
		embedder: embedder,
		vectors:  vectors,
		answerer: answerer,
		logger:   log,
	}
}

// Ask answers a one-off question over the owner's documents with the wider
// direct-QA context.
func (s *ChatService) Ask(ctx context.Context, ownerID, question, documentID string) (*models.QAResult, error) {
	results, err := s.engine.Search(ctx, question, ownerID, documentID, searchLimit)
	if err != nil {
		return nil, err
	}

	result := s.answerer.Answer(ctx, question, retrieval.DirectContext(results))
	return &result, nil
}

// Message answers a question inside a conversation. Retrieval prefers the
// owner's documents and falls back to prior turns of the same chat; the new
// turn is stored for future retrieval.
func (s *ChatService) Message(ctx context.Context, ownerID, chatID, question, documentID string) (*models.QAResult, error) {
	results, err := s.engine.Search(ctx, question, ownerID, documentID, searchLimit)
	if err != nil {
		return nil, err
	}

	contextText := retrieval.ChatContext(results)
	if contextText == "" {
		history, err := s.engine.ChatHistory(ctx, question, chatID, searchLimit)
		if err != nil {
			return nil, err
		}
		contextText = retrieval.ChatContext(history)
	}

	result := s.answerer.Answer(ctx, question, contextText)

	if err := s.storeTurn(ctx, ownerID, chatID, question, result.Answer); err != nil {
		// The answer is already produced; losing one history record only
		// degrades future retrieval.
		s.logger.Warn("Failed to store chat turn",
			logger.String("chat_id", chatID),
			logger.Error(err),
		)
	}

	return &result, nil
}

// ClearContext deletes every stored turn of a conversation. Clearing an
// unknown chat is a no-op.
func (s *ChatService) ClearContext(ctx context.Context, ownerID, chatID string) error {
	return s.vectors.Delete(ctx, vectorstore.NamespaceChatContext, vectorstore.Filter{
		OwnerID: ownerID,
		ChatID:  chatID,
	})
}

func (s *ChatService) storeTurn(ctx context.Context, ownerID, chatID, question, answer string) error {
	turn := fmt.Sprintf("Q: %s A: %s", question, answer)
	vectors, err := s.embedder.Generate(ctx, []string{turn})
	if err != nil {
		return fmt.Errorf("failed to embed chat turn: %w", err)
	}

	return s.vectors.Add(ctx, vectorstore.NamespaceChatContext, []vectorstore.Record{{
		ID:     fmt.Sprintf("%s_%s", chatID, uuid.New().String()),
		Vector: vectors[0],
		Text:   turn,
		Payload: map[string]any{
			"owner_id":  ownerID,
			"chat_id":   chatID,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}})
}
