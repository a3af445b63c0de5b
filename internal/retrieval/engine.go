package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/intellidoc/backend/internal/vectorstore"
	"github.com/intellidoc/backend/pkg/logger"
)

// GoodDistance is the relevance threshold. Chunks at or beyond it are still
// usable as a last resort but never preferred.
const GoodDistance = 0.8

// Context assembly limits per flow.
const (
	chatGoodLimit   = 3
	chatRawLimit    = 2
	directGoodLimit = 4
	directRawLimit  = 3
)

// Embedder turns query text into a vector.
type Embedder interface {
	Generate(ctx context.Context, texts []string) ([][]float32, error)
}

// Engine embeds queries and searches the vector store.
type Engine struct {
	embedder Embedder
	store    vectorstore.Store
	logger   logger.Logger
}

// New creates a retrieval engine.
func New(embedder Embedder, store vectorstore.Store, log logger.Logger) *Engine {
	return &Engine{embedder: embedder, store: store, logger: log}
}

// Search embeds the query and returns the k nearest document chunks for the
// owner, optionally restricted to a single document.
func (e *Engine) Search(ctx context.Context, query, ownerID, documentID string, k int) ([]vectorstore.Result, error) {
	vectors, err := e.embedder.Generate(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	filter := vectorstore.Filter{OwnerID: ownerID, DocumentID: documentID}
	results, err := e.store.Query(ctx, vectorstore.NamespaceDocuments, vectors[0], k, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}

	e.logger.Debug("Document search completed",
		logger.String("owner_id", ownerID),
		logger.Int("results", len(results)),
	)
	return results, nil
}

// ChatHistory returns the k nearest stored chat turns for a conversation.
func (e *Engine) ChatHistory(ctx context.Context, query, chatID string, k int) ([]vectorstore.Result, error) {
	vectors, err := e.embedder.Generate(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := e.store.Query(ctx, vectorstore.NamespaceChatContext, vectors[0], k, vectorstore.Filter{ChatID: chatID})
	if err != nil {
		return nil, fmt.Errorf("failed to search chat context: %w", err)
	}
	return results, nil
}

// ChatContext assembles the QA context for the chat flow: the top 3
// relevant chunks, or the top 2 of whatever matched when nothing clears the
// threshold.
func ChatContext(results []vectorstore.Result) string {
	return assemble(results, chatGoodLimit, chatRawLimit)
}

// DirectContext assembles the QA context for the direct-question flow: the
// top 4 relevant chunks, or the top 3 raw matches.
func DirectContext(results []vectorstore.Result) string {
	return assemble(results, directGoodLimit, directRawLimit)
}

// assemble joins chunk texts with single spaces. Results arrive ordered by
// ascending distance; a non-empty result set always yields a non-empty
// context even when every match is past the threshold.
func assemble(results []vectorstore.Result, goodLimit, rawLimit int) string {
	var good []string
	for _, r := range results {
		if r.Distance < GoodDistance {
			good = append(good, r.Text)
		}
		if len(good) == goodLimit {
			break
		}
	}

	if len(good) > 0 {
		return strings.Join(good, " ")
	}

	limit := rawLimit
	if limit > len(results) {
		limit = len(results)
	}
	raw := make([]string, 0, limit)
	for _, r := range results[:limit] {
		raw = append(raw, r.Text)
	}
	return strings.Join(raw, " ")
}
