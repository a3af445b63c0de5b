package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellidoc/backend/internal/models"
	"github.com/intellidoc/backend/internal/retrieval"
	"github.com/intellidoc/backend/internal/vectorstore"
	"github.com/intellidoc/backend/pkg/logger"
)

type fixedEmbedder struct {
	vector []float32
}

func (f *fixedEmbedder) Generate(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = f.vector
	}
	return vectors, nil
}

type echoAnswerer struct {
	lastContext string
}

func (e *echoAnswerer) Answer(_ context.Context, question, contextText string) models.QAResult {
	e.lastContext = contextText
	return models.QAResult{Answer: "answer to " + question, Confidence: 0.8, Model: "test"}
}

func newChatEnv(t *testing.T) (*ChatService, *vectorstore.MemoryStore, *echoAnswerer) {
	t.Helper()
	store := vectorstore.NewMemoryStore(2, "test")
	embedder := &fixedEmbedder{vector: []float32{1, 0}}
	answerer := &echoAnswerer{}
	engine := retrieval.New(embedder, store, logger.NewTestLogger())
	svc := NewService(engine, embedder, store, answerer, logger.NewTestLogger()).(*ChatService)
	return svc, store, answerer
}

func addChunk(t *testing.T, store *vectorstore.MemoryStore, id, owner, doc, text string, vector []float32) {
	t.Helper()
	require.NoError(t, store.Add(context.Background(), vectorstore.NamespaceDocuments, []vectorstore.Record{{
		ID: id, Vector: vector, Text: text,
		Payload: map[string]any{"owner_id": owner, "document_id": doc},
	}}))
}

func TestAskUsesDocumentContext(t *testing.T) {
	svc, store, answerer := newChatEnv(t)
	ctx := context.Background()

	addChunk(t, store, "d1_chunk_0", "u1", "d1", "relevant chunk", []float32{1, 0})

	result, err := svc.Ask(ctx, "u1", "what is in the report?", "")
	require.NoError(t, err)

	assert.Equal(t, "answer to what is in the report?", result.Answer)
	assert.Equal(t, "relevant chunk", answerer.lastContext)
}

func TestMessageStoresTurn(t *testing.T) {
	svc, store, _ := newChatEnv(t)
	ctx := context.Background()

	addChunk(t, store, "d1_chunk_0", "u1", "d1", "doc text", []float32{1, 0})

	_, err := svc.Message(ctx, "u1", "chat1", "first question", "")
	require.NoError(t, err)

	results, err := store.Query(ctx, vectorstore.NamespaceChatContext,
		[]float32{1, 0}, 10, vectorstore.Filter{ChatID: "chat1"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.True(t, strings.HasPrefix(results[0].ID, "chat1_"))
	assert.Contains(t, results[0].Text, "Q: first question")
	assert.Contains(t, results[0].Text, "A: answer to first question")
}

func TestMessageFallsBackToChatHistory(t *testing.T) {
	svc, store, answerer := newChatEnv(t)
	ctx := context.Background()

	// No document chunks: the first turn stores history, the second
	// retrieves it.
	_, err := svc.Message(ctx, "u1", "chat1", "first question", "")
	require.NoError(t, err)
	assert.Empty(t, answerer.lastContext)

	_, err = svc.Message(ctx, "u1", "chat1", "second question", "")
	require.NoError(t, err)
	assert.Contains(t, answerer.lastContext, "Q: first question")

	results, err := store.Query(ctx, vectorstore.NamespaceChatContext,
		[]float32{1, 0}, 10, vectorstore.Filter{ChatID: "chat1"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestClearContextRemovesOnlyThatChat(t *testing.T) {
	svc, store, _ := newChatEnv(t)
	ctx := context.Background()

	_, err := svc.Message(ctx, "u1", "chat1", "q1", "")
	require.NoError(t, err)
	_, err = svc.Message(ctx, "u1", "chat2", "q2", "")
	require.NoError(t, err)

	require.NoError(t, svc.ClearContext(ctx, "u1", "chat1"))
	// Clearing again is a no-op.
	require.NoError(t, svc.ClearContext(ctx, "u1", "chat1"))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Collections[string(vectorstore.NamespaceChatContext)])
}

func TestAskScopedToDocument(t *testing.T) {
	svc, store, answerer := newChatEnv(t)
	ctx := context.Background()

	addChunk(t, store, "d1_chunk_0", "u1", "d1", "first doc", []float32{1, 0})
	addChunk(t, store, "d2_chunk_0", "u1", "d2", "second doc", []float32{1, 0})

	_, err := svc.Ask(ctx, "u1", "question", "d2")
	require.NoError(t, err)
	assert.Equal(t, "second doc", answerer.lastContext)
}
