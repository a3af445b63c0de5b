package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func resultsWithDistances(distances ...float64) []vectorstore.Result {
	results := make([]vectorstore.Result, len(distances))
	for i, d := range distances {
		results[i] = vectorstore.Result{
			ID:       string(rune('a' + i)),
			Text:     "chunk" + string(rune('0'+i)),
			Distance: d,
		}
	}
	return results
}

func TestChatContextPrefersGoodChunks(t *testing.T) {
	results := resultsWithDistances(0.2, 0.5, 0.9, 0.95)
	assert.Equal(t, "chunk0 chunk1", ChatContext(results))
}

func TestChatContextFallsBackToRaw(t *testing.T) {
	results := resultsWithDistances(0.85, 0.9, 0.95)
	assert.Equal(t, "chunk0 chunk1", ChatContext(results))
}

func TestChatContextCapsGoodAtThree(t *testing.T) {
	results := resultsWithDistances(0.1, 0.2, 0.3, 0.4)
	assert.Equal(t, "chunk0 chunk1 chunk2", ChatContext(results))
}

func TestDirectContextCapsGoodAtFour(t *testing.T) {
	results := resultsWithDistances(0.1, 0.2, 0.3, 0.4, 0.5)
	assert.Equal(t, "chunk0 chunk1 chunk2 chunk3", DirectContext(results))
}

func TestDirectContextFallsBackToRaw(t *testing.T) {
	results := resultsWithDistances(0.8, 0.9, 0.95, 0.99)
	assert.Equal(t, "chunk0 chunk1 chunk2", DirectContext(results))
}

func TestContextEmptyResults(t *testing.T) {
	assert.Equal(t, "", ChatContext(nil))
	assert.Equal(t, "", DirectContext(nil))
}

func TestSearchFiltersByOwner(t *testing.T) {
	store := vectorstore.NewMemoryStore(2, "test")
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, vectorstore.NamespaceDocuments, []vectorstore.Record{
		{ID: "d1_chunk_0", Vector: []float32{1, 0}, Text: "mine",
			Payload: map[string]any{"owner_id": "u1", "document_id": "d1"}},
		{ID: "d2_chunk_0", Vector: []float32{1, 0}, Text: "theirs",
			Payload: map[string]any{"owner_id": "u2", "document_id": "d2"}},
	}))

	engine := New(&fixedEmbedder{vector: []float32{1, 0}}, store, logger.NewTestLogger())

	results, err := engine.Search(ctx, "query", "u1", "", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "mine", results[0].Text)
}

func TestChatHistorySearchesChatNamespace(t *testing.T) {
	store := vectorstore.NewMemoryStore(2, "test")
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, vectorstore.NamespaceChatContext, []vectorstore.Record{
		{ID: "c1_m1", Vector: []float32{1, 0}, Text: "Q: hi A: hello",
			Payload: map[string]any{"owner_id": "u1", "chat_id": "c1"}},
		{ID: "c2_m1", Vector: []float32{1, 0}, Text: "other chat",
			Payload: map[string]any{"owner_id": "u1", "chat_id": "c2"}},
	}))

	engine := New(&fixedEmbedder{vector: []float32{1, 0}}, store, logger.NewTestLogger())

	results, err := engine.ChatHistory(ctx, "hi", "c1", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Q: hi A: hello", results[0].Text)
}
