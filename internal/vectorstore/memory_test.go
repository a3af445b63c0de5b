package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docRecord(id, owner, doc, text string, vector []float32) Record {
	return Record{
		ID:     id,
		Vector: vector,
		Text:   text,
		Payload: map[string]any{
			"owner_id":    owner,
			"document_id": doc,
		},
	}
}

func TestMemoryStoreQueryOrderedByDistance(t *testing.T) {
	s := NewMemoryStore(2, "test")
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, NamespaceDocuments, []Record{
		docRecord("a", "u1", "d1", "exact match", []float32{1, 0}),
		docRecord("b", "u1", "d1", "orthogonal", []float32{0, 1}),
		docRecord("c", "u1", "d1", "close", []float32{0.9, 0.1}),
	}))

	results, err := s.Query(ctx, NamespaceDocuments, []float32{1, 0}, 10, Filter{OwnerID: "u1"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "c", results[1].ID)
	assert.Equal(t, "b", results[2].ID)
	assert.InDelta(t, 0, results[0].Distance, 1e-9)
	assert.InDelta(t, 1, results[2].Distance, 1e-9)
}

func TestMemoryStoreFilterByOwnerAndDocument(t *testing.T) {
	s := NewMemoryStore(2, "test")
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, NamespaceDocuments, []Record{
		docRecord("a", "u1", "d1", "", []float32{1, 0}),
		docRecord("b", "u2", "d1", "", []float32{1, 0}),
		docRecord("c", "u1", "d2", "", []float32{1, 0}),
	}))

	results, err := s.Query(ctx, NamespaceDocuments, []float32{1, 0}, 10, Filter{OwnerID: "u1", DocumentID: "d1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
}

func TestMemoryStoreUpsertOverwrites(t *testing.T) {
	s := NewMemoryStore(2, "test")
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, NamespaceDocuments, []Record{
		docRecord("a", "u1", "d1", "old text", []float32{1, 0}),
	}))
	require.NoError(t, s.Add(ctx, NamespaceDocuments, []Record{
		docRecord("a", "u1", "d1", "new text", []float32{0, 1}),
	}))

	results, err := s.Query(ctx, NamespaceDocuments, []float32{0, 1}, 10, Filter{OwnerID: "u1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new text", results[0].Text)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Collections[string(NamespaceDocuments)])
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	s := NewMemoryStore(2, "test")
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, NamespaceDocuments, []Record{
		docRecord("a", "u1", "d1", "", []float32{1, 0}),
	}))

	require.NoError(t, s.Delete(ctx, NamespaceDocuments, Filter{DocumentID: "d1"}))
	// Deleting again is a no-op, not an error.
	require.NoError(t, s.Delete(ctx, NamespaceDocuments, Filter{DocumentID: "d1"}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stats.Collections[string(NamespaceDocuments)])
}

func TestMemoryStoreNamespacesIsolated(t *testing.T) {
	s := NewMemoryStore(2, "test")
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, NamespaceDocuments, []Record{
		docRecord("a", "u1", "d1", "doc chunk", []float32{1, 0}),
	}))
	require.NoError(t, s.Add(ctx, NamespaceChatContext, []Record{
		{
			ID:      "m1",
			Vector:  []float32{1, 0},
			Text:    "chat message",
			Payload: map[string]any{"owner_id": "u1", "chat_id": "c1"},
		},
	}))

	results, err := s.Query(ctx, NamespaceChatContext, []float32{1, 0}, 10, Filter{OwnerID: "u1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "chat message", results[0].Text)
}
