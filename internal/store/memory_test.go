package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellidoc/backend/internal/models"
)

func newDoc(id, owner string) *models.Document {
	return &models.Document{
		ID:               id,
		OwnerID:          owner,
		Filename:         "report.pdf",
		ContentType:      "application/pdf",
		ProcessingStatus: models.StatusPending,
		UploadedAt:       time.Now(),
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newDoc("d1", "u1")))

	doc, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", doc.Filename)

	require.NoError(t, s.Delete(ctx, "d1"))
	_, err = s.Get(ctx, "d1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "d1"), ErrNotFound)
}

func TestMemoryStoreUpdateAppliesOnlySetFields(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newDoc("d1", "u1")))

	status := models.StatusCompleted
	summary := "a summary"
	updated, err := s.Update(ctx, "d1", models.DocumentUpdate{
		ProcessingStatus: &status,
		Summary:          &summary,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, updated.ProcessingStatus)
	assert.Equal(t, "a summary", updated.Summary)
	// Untouched fields keep their values.
	assert.Equal(t, "report.pdf", updated.Filename)
	assert.False(t, updated.EmbeddingsStored)
}

func TestMemoryStoreListByOwner(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newDoc("d1", "u1")))
	require.NoError(t, s.Create(ctx, newDoc("d2", "u1")))
	require.NoError(t, s.Create(ctx, newDoc("d3", "u2")))

	docs, err := s.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newDoc("d1", "u1")))

	doc, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	doc.Summary = "mutated"

	fresh, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, fresh.Summary)
}
