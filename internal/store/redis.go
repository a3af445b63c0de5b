package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/intellidoc/backend/internal/models"
)

const (
	docKeyPrefix   = "doc:"
	ownerKeyPrefix = "docs:owner:"
)

// RedisStore keeps document metadata as JSON values with a per-owner index
// set.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func docKey(id string) string      { return docKeyPrefix + id }
func ownerKey(owner string) string { return ownerKeyPrefix + owner }

func (s *RedisStore) Create(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, docKey(doc.ID), data, 0)
	pipe.SAdd(ctx, ownerKey(doc.OwnerID), doc.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Document, error) {
	data, err := s.client.Get(ctx, docKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, update models.DocumentUpdate) (*models.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(doc, update)

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := s.client.Set(ctx, docKey(id), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return doc, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, docKey(id))
	pipe.SRem(ctx, ownerKey(doc.OwnerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (s *RedisStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.Document, error) {
	ids, err := s.client.SMembers(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]*models.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Get(ctx, id)
		if err == ErrNotFound {
			// Index entry outlived the document; skip it.
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// applyUpdate copies non-nil update fields onto the document.
func applyUpdate(doc *models.Document, update models.DocumentUpdate) {
	if update.ProcessingStatus != nil {
		doc.ProcessingStatus = *update.ProcessingStatus
	}
	if update.ExtractedText != nil {
		doc.ExtractedText = *update.ExtractedText
	}
	if update.Summary != nil {
		doc.Summary = *update.Summary
	}
	if update.KeyInsights != nil {
		doc.KeyInsights = update.KeyInsights
	}
	if update.Metadata != nil {
		doc.Metadata = *update.Metadata
	}
	if update.EmbeddingsStored != nil {
		doc.EmbeddingsStored = *update.EmbeddingsStored
	}
	if update.Error != nil {
		doc.Error = *update.Error
	}
	if update.ProcessedAt != nil {
		doc.ProcessedAt = update.ProcessedAt
	}
}
