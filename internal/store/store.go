package store

import (
	"context"
	"errors"

	"github.com/intellidoc/backend/internal/models"
)

// ErrNotFound is returned when no document exists for the given id.
var ErrNotFound = errors.New("document not found")

// DocumentStore persists document metadata. It records whatever the caller
// hands it; pipeline state transitions are the pipeline's business.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, id string) (*models.Document, error)
	Update(ctx context.Context, id string, update models.DocumentUpdate) (*models.Document, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Document, error)
}
