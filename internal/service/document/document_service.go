package document

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/intellidoc/backend/internal/models"
	"github.com/intellidoc/backend/pkg/queue"
)

// ErrForbidden is returned when a document exists but belongs to a
// different owner.
var ErrForbidden = errors.New("document belongs to another user")

// DocumentManager is the API-facing document service.
type DocumentManager interface {
	Upload(ctx context.Context, ownerID string, file multipart.File, header *multipart.FileHeader) (*models.Document, error)
	UploadBatch(ctx context.Context, ownerID string, files []*multipart.FileHeader) ([]*models.Document, error)
	Get(ctx context.Context, ownerID, documentID string) (*models.Document, error)
	List(ctx context.Context, ownerID string) ([]*models.Document, error)
	Delete(ctx context.Context, ownerID, documentID string) error
	Reprocess(ctx context.Context, ownerID, documentID string) error
	JobStatus(ctx context.Context, ownerID, documentID string) (*queue.JobStatus, error)
	Cleanup(ctx context.Context) error
}
