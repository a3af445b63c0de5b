package document

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/intellidoc/backend/internal/models"
	"github.com/intellidoc/backend/internal/store"
	"github.com/intellidoc/backend/internal/vectorstore"
	"github.com/intellidoc/backend/pkg/logger"
	"github.com/intellidoc/backend/pkg/queue"
	"github.com/intellidoc/backend/pkg/storage"
)

// ServiceConfig bounds uploads and sets queue priority.
type ServiceConfig struct {
	MaxFileSize   int64
	AllowedTypes  map[string]string // extension -> canonical content type
	QueuePriority int
	MaxConcurrent int
	// RetentionPeriod is how long original upload files are kept for
	// reprocessing before Cleanup removes them.
	RetentionPeriod time.Duration
}

// DefaultConfig matches the supported extractor inputs.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxFileSize: 50 * 1024 * 1024,
		AllowedTypes: map[string]string{
			".pdf":  "application/pdf",
			".doc":  "application/msword",
			".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			".txt":  "text/plain",
			".md":   "text/markdown",
			".jpg":  "image/jpeg",
			".jpeg": "image/jpeg",
			".png":  "image/png",
			".tiff": "image/tiff",
		},
		QueuePriority:   2,
		MaxConcurrent:   5,
		RetentionPeriod: 30 * 24 * time.Hour,
	}
}

type DocumentService struct {
	docs    store.DocumentStore
	files   storage.Storage
	vectors vectorstore.Store
	queue   queue.Queue
	logger  logger.Logger
	config  *ServiceConfig
}

// NewService wires the document service.
func NewService(
	docs store.DocumentStore,
	files storage.Storage,
	vectors vectorstore.Store,
	q queue.Queue,
	log logger.Logger,
	cfg *ServiceConfig,
) DocumentManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &DocumentService{
		docs:    docs,
		files:   files,
		vectors: vectors,
		queue:   q,
		logger:  log,
		config:  cfg,
	}
}

// Upload validates, stores and registers one file, then enqueues ingestion.
// The returned document is in pending state.
func (s *DocumentService) Upload(ctx context.Context, ownerID string, file multipart.File, header *multipart.FileHeader) (*models.Document, error) {
	contentType, err := s.validate(header)
	if err != nil {
		s.logger.Warn("Upload rejected",
			logger.String("filename", header.Filename),
			logger.Error(err),
		)
		return nil, err
	}

	documentID := uuid.New().String()
	storageKey := fmt.Sprintf("%s/%s%s", ownerID, documentID, strings.ToLower(filepath.Ext(header.Filename)))

	if _, err := s.files.Store(ctx, file, storageKey); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	doc := &models.Document{
		ID:               documentID,
		OwnerID:          ownerID,
		Filename:         header.Filename,
		ContentType:      contentType,
		Size:             header.Size,
		StorageKey:       storageKey,
		ProcessingStatus: models.StatusPending,
		KeyInsights:      []models.Insight{},
		UploadedAt:       time.Now().UTC(),
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if err := s.queue.Enqueue(ctx, &queue.IngestTask{
		DocumentID: documentID,
		OwnerID:    ownerID,
		Priority:   s.config.QueuePriority,
	}); err != nil {
		return nil, fmt.Errorf("failed to enqueue ingestion: %w", err)
	}

	s.logger.Info("Document uploaded",
		logger.String("document_id", documentID),
		logger.String("owner_id", ownerID),
		logger.String("filename", header.Filename),
		logger.Int64("size", header.Size),
	)
	return doc, nil
}

// UploadBatch uploads files concurrently, bounded by MaxConcurrent.
func (s *DocumentService) UploadBatch(ctx context.Context, ownerID string, files []*multipart.FileHeader) ([]*models.Document, error) {
	docs := make([]*models.Document, 0, len(files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrent)

	for _, header := range files {
		header := header
		g.Go(func() error {
			file, err := header.Open()
			if err != nil {
				return fmt.Errorf("failed to open file %s: %w", header.Filename, err)
			}
			defer file.Close()

			doc, err := s.Upload(ctx, ownerID, file, header)
			if err != nil {
				return fmt.Errorf("failed to upload file %s: %w", header.Filename, err)
			}

			mu.Lock()
			docs = append(docs, doc)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return docs, err
	}
	return docs, nil
}

// Get returns the document if it belongs to the owner.
func (s *DocumentService) Get(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	return s.owned(ctx, ownerID, documentID)
}

// List returns the owner's documents.
func (s *DocumentService) List(ctx context.Context, ownerID string) ([]*models.Document, error) {
	return s.docs.ListByOwner(ctx, ownerID)
}

// Delete removes vectors, the stored file and the metadata record, in that
// order so a partial failure never leaves unreachable vectors behind.
func (s *DocumentService) Delete(ctx context.Context, ownerID, documentID string) error {
	doc, err := s.owned(ctx, ownerID, documentID)
	if err != nil {
		return err
	}

	if err := s.vectors.Delete(ctx, vectorstore.NamespaceDocuments, vectorstore.Filter{DocumentID: documentID}); err != nil {
		return fmt.Errorf("failed to delete vectors: %w", err)
	}
	if err := s.files.Delete(ctx, doc.StorageKey); err != nil {
		s.logger.Warn("Failed to delete stored file",
			logger.String("document_id", documentID),
			logger.Error(err),
		)
	}
	if err := s.docs.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	s.logger.Info("Document deleted",
		logger.String("document_id", documentID),
		logger.String("owner_id", ownerID),
	)
	return nil
}

// Reprocess resets the document to pending and re-enqueues ingestion. Chunk
// records are overwritten in place by the pipeline. A run already in flight
// surfaces as queue.ErrDuplicate.
func (s *DocumentService) Reprocess(ctx context.Context, ownerID, documentID string) error {
	if _, err := s.owned(ctx, ownerID, documentID); err != nil {
		return err
	}

	if err := s.queue.Enqueue(ctx, &queue.IngestTask{
		DocumentID: documentID,
		OwnerID:    ownerID,
		Priority:   s.config.QueuePriority,
	}); err != nil {
		return err
	}

	pending := models.StatusPending
	empty := ""
	if _, err := s.docs.Update(ctx, documentID, models.DocumentUpdate{
		ProcessingStatus: &pending,
		Error:            &empty,
	}); err != nil {
		return fmt.Errorf("failed to reset document status: %w", err)
	}
	return nil
}

// JobStatus reports the ingestion job state for the document.
func (s *DocumentService) JobStatus(ctx context.Context, ownerID, documentID string) (*queue.JobStatus, error) {
	if _, err := s.owned(ctx, ownerID, documentID); err != nil {
		return nil, err
	}
	return s.queue.Status(ctx, documentID)
}

// Cleanup removes stored upload files older than the retention period.
// Extracted text, summaries and vectors survive; only reprocessing becomes
// unavailable for documents past retention.
func (s *DocumentService) Cleanup(ctx context.Context) error {
	threshold := time.Now().Add(-s.config.RetentionPeriod)

	if err := s.files.CleanupBefore(ctx, threshold); err != nil {
		return fmt.Errorf("failed to cleanup storage: %w", err)
	}

	s.logger.Info("Completed upload file cleanup",
		logger.Time("threshold", threshold),
	)
	return nil
}

// owned loads a document and checks ownership.
func (s *DocumentService) owned(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return doc, nil
}

// validate checks extension and size, returning the canonical content type.
func (s *DocumentService) validate(header *multipart.FileHeader) (string, error) {
	if header.Size > s.config.MaxFileSize {
		return "", fmt.Errorf("file size exceeds maximum limit of %d bytes", s.config.MaxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := s.config.AllowedTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
	return contentType, nil
}
