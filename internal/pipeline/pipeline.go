package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/intellidoc/backend/internal/chunker"
	"github.com/intellidoc/backend/internal/models"
	"github.com/intellidoc/backend/internal/store"
	"github.com/intellidoc/backend/internal/vectorstore"
	"github.com/intellidoc/backend/pkg/logger"
	"github.com/intellidoc/backend/pkg/storage"
)

// ErrNoMeaningfulText rejects documents whose extracted text is too short
// to index.
var ErrNoMeaningfulText = errors.New("no meaningful text could be extracted from the document")

const minTextLength = 10

// TextExtractor pulls plain text out of an uploaded file.
type TextExtractor interface {
	Extract(ctx context.Context, r io.Reader, contentType string) (string, error)
}

// Embedder turns chunk texts into vectors.
type Embedder interface {
	Generate(ctx context.Context, texts []string) ([][]float32, error)
}

// Summarizer produces the summary and insights. Both operations degrade
// internally and never fail the pipeline.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
	ExtractInsights(ctx context.Context, text string) []models.Insight
}

// Pipeline drives a document from uploaded file to searchable chunks:
// load → extract → summarize/insights → chunk → embed → store vectors.
// Status moves pending → processing → completed or failed, with no retries.
type Pipeline struct {
	docs       store.DocumentStore
	files      storage.Storage
	extractor  TextExtractor
	chunker    *chunker.Chunker
	embedder   Embedder
	summarizer Summarizer
	vectors    vectorstore.Store
	logger     logger.Logger
}

// New wires the pipeline.
func New(
	docs store.DocumentStore,
	files storage.Storage,
	extractor TextExtractor,
	ch *chunker.Chunker,
	embedder Embedder,
	summarizer Summarizer,
	vectors vectorstore.Store,
	log logger.Logger,
) *Pipeline {
	return &Pipeline{
		docs:       docs,
		files:      files,
		extractor:  extractor,
		chunker:    ch,
		embedder:   embedder,
		summarizer: summarizer,
		vectors:    vectors,
		logger:     log,
	}
}

// ChunkID names the vector record for one chunk of a document. Re-ingesting
// the same document overwrites these records in place.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}

// Process ingests one document end to end.
func (p *Pipeline) Process(ctx context.Context, documentID string) error {
	doc, err := p.docs.Get(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	if err := p.setStatus(ctx, documentID, models.StatusProcessing); err != nil {
		return err
	}

	text, err := p.extractText(ctx, doc)
	if err != nil {
		return p.fail(ctx, documentID, err)
	}

	// Neither summarization nor insight extraction can fail the run.
	summary := p.summarizer.Summarize(ctx, text)
	insights := p.summarizer.ExtractInsights(ctx, text)

	chunks := p.chunker.Chunk(text)
	vectors, err := p.embedder.Generate(ctx, chunker.Texts(chunks))
	if err != nil {
		return p.fail(ctx, documentID, fmt.Errorf("failed to embed chunks: %w", err))
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = vectorstore.Record{
			ID:     ChunkID(documentID, chunk.Index),
			Vector: vectors[i],
			Text:   chunk.Text,
			Payload: map[string]any{
				"owner_id":    doc.OwnerID,
				"document_id": documentID,
				"chunk_index": chunk.Index,
				"filename":    doc.Filename,
			},
		}
	}
	if err := p.vectors.Add(ctx, vectorstore.NamespaceDocuments, records); err != nil {
		return p.fail(ctx, documentID, fmt.Errorf("failed to store vectors: %w", err))
	}

	completed := models.StatusCompleted
	stored := true
	now := time.Now().UTC()
	metadata := models.ProcessingMetadata{
		TextLength:  len(text),
		WordCount:   len(strings.Fields(text)),
		ChunksCount: len(chunks),
	}
	_, err = p.docs.Update(ctx, documentID, models.DocumentUpdate{
		ProcessingStatus: &completed,
		ExtractedText:    &text,
		Summary:          &summary,
		KeyInsights:      insights,
		Metadata:         &metadata,
		EmbeddingsStored: &stored,
		ProcessedAt:      &now,
	})
	if err != nil {
		return fmt.Errorf("failed to finalize document: %w", err)
	}

	p.logger.Info("Document ingested",
		logger.String("document_id", documentID),
		logger.Int("chunks", len(chunks)),
		logger.Int("text_length", metadata.TextLength),
	)
	return nil
}

func (p *Pipeline) extractText(ctx context.Context, doc *models.Document) (string, error) {
	reader, err := p.files.Get(ctx, doc.StorageKey)
	if err != nil {
		return "", fmt.Errorf("failed to load file: %w", err)
	}
	defer reader.Close()

	text, err := p.extractor.Extract(ctx, reader, doc.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	text = strings.TrimSpace(text)
	if len(text) < minTextLength {
		return "", ErrNoMeaningfulText
	}
	return text, nil
}

func (p *Pipeline) setStatus(ctx context.Context, documentID string, status models.ProcessingStatus) error {
	_, err := p.docs.Update(ctx, documentID, models.DocumentUpdate{ProcessingStatus: &status})
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// fail records the failure on the document and propagates the cause.
// Partial vector writes are left in place; a re-ingest or delete clears
// them by document filter.
func (p *Pipeline) fail(ctx context.Context, documentID string, cause error) error {
	failed := models.StatusFailed
	msg := cause.Error()
	now := time.Now().UTC()
	if _, err := p.docs.Update(ctx, documentID, models.DocumentUpdate{
		ProcessingStatus: &failed,
		Error:            &msg,
		ProcessedAt:      &now,
	}); err != nil {
		p.logger.Error("Failed to record ingestion failure",
			logger.String("document_id", documentID),
			logger.Error(err),
		)
	}

	p.logger.Warn("Document ingestion failed",
		logger.String("document_id", documentID),
		logger.Error(cause),
	)
	return cause
}
