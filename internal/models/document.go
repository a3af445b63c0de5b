package models

import (
	"time"
)

// ProcessingStatus tracks a document through the ingestion lifecycle.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Document is the persisted metadata record for an uploaded file.
// It is mutated only by the ingestion pipeline and the metadata store.
type Document struct {
	ID               string             `json:"id"`
	OwnerID          string             `json:"ownerId"`
	Filename         string             `json:"filename"`
	ContentType      string             `json:"contentType"`
	Size             int64              `json:"size"`
	StorageKey       string             `json:"storageKey"`
	ProcessingStatus ProcessingStatus   `json:"processingStatus"`
	ExtractedText    string             `json:"extractedText,omitempty"`
	Summary          string             `json:"summary,omitempty"`
	KeyInsights      []Insight          `json:"keyInsights"`
	Metadata         ProcessingMetadata `json:"metadata"`
	EmbeddingsStored bool               `json:"embeddingsStored"`
	Error            string             `json:"error,omitempty"`
	UploadedAt       time.Time          `json:"uploadedAt"`
	ProcessedAt      *time.Time         `json:"processedAt,omitempty"`
}

// ProcessingMetadata captures text statistics produced during ingestion.
type ProcessingMetadata struct {
	TextLength  int `json:"textLength"`
	WordCount   int `json:"wordCount"`
	ChunksCount int `json:"chunksCount"`
}

// DocumentUpdate carries the fields the ingestion pipeline writes back.
// Nil pointers leave the stored value untouched.
type DocumentUpdate struct {
	ProcessingStatus *ProcessingStatus
	ExtractedText    *string
	Summary          *string
	KeyInsights      []Insight
	Metadata         *ProcessingMetadata
	EmbeddingsStored *bool
	Error            *string
	ProcessedAt      *time.Time
}
