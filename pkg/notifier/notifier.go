package notifier

import (
	"context"
	"time"
)

// Event types pushed to clients during document processing.
const (
	EventProcessingStarted  = "processing_started"
	EventProcessingComplete = "processing_complete"
	EventProcessingError    = "processing_error"
	EventStatusUpdated      = "status_updated"
)

// Event is one notification delivered to an owner's channel.
type Event struct {
	Type      string         `json:"type"`
	OwnerID   string         `json:"ownerId"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// Notifier delivers events to document owners. Delivery is fire-and-forget:
// callers log and swallow errors, processing never fails on a lost event.
type Notifier interface {
	Push(ctx context.Context, ownerID, eventType string, payload map[string]any) error
}
