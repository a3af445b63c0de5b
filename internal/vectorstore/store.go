package vectorstore

import "context"

// Namespace separates the two vector collections. Document chunks and chat
// history never mix in a single search.
type Namespace string

const (
	NamespaceDocuments   Namespace = "documents"
	NamespaceChatContext Namespace = "chat_context"
)

// Namespaces lists every collection the store manages.
var Namespaces = []Namespace{NamespaceDocuments, NamespaceChatContext}

// Record is one embedded text unit ready for storage.
type Record struct {
	ID      string
	Vector  []float32
	Text    string
	Payload map[string]any
}

// Filter narrows queries and deletes by payload fields. Zero-value fields
// are ignored.
type Filter struct {
	OwnerID    string
	DocumentID string
	ChatID     string
}

// Result is a single match. Distance is 1 minus cosine similarity, so lower
// means closer.
type Result struct {
	ID       string
	Text     string
	Distance float64
	Payload  map[string]any
}

// Stats reports per-collection point counts and the embedding model behind
// them.
type Stats struct {
	Collections    map[string]uint64 `json:"collections"`
	EmbeddingModel string            `json:"embedding_model"`
	Dimension      int               `json:"dimension"`
}

// Store persists and searches embedded text.
type Store interface {
	// Add upserts records into the namespace. Re-adding an ID overwrites
	// the previous vector and payload.
	Add(ctx context.Context, ns Namespace, records []Record) error

	// Query returns up to limit results ordered by ascending distance,
	// restricted by the filter.
	Query(ctx context.Context, ns Namespace, vector []float32, limit int, filter Filter) ([]Result, error)

	// Delete removes every point matching the filter. Deleting with a
	// filter that matches nothing is not an error.
	Delete(ctx context.Context, ns Namespace, filter Filter) error

	// Stats reports collection sizes.
	Stats(ctx context.Context) (Stats, error)
}
