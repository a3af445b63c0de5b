package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store used in tests and single-node dev runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[Namespace]map[string]Record
	model   string
	dim     int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(dimension int, model string) *MemoryStore {
	records := make(map[Namespace]map[string]Record, len(Namespaces))
	for _, ns := range Namespaces {
		records[ns] = make(map[string]Record)
	}
	return &MemoryStore{records: records, model: model, dim: dimension}
}

func (s *MemoryStore) Add(_ context.Context, ns Namespace, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.records[ns][rec.ID] = rec
	}
	return nil
}

func matches(rec Record, f Filter) bool {
	check := func(key, want string) bool {
		if want == "" {
			return true
		}
		got, _ := rec.Payload[key].(string)
		return got == want
	}
	return check("owner_id", f.OwnerID) &&
		check("document_id", f.DocumentID) &&
		check("chat_id", f.ChatID)
}

func (s *MemoryStore) Query(_ context.Context, ns Namespace, vector []float32, limit int, filter Filter) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Result
	for _, rec := range s.records[ns] {
		if !matches(rec, filter) {
			continue
		}
		results = append(results, Result{
			ID:       rec.ID,
			Text:     rec.Text,
			Distance: cosineDistance(vector, rec.Vector),
			Payload:  rec.Payload,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *MemoryStore) Delete(_ context.Context, ns Namespace, filter Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records[ns] {
		if matches(rec, filter) {
			delete(s.records[ns], id)
		}
	}
	return nil
}

func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Collections:    make(map[string]uint64, len(Namespaces)),
		EmbeddingModel: s.model,
		Dimension:      s.dim,
	}
	for ns, recs := range s.records {
		stats.Collections[string(ns)] = uint64(len(recs))
	}
	return stats, nil
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
