package vectorstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/intellidoc/backend/pkg/logger"
)

// QdrantConfig configures the qdrant-backed store.
type QdrantConfig struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool

	// CollectionPrefix lets several deployments share one qdrant instance.
	CollectionPrefix string
}

// QdrantStore implements Store on a qdrant instance over gRPC.
type QdrantStore struct {
	client    *qdrant.Client
	prefix    string
	dimension int
	model     string
	logger    logger.Logger
}

// NewQdrantStore connects to qdrant and ensures both collections exist with
// cosine distance at the embedding provider's dimension.
func NewQdrantStore(ctx context.Context, cfg QdrantConfig, dimension int, model string, log logger.Logger) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	s := &QdrantStore{
		client:    client,
		prefix:    cfg.CollectionPrefix,
		dimension: dimension,
		model:     model,
		logger:    log,
	}

	for _, ns := range Namespaces {
		if err := s.ensureCollection(ctx, ns); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Close releases the gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

func (s *QdrantStore) collectionName(ns Namespace) string {
	return s.prefix + string(ns)
}

func (s *QdrantStore) ensureCollection(ctx context.Context, ns Namespace) error {
	name := s.collectionName(ns)

	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", name, err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}

	s.logger.Info("Created vector collection",
		logger.String("collection", name),
		logger.Int("dimension", s.dimension),
	)
	return nil
}

// pointID maps our string record IDs onto qdrant point IDs. Qdrant only
// accepts UUIDs or integers, so the string ID is hashed into a deterministic
// UUID and kept verbatim in the payload.
func pointID(id string) *qdrant.PointId {
	return qdrant.NewID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String())
}

// Add upserts records. Hashing the same ID yields the same point, so re-adding
// overwrites.
func (s *QdrantStore) Add(ctx context.Context, ns Namespace, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(records))
	for i, rec := range records {
		payload := map[string]any{
			"id":   rec.ID,
			"text": rec.Text,
		}
		for k, v := range rec.Payload {
			payload[k] = v
		}

		points[i] = &qdrant.PointStruct{
			Id:      pointID(rec.ID),
			Vectors: qdrant.NewVectors(rec.Vector...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	wait := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName(ns),
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

func buildFilter(f Filter) *qdrant.Filter {
	var must []*qdrant.Condition
	if f.OwnerID != "" {
		must = append(must, qdrant.NewMatch("owner_id", f.OwnerID))
	}
	if f.DocumentID != "" {
		must = append(must, qdrant.NewMatch("document_id", f.DocumentID))
	}
	if f.ChatID != "" {
		must = append(must, qdrant.NewMatch("chat_id", f.ChatID))
	}
	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}

// Query searches the namespace. Qdrant reports cosine similarity where
// higher is better; results carry 1-score so that lower always means closer.
func (s *QdrantStore) Query(ctx context.Context, ns Namespace, vector []float32, limit int, filter Filter) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}
	lim := uint64(limit)

	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName(ns),
		Query:          qdrant.NewQuery(vector...),
		Limit:          &lim,
		Filter:         buildFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		res := Result{
			Distance: 1 - float64(hit.Score),
			Payload:  make(map[string]any, len(hit.Payload)),
		}
		for key, val := range hit.Payload {
			switch key {
			case "id":
				res.ID = val.GetStringValue()
			case "text":
				res.Text = val.GetStringValue()
			default:
				res.Payload[key] = valueToAny(val)
			}
		}
		results = append(results, res)
	}

	return results, nil
}

func valueToAny(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	default:
		return nil
	}
}

// Delete removes every point matching the filter. An empty filter is
// rejected so a bug cannot wipe a whole collection.
func (s *QdrantStore) Delete(ctx context.Context, ns Namespace, filter Filter) error {
	qf := buildFilter(filter)
	if qf == nil {
		return fmt.Errorf("refusing to delete without a filter")
	}

	wait := true
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collectionName(ns),
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: qf,
			},
		},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

// Stats counts points per collection.
func (s *QdrantStore) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		Collections:    make(map[string]uint64, len(Namespaces)),
		EmbeddingModel: s.model,
		Dimension:      s.dimension,
	}

	for _, ns := range Namespaces {
		count, err := s.client.Count(ctx, &qdrant.CountPoints{
			CollectionName: s.collectionName(ns),
		})
		if err != nil {
			return Stats{}, fmt.Errorf("failed to count collection %s: %w", ns, err)
		}
		stats.Collections[string(ns)] = count
	}

	return stats, nil
}
