package store

import (
	"context"
	"fmt"
	"log"

	"replygate-core/internal/domain/entity"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Payload keys carried per chunk point. Evidence metadata (price, stock,
// price_version, category, sku, intent) is stored flat next to them.
var chunkMetadataKeys = []string{"price", "stock", "price_version", "category", "sku", "intent"}

// scrollPageLimit bounds one tenant listing. Tenant knowledge bases are a few
// hundred chunks; anything above the limit is a data problem, not a paging one.
const scrollPageLimit = 1024

// QdrantChunkStore lists a tenant's pre-embedded chunks with their vectors.
// Similarity scoring deliberately stays in the retrieval engine, so the store
// returns raw vectors instead of delegating ranking to qdrant.
type QdrantChunkStore struct {
	client         *qdrant.Client
	collectionName string
}

func NewQdrantChunkStore(client *qdrant.Client, collectionName string) *QdrantChunkStore {
	return &QdrantChunkStore{
		client:         client,
		collectionName: collectionName,
	}
}

func (s *QdrantChunkStore) InitCollection(ctx context.Context, dim uint64) error {
	_, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err != nil {
		st, ok := status.FromError(err)
		if ok && st.Code() == codes.NotFound {
			err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
				CollectionName: s.collectionName,
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
					Size:     dim,
					Distance: qdrant.Distance_Cosine,
				}),
			})
			if err != nil {
				return fmt.Errorf("failed to create collection: %w", err)
			}
		} else {
			return err
		}
	}

	// Keyword index on tenant_id keeps the per-tenant listing fast.
	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collectionName,
		FieldName:      "tenant_id",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		// Log but don't fail if index already exists
		log.Printf("[QDRANT] Warning: Could not create tenant_id index (might already exist): %v", err)
	}

	return nil
}

func (s *QdrantChunkStore) ListByTenant(ctx context.Context, tenantID string, filter entity.ChunkFilter) ([]entity.StoredChunk, error) {
	mustConditions := []*qdrant.Condition{
		qdrant.NewMatch("tenant_id", tenantID),
	}
	if filter.Category != "" {
		mustConditions = append(mustConditions, qdrant.NewMatch("category", filter.Category))
	}
	if filter.SKU != "" {
		mustConditions = append(mustConditions, qdrant.NewMatch("sku", filter.SKU))
	}
	if filter.Intent != "" {
		mustConditions = append(mustConditions, qdrant.NewMatch("intent", string(filter.Intent)))
	}

	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collectionName,
		Filter:         &qdrant.Filter{Must: mustConditions},
		Limit:          qdrant.PtrOf(uint32(scrollPageLimit)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("scroll chunks for tenant %s: %w", tenantID, err)
	}

	chunks := make([]entity.StoredChunk, 0, len(points))
	for _, point := range points {
		chunks = append(chunks, chunkFromPoint(point))
	}
	return chunks, nil
}

func chunkFromPoint(point *qdrant.RetrievedPoint) entity.StoredChunk {
	payload := point.GetPayload()

	chunk := entity.StoredChunk{
		ID:         point.GetId().GetUuid(),
		TenantID:   payload["tenant_id"].GetStringValue(),
		Type:       entity.SourceType(payload["type"].GetStringValue()),
		Title:      payload["title"].GetStringValue(),
		Text:       payload["text"].GetStringValue(),
		ChunkIndex: int(payload["chunk_index"].GetIntegerValue()),
		Critical:   payload["critical"].GetBoolValue(),
	}
	if chunk.Type == "" {
		chunk.Type = entity.SourceProduct
	}

	if vectors := point.GetVectors(); vectors != nil {
		chunk.Vector = vectors.GetVector().GetData()
	}

	for _, key := range chunkMetadataKeys {
		value, ok := payload[key]
		if !ok {
			continue
		}
		if chunk.Metadata == nil {
			chunk.Metadata = map[string]string{}
		}
		chunk.Metadata[key] = value.GetStringValue()
	}

	return chunk
}
