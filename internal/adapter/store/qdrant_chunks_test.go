package store

import (
	"testing"

	"replygate-core/internal/domain/entity"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/require"
)

func TestChunkFromPointMapsPayload(t *testing.T) {
	point := &qdrant.RetrievedPoint{
		Id: qdrant.NewIDUUID("5f0e7a3e-2f2f-4c5f-9a51-111111111111"),
		Payload: qdrant.NewValueMap(map[string]any{
			"tenant_id":     "t1",
			"type":          "product",
			"title":         "АКПП JF011E",
			"text":          "Вариатор для Nissan Qashqai",
			"chunk_index":   int64(2),
			"critical":      true,
			"price":         "85000",
			"stock":         "in_stock",
			"price_version": "2026-08-31T10:00:00Z",
			"sku":           "JF011E",
		}),
	}

	chunk := chunkFromPoint(point)

	require.Equal(t, "5f0e7a3e-2f2f-4c5f-9a51-111111111111", chunk.ID)
	require.Equal(t, "t1", chunk.TenantID)
	require.Equal(t, entity.SourceProduct, chunk.Type)
	require.Equal(t, "АКПП JF011E", chunk.Title)
	require.Equal(t, 2, chunk.ChunkIndex)
	require.True(t, chunk.Critical)
	require.Equal(t, map[string]string{
		"price":         "85000",
		"stock":         "in_stock",
		"price_version": "2026-08-31T10:00:00Z",
		"sku":           "JF011E",
	}, chunk.Metadata)
}

func TestChunkFromPointDefaultsTypeToProduct(t *testing.T) {
	point := &qdrant.RetrievedPoint{
		Payload: qdrant.NewValueMap(map[string]any{"tenant_id": "t1"}),
	}

	chunk := chunkFromPoint(point)

	require.Equal(t, entity.SourceProduct, chunk.Type)
	require.Nil(t, chunk.Metadata)
}
