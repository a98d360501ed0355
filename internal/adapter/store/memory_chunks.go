package store

import (
	"context"
	"sync"

	"replygate-core/internal/domain/entity"
)

// MemoryChunkStore is an in-process chunk store for tests and embedded
// deployments that run without a qdrant instance.
type MemoryChunkStore struct {
	mu     sync.RWMutex
	chunks map[string][]entity.StoredChunk // tenantID -> chunks
}

func NewMemoryChunkStore() *MemoryChunkStore {
	return &MemoryChunkStore{
		chunks: make(map[string][]entity.StoredChunk),
	}
}

// Upsert replaces the chunk with the same ID or appends a new one.
func (s *MemoryChunkStore) Upsert(chunk entity.StoredChunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.chunks[chunk.TenantID]
	for i, c := range existing {
		if c.ID == chunk.ID {
			existing[i] = chunk
			return
		}
	}
	s.chunks[chunk.TenantID] = append(existing, chunk)
}

func (s *MemoryChunkStore) ListByTenant(_ context.Context, tenantID string, filter entity.ChunkFilter) ([]entity.StoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []entity.StoredChunk
	for _, chunk := range s.chunks[tenantID] {
		if filter.Matches(chunk) {
			out = append(out, chunk)
		}
	}
	return out, nil
}
