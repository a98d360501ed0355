package repository

import (
	"context"

	"replygate-core/internal/domain/entity"
)

type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type ChunkStore interface {
	ListByTenant(ctx context.Context, tenantID string, filter entity.ChunkFilter) ([]entity.StoredChunk, error)
}

type ReplyGenerator interface {
	Generate(ctx context.Context, gc entity.GenerationContext, sources []entity.UsedSource) (*entity.GeneratedReply, error)
}

type SelfCheckVerifier interface {
	Verify(ctx context.Context, message, reply string, sources []entity.UsedSource) (*entity.SelfCheckReport, error)
}

type SettingsStore interface {
	Fetch(ctx context.Context, tenantID string) (entity.DecisionSettings, error)
}
