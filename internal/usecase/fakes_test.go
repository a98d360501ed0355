package usecase

import (
	"context"
	"errors"

	"replygate-core/internal/domain/entity"
)

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) CreateEmbedding(context.Context, string) ([]float32, error) {
	return s.vector, s.err
}

type stubChunkStore struct {
	chunks []entity.StoredChunk
	err    error
}

func (s *stubChunkStore) ListByTenant(_ context.Context, tenantID string, filter entity.ChunkFilter) ([]entity.StoredChunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []entity.StoredChunk
	for _, c := range s.chunks {
		if c.TenantID == tenantID && filter.Matches(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubSettingsStore struct {
	settings entity.DecisionSettings
	err      error
}

func (s *stubSettingsStore) Fetch(context.Context, string) (entity.DecisionSettings, error) {
	return s.settings, s.err
}

type stubGenerator struct {
	reply *entity.GeneratedReply
	err   error
	calls int
}

func (s *stubGenerator) Generate(context.Context, entity.GenerationContext, []entity.UsedSource) (*entity.GeneratedReply, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := *s.reply
	return &out, nil
}

type stubVerifier struct {
	report *entity.SelfCheckReport
	err    error
	calls  int
}

func (s *stubVerifier) Verify(context.Context, string, string, []entity.UsedSource) (*entity.SelfCheckReport, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := *s.report
	return &out, nil
}

var errProviderDown = errors.New("provider unavailable: 503")
