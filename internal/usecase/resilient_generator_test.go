package usecase

import (
	"context"
	"errors"
	"testing"

	"replygate-core/internal/domain/entity"

	"github.com/stretchr/testify/require"
)

func TestResilientGeneratorPrimarySucceeds(t *testing.T) {
	primary := &stubGenerator{reply: &entity.GeneratedReply{Text: "ok", Intent: entity.IntentOther}}
	fallback := &stubGenerator{reply: &entity.GeneratedReply{Text: "fallback", Intent: entity.IntentOther}}
	g := NewResilientGenerator(primary, fallback)

	reply, err := g.Generate(context.Background(), basicContext(), nil)

	require.NoError(t, err)
	require.Equal(t, "ok", reply.Text)
	require.Zero(t, fallback.calls)
}

func TestResilientGeneratorFallsBackOnNonRetryableError(t *testing.T) {
	primary := &stubGenerator{err: errors.New("400 bad request")}
	fallback := &stubGenerator{reply: &entity.GeneratedReply{Text: "fallback", Intent: entity.IntentOther}}
	g := NewResilientGenerator(primary, fallback)

	reply, err := g.Generate(context.Background(), basicContext(), nil)

	require.NoError(t, err)
	require.Equal(t, "fallback", reply.Text)
	require.Equal(t, 1, primary.calls, "non-retryable errors are not retried")
	require.Equal(t, true, reply.Metadata["fallback_used"])
}

func TestResilientGeneratorBothTiersFail(t *testing.T) {
	primary := &stubGenerator{err: errors.New("400 bad request")}
	fallback := &stubGenerator{err: errors.New("400 bad request")}
	g := NewResilientGenerator(primary, fallback)

	_, err := g.Generate(context.Background(), basicContext(), nil)

	require.ErrorIs(t, err, entity.ErrGenerationFailed)
}

func TestResilientGeneratorRetryableDetection(t *testing.T) {
	g := NewResilientGenerator(nil, nil)

	require.True(t, g.isRetryable(errors.New("429 too many requests")))
	require.True(t, g.isRetryable(errors.New("model overloaded")))
	require.True(t, g.isRetryable(errors.New("context deadline exceeded")))
	require.False(t, g.isRetryable(errors.New("invalid argument")))
}
