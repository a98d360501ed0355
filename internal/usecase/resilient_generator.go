package usecase

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"replygate-core/internal/domain/entity"
	"replygate-core/internal/domain/repository"
)

// ResilientGenerator wraps the primary reply model with retries and a tiered
// fallback to a cheaper model. The decision pipeline depends only on the
// ReplyGenerator interface, so retry policy stays out of the scoring core.
type ResilientGenerator struct {
	primary    repository.ReplyGenerator
	fallback   repository.ReplyGenerator
	maxRetries int
	baseDelay  time.Duration
	timeout    time.Duration
}

func NewResilientGenerator(primary, fallback repository.ReplyGenerator) *ResilientGenerator {
	return &ResilientGenerator{
		primary:    primary,
		fallback:   fallback,
		maxRetries: 2, // Total 3 attempts for primary
		baseDelay:  500 * time.Millisecond,
		timeout:    25 * time.Second, // Global cap per generation
	}
}

func (r *ResilientGenerator) Generate(ctx context.Context, gc entity.GenerationContext, sources []entity.UsedSource) (*entity.GeneratedReply, error) {
	// Scoped timeout so one slow generation doesn't hang the whole decision.
	genCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.executeWithRetry(genCtx, r.primary, gc, sources)
	if err == nil {
		return reply, nil
	}

	log.Printf("[RELIABILITY] primary generator exhausted, switching to fallback: %v", err)

	reply, err = r.fallback.Generate(genCtx, gc, sources)
	if err != nil {
		return nil, fmt.Errorf("%w: both primary and fallback failed: %v", entity.ErrGenerationFailed, err)
	}

	if reply.Metadata == nil {
		reply.Metadata = make(map[string]any)
	}
	reply.Metadata["fallback_used"] = true

	return reply, nil
}

func (r *ResilientGenerator) executeWithRetry(ctx context.Context, g repository.ReplyGenerator, gc entity.GenerationContext, sources []entity.UsedSource) (*entity.GeneratedReply, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		reply, err := g.Generate(ctx, gc, sources)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if !r.isRetryable(err) || attempt == r.maxRetries {
			break
		}

		wait := r.calculateBackoff(attempt)
		select {
		case <-time.After(wait):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (r *ResilientGenerator) isRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	// Retry on rate limits (429) and server errors (5xx)
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "deadline")
}

func (r *ResilientGenerator) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.baseDelay) * float64(int(1)<<attempt)
	jitter := (rand.Float64() * 0.2) * backoff // 20% jitter
	return time.Duration(backoff + jitter)
}
