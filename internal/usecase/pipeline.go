package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"replygate-core/internal/domain/entity"
	"replygate-core/internal/domain/repository"

	"github.com/google/uuid"
)

// Neutral self-check score substituted when the verifier fails or is skipped.
const neutralSelfCheckScore = 0.6

// Moderate intent confidence substituted with the fallback reply.
const fallbackIntentConfidence = 0.5

// Pipeline runs one full decision: settings → retrieval → sources → reply →
// self-check → penalties → confidence → decision → autosend gate. Each call
// is stateless and parallel-safe; the settings snapshot is the only long-lived
// input and is read-only for the duration of the call.
type Pipeline struct {
	settings  repository.SettingsStore
	retrieval *RetrievalEngine
	generator repository.ReplyGenerator
	verifier  repository.SelfCheckVerifier
}

func NewPipeline(settings repository.SettingsStore, retrieval *RetrievalEngine, generator repository.ReplyGenerator, verifier repository.SelfCheckVerifier) *Pipeline {
	return &Pipeline{
		settings:  settings,
		retrieval: retrieval,
		generator: generator,
		verifier:  verifier,
	}
}

// Decide produces the DecisionResult for one inbound message. The only hard
// error paths are an invalid request and a settings-store outage; every other
// failure degrades toward ESCALATE or NEED_APPROVAL with an explanation.
func (p *Pipeline) Decide(ctx context.Context, gc entity.GenerationContext) (*entity.DecisionResult, error) {
	if strings.TrimSpace(gc.TenantID) == "" || strings.TrimSpace(gc.Message) == "" {
		return nil, fmt.Errorf("%w: tenant_id and message are required", entity.ErrInvalidRequest)
	}

	settings, err := p.settings.Fetch(ctx, gc.TenantID)
	if err != nil {
		return nil, fmt.Errorf("fetch settings for tenant %s: %w", gc.TenantID, err)
	}
	settings = settings.Normalized()

	now := time.Now().UTC()
	result := &entity.DecisionResult{
		ID:        uuid.NewString(),
		TenantID:  gc.TenantID,
		CreatedAt: now,
	}

	retrieved := p.retrieval.Retrieve(ctx, gc.TenantID, gc.Message, gc.Filter)
	sources := AggregateSources(retrieved, now)
	if retrieved.Degraded && len(sources.Sources) == 0 {
		// Retrieval subsystem unavailable: fall back to raw catalog listings
		// rather than failing closed. A genuine no-match keeps zero sources.
		sources = SynthesizeSources(gc, now)
		if len(sources.Sources) > 0 {
			result.Explanations = append(result.Explanations, "retrieval unavailable, sources synthesized from catalog listings")
		}
	}
	result.UsedSources = sources.Sources

	// Global kill switch: checked before any scoring. The draft and its
	// evidence are still produced so the approval UI has something to show.
	if !settings.EngineEnabled {
		reply := p.generateReply(ctx, gc, sources.Sources, result)
		result.Reply = reply.Text
		result.Intent = reply.Intent
		result.Decision = entity.DecisionNeedApproval
		result.Explanations = append(result.Explanations, "decision engine disabled, all replies require approval")
		return result, nil
	}

	reply := p.generateReply(ctx, gc, sources.Sources, result)
	result.Reply = reply.Text
	result.Intent = reply.Intent

	selfCheck := p.verifyReply(ctx, gc.Message, reply.Text, sources.Sources, result)
	result.SelfCheckHandoff = selfCheck.NeedsHandoff
	result.SelfCheckReasons = selfCheck.Reasons

	verdict := EvaluatePenalties(PenaltyInput{
		Intent:         reply.Intent,
		Sources:        sources,
		SelfCheckScore: selfCheck.Score,
		Settings:       settings,
	})
	result.Penalties = verdict.Penalties
	result.MissingFields = verdict.MissingFields

	result.Confidence = BlendConfidence(sources.MaxSimilarity, reply.IntentConfidence, selfCheck.Score, verdict.Penalties)

	forceEscalate := verdict.ForceEscalate || selfCheck.NeedsHandoff
	decision, explanations := ResolveDecision(result.Confidence, forceEscalate, reply.Intent, settings)
	result.Decision = decision
	result.Explanations = append(result.Explanations, explanations...)

	if decision == entity.DecisionAutoSend {
		eligible, blockReason := EvaluateAutosend(reply.Intent, reply.Text, *selfCheck, settings)
		result.AutosendEligible = eligible
		result.AutosendBlockReason = blockReason
	}

	return result, nil
}

// generateReply never fails: a generator outage substitutes the safe fallback
// reply with the generic intent, which the scoring below treats accordingly.
func (p *Pipeline) generateReply(ctx context.Context, gc entity.GenerationContext, sources []entity.UsedSource, result *entity.DecisionResult) *entity.GeneratedReply {
	reply, err := p.generator.Generate(ctx, gc, sources)
	if err != nil {
		log.Printf("[PIPELINE] generation failed for tenant %s, substituting fallback reply: %v", gc.TenantID, err)
		result.Explanations = append(result.Explanations, "reply generation failed, safe fallback reply substituted")
		return &entity.GeneratedReply{
			Text:             entity.FallbackReplyText,
			Intent:           entity.IntentOther,
			IntentConfidence: fallbackIntentConfidence,
		}
	}
	return reply
}

// verifyReply substitutes a neutral score on verifier failure; a broken judge
// must not break the decision.
func (p *Pipeline) verifyReply(ctx context.Context, message, reply string, sources []entity.UsedSource, result *entity.DecisionResult) *entity.SelfCheckReport {
	report, err := p.verifier.Verify(ctx, message, reply, sources)
	if err != nil {
		log.Printf("[PIPELINE] self-check failed, substituting neutral score: %v", err)
		result.Explanations = append(result.Explanations, "self-check unavailable, neutral score substituted")
		return &entity.SelfCheckReport{Score: neutralSelfCheckScore}
	}
	return report
}
