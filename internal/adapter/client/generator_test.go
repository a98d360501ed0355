package client

import (
	"testing"

	"replygate-core/internal/domain/entity"

	"github.com/stretchr/testify/require"
)

func TestParseReplyPayloadWellFormed(t *testing.T) {
	reply := parseReplyPayload(`{"reply": "Да, есть в наличии.", "intent": "availability", "intent_confidence": 0.87}`)

	require.Equal(t, "Да, есть в наличии.", reply.Text)
	require.Equal(t, entity.IntentAvailability, reply.Intent)
	require.InDelta(t, 0.87, reply.IntentConfidence, 1e-9)
}

func TestParseReplyPayloadStripsCodeFence(t *testing.T) {
	reply := parseReplyPayload("```json\n{\"reply\": \"ok\", \"intent\": \"price\", \"intent_confidence\": 0.5}\n```")

	require.Equal(t, "ok", reply.Text)
	require.Equal(t, entity.IntentPrice, reply.Intent)
}

func TestParseReplyPayloadMalformedFallsBack(t *testing.T) {
	for _, raw := range []string{
		"not json at all",
		"",
		`{"intent": "price"}`, // no reply text
		`{"reply": "   "}`,
	} {
		reply := parseReplyPayload(raw)
		require.Equal(t, entity.FallbackReplyText, reply.Text, "raw=%q", raw)
		require.Equal(t, entity.IntentOther, reply.Intent)
		require.InDelta(t, 0.5, reply.IntentConfidence, 1e-9)
	}
}

func TestParseReplyPayloadUnknownIntentCollapsesToOther(t *testing.T) {
	reply := parseReplyPayload(`{"reply": "ok", "intent": "world_domination", "intent_confidence": 0.99}`)

	require.Equal(t, entity.IntentOther, reply.Intent)
	require.Equal(t, "ok", reply.Text)
}

func TestParseReplyPayloadClampsConfidence(t *testing.T) {
	high := parseReplyPayload(`{"reply": "ok", "intent": "price", "intent_confidence": 3.0}`)
	low := parseReplyPayload(`{"reply": "ok", "intent": "price", "intent_confidence": -1}`)

	require.Equal(t, 1.0, high.IntentConfidence)
	require.Equal(t, 0.0, low.IntentConfidence)
}

func TestBuildGeneratorPromptIncludesSourcesAndHistory(t *testing.T) {
	prompt := buildGeneratorPrompt(entity.GenerationContext{
		Message: "Сколько стоит?",
		History: []entity.ChatMessage{{Role: "customer", Content: "Здравствуйте"}},
	}, []entity.UsedSource{
		{Type: entity.SourceProduct, Title: "АКПП JF011E", Quote: "цена 85000"},
	})

	require.Contains(t, prompt, "АКПП JF011E")
	require.Contains(t, prompt, "Здравствуйте")
	require.Contains(t, prompt, "Сколько стоит?")
}
