package client

import (
	"context"
	"fmt"
	"strings"

	"replygate-core/internal/domain/entity"

	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

const generatorInstruction = `You are a customer-service assistant for an auto-parts seller.
Answer the customer using ONLY the facts in the provided sources. If the sources do not
contain the answer, say you will check with a manager. Classify the customer's intent as
one of: price, availability, delivery, warranty, order_status, complaint, vin_lookup,
frame_lookup, greeting, other.
Respond ONLY with a JSON object:
{"reply": "<answer in the customer's language>", "intent": "<label>", "intent_confidence": <0..1>}
Do not explain. Do not wrap the JSON in markdown.`

// GeminiReplyGenerator produces the candidate reply plus an intent
// classification under a structured-JSON response contract.
type GeminiReplyGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiReplyGenerator(client *genai.Client, model string) *GeminiReplyGenerator {
	return &GeminiReplyGenerator{client: client, model: model}
}

func (g *GeminiReplyGenerator) Generate(ctx context.Context, gc entity.GenerationContext, sources []entity.UsedSource) (*entity.GeneratedReply, error) {
	prompt := buildGeneratorPrompt(gc, sources)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, err
	}

	return parseReplyPayload(resp.Text()), nil
}

func buildGeneratorPrompt(gc entity.GenerationContext, sources []entity.UsedSource) string {
	var b strings.Builder
	b.WriteString(generatorInstruction)
	b.WriteString("\n\n")

	if gc.CustomerMemory != "" {
		fmt.Fprintf(&b, "Customer profile: %s\n\n", gc.CustomerMemory)
	}
	if len(gc.History) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, turn := range gc.History {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
		b.WriteString("\n")
	}
	if len(sources) > 0 {
		b.WriteString("Sources:\n")
		for i, s := range sources {
			fmt.Fprintf(&b, "[%d] (%s) %s: %s\n", i+1, s.Type, s.Title, s.Quote)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("Sources: none available.\n\n")
	}

	fmt.Fprintf(&b, "Customer message: %s", gc.Message)
	return b.String()
}

// parseReplyPayload is the trust boundary for the generator's "JSON blob":
// parse-or-default, never an error. A missing or malformed payload yields the
// safe fallback reply with the generic intent at moderate confidence; an
// out-of-vocabulary intent collapses to "other".
func parseReplyPayload(raw string) *entity.GeneratedReply {
	payload := stripCodeFence(raw)

	reply := &entity.GeneratedReply{
		Text:             entity.FallbackReplyText,
		Intent:           entity.IntentOther,
		IntentConfidence: 0.5,
	}

	if !gjson.Valid(payload) {
		return reply
	}

	text := strings.TrimSpace(gjson.Get(payload, "reply").String())
	if text == "" {
		return reply
	}
	reply.Text = text
	reply.Intent = entity.ParseIntent(gjson.Get(payload, "intent").String())

	if conf := gjson.Get(payload, "intent_confidence"); conf.Exists() {
		v := conf.Float()
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		reply.IntentConfidence = v
	}

	return reply
}

// stripCodeFence removes a ```json ... ``` wrapper that models add despite
// instructions.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
