package client

import (
	"context"
	"fmt"
	"strings"

	"replygate-core/internal/domain/entity"

	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

const verifierInstruction = `You are an independent quality judge for customer-service replies.
Given a customer message, a drafted reply and the sources the draft was based on, decide
whether the draft is fully supported by the sources and safe to send.
Penalize claims not present in the sources, invented prices or stock levels, and promises
the sources do not back.
Respond ONLY with a JSON object:
{"score": <0..1>, "needs_handoff": <true|false>, "reasons": ["<short reason>", ...]}
Do not explain outside the JSON.`

// GeminiSelfCheckVerifier re-evaluates an already-generated reply against its
// sources in a second, independent model call.
type GeminiSelfCheckVerifier struct {
	client *genai.Client
	model  string
}

func NewGeminiSelfCheckVerifier(client *genai.Client, model string) *GeminiSelfCheckVerifier {
	return &GeminiSelfCheckVerifier{client: client, model: model}
}

// Verify returns an error on provider failure or an unusable payload; the
// pipeline substitutes its neutral default in that case.
func (v *GeminiSelfCheckVerifier) Verify(ctx context.Context, message, reply string, sources []entity.UsedSource) (*entity.SelfCheckReport, error) {
	prompt := buildVerifierPrompt(message, reply, sources)

	resp, err := v.client.Models.GenerateContent(ctx, v.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrVerificationFailed, err)
	}

	report, ok := parseSelfCheckPayload(resp.Text())
	if !ok {
		return nil, fmt.Errorf("%w: malformed judge output", entity.ErrVerificationFailed)
	}
	return report, nil
}

func buildVerifierPrompt(message, reply string, sources []entity.UsedSource) string {
	var b strings.Builder
	b.WriteString(verifierInstruction)
	b.WriteString("\n\n")

	if len(sources) > 0 {
		b.WriteString("Sources:\n")
		for i, s := range sources {
			fmt.Fprintf(&b, "[%d] (%s) %s: %s\n", i+1, s.Type, s.Title, s.Quote)
		}
	} else {
		b.WriteString("Sources: none.\n")
	}

	fmt.Fprintf(&b, "\nCustomer message: %s\n", message)
	fmt.Fprintf(&b, "Drafted reply: %s", reply)
	return b.String()
}

func parseSelfCheckPayload(raw string) (*entity.SelfCheckReport, bool) {
	payload := stripCodeFence(raw)
	if !gjson.Valid(payload) {
		return nil, false
	}

	score := gjson.Get(payload, "score")
	if !score.Exists() {
		return nil, false
	}

	v := score.Float()
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	report := &entity.SelfCheckReport{
		Score:        v,
		NeedsHandoff: gjson.Get(payload, "needs_handoff").Bool(),
	}
	for _, reason := range gjson.Get(payload, "reasons").Array() {
		if r := strings.TrimSpace(reason.String()); r != "" {
			report.Reasons = append(report.Reasons, r)
		}
	}
	return report, true
}
