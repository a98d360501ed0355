package usecase

import (
	"testing"

	"replygate-core/internal/domain/entity"

	"github.com/stretchr/testify/require"
)

func testSettings() entity.DecisionSettings {
	return entity.DecisionSettings{
		EngineEnabled:          true,
		AutosendFlagEnabled:    true,
		TAuto:                  0.80,
		TEscalate:              0.40,
		AutosendAllowed:        true,
		IntentsAutosendAllowed: []entity.Intent{entity.IntentDelivery, entity.IntentVinLookup},
	}
}

func confidenceOf(total float64) entity.ConfidenceBreakdown {
	return entity.ConfidenceBreakdown{Total: total}
}

func TestResolveDecisionThresholds(t *testing.T) {
	st := testSettings()

	cases := []struct {
		name  string
		total float64
		want  entity.Decision
	}{
		{"above auto", 0.85, entity.DecisionAutoSend},
		{"exactly auto", 0.80, entity.DecisionAutoSend},
		{"between", 0.60, entity.DecisionNeedApproval},
		{"exactly escalate", 0.40, entity.DecisionNeedApproval},
		{"below escalate", 0.39, entity.DecisionEscalate},
		{"zero", 0, entity.DecisionEscalate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision, _ := ResolveDecision(confidenceOf(tc.total), false, entity.IntentDelivery, st)
			require.Equal(t, tc.want, decision)
		})
	}
}

func TestResolveDecisionBelowEscalateNeverSendsOrApproves(t *testing.T) {
	st := testSettings()
	for total := 0.0; total < st.TEscalate; total += 0.05 {
		decision, _ := ResolveDecision(confidenceOf(total), false, entity.IntentDelivery, st)
		require.Equal(t, entity.DecisionEscalate, decision, "total=%.2f", total)
	}
}

func TestResolveDecisionForceEscalateWinsAtAnyConfidence(t *testing.T) {
	st := testSettings()
	for _, total := range []float64{0, 0.4, 0.8, 0.99, 1.0} {
		decision, _ := ResolveDecision(confidenceOf(total), true, entity.IntentDelivery, st)
		require.Equal(t, entity.DecisionEscalate, decision, "total=%.2f", total)
	}
}

func TestResolveDecisionTrainingPolicyDemotesAutoSend(t *testing.T) {
	st := testSettings()
	st.IntentsAlwaysApprove = []entity.Intent{entity.IntentDelivery}

	decision, explanations := ResolveDecision(confidenceOf(0.95), false, entity.IntentDelivery, st)

	require.Equal(t, entity.DecisionNeedApproval, decision)
	require.NotEmpty(t, explanations)
}

func TestResolveDecisionTrainingPolicyNeverUpgrades(t *testing.T) {
	st := testSettings()
	st.IntentsAlwaysApprove = []entity.Intent{entity.IntentDelivery}

	// Below the auto threshold the policy must not change the outcome.
	decision, _ := ResolveDecision(confidenceOf(0.30), false, entity.IntentDelivery, st)
	require.Equal(t, entity.DecisionEscalate, decision)
}

func TestEvaluateAutosendTripleLockOrder(t *testing.T) {
	// All three locks fail at once: the first checked lock is reported.
	st := testSettings()
	st.AutosendFlagEnabled = false
	st.AutosendAllowed = false
	st.IntentsAutosendAllowed = nil

	ok, reason := EvaluateAutosend(entity.IntentDelivery, "ok", entity.SelfCheckReport{}, st)
	require.False(t, ok)
	require.Equal(t, entity.BlockFlagOff, reason)

	st.AutosendFlagEnabled = true
	ok, reason = EvaluateAutosend(entity.IntentDelivery, "ok", entity.SelfCheckReport{}, st)
	require.False(t, ok)
	require.Equal(t, entity.BlockSettingOff, reason)

	st.AutosendAllowed = true
	ok, reason = EvaluateAutosend(entity.IntentDelivery, "ok", entity.SelfCheckReport{}, st)
	require.False(t, ok)
	require.Equal(t, entity.BlockIntentNotAllowed, reason)
}

func TestEvaluateAutosendAllLocksPass(t *testing.T) {
	ok, reason := EvaluateAutosend(entity.IntentDelivery, "Доставка займет 2 дня.", entity.SelfCheckReport{}, testSettings())
	require.True(t, ok)
	require.Empty(t, reason)
}

func TestEvaluateAutosendIdentificationGuardrails(t *testing.T) {
	st := testSettings()

	// Verifier handoff flag blocks an identification reply even after the locks pass.
	ok, reason := EvaluateAutosend(entity.IntentVinLookup, "По VIN подходит АКПП JF011E.", entity.SelfCheckReport{NeedsHandoff: true}, st)
	require.False(t, ok)
	require.Equal(t, entity.BlockSelfCheckHandoff, reason)

	// Price-like tokens in an identification reply are blocked.
	ok, reason = EvaluateAutosend(entity.IntentVinLookup, "Подходит АКПП JF011E, цена 85000 руб.", entity.SelfCheckReport{}, st)
	require.False(t, ok)
	require.Equal(t, entity.BlockPriceInIdentReply, reason)

	// A clean identification reply passes.
	ok, reason = EvaluateAutosend(entity.IntentVinLookup, "По VIN подходит АКПП JF011E.", entity.SelfCheckReport{}, st)
	require.True(t, ok)
	require.Empty(t, reason)

	// Non-identification intents skip the guardrails.
	ok, _ = EvaluateAutosend(entity.IntentDelivery, "Стоимость доставки 500 руб.", entity.SelfCheckReport{}, st)
	require.True(t, ok)
}

func TestReplyMentionsPrice(t *testing.T) {
	positive := []string{
		"Цена 85 000 руб.",
		"стоимость: 1200",
		"это будет стоить примерно 40000 ₽",
		"скидка 15%",
		"$99 per unit",
		"price is 40 USD",
		"около 3,400 руб",
	}
	negative := []string{
		"По VIN WDC2049811F906300 подходит АКПП 722.964.",
		"Гарантия 6 месяцев, отправим в течение 2 дней.",
		"Да, есть в наличии.",
	}

	for _, text := range positive {
		require.True(t, replyMentionsPrice(text), "expected price token in %q", text)
	}
	for _, text := range negative {
		require.False(t, replyMentionsPrice(text), "unexpected price token in %q", text)
	}
}
