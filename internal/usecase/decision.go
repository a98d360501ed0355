package usecase

import (
	"fmt"
	"regexp"

	"replygate-core/internal/domain/entity"
)

// ResolveDecision maps final confidence plus any force-override onto one of
// the three terminal decisions, then applies the tenant training policy,
// which only ever demotes AUTO_SEND to NEED_APPROVAL.
//
// The global kill switch is handled by the pipeline before any scoring
// happens and never reaches this function.
func ResolveDecision(conf entity.ConfidenceBreakdown, forceEscalate bool, intent entity.Intent, st entity.DecisionSettings) (entity.Decision, []string) {
	var explanations []string

	if forceEscalate {
		explanations = append(explanations, "escalation forced regardless of confidence")
		return entity.DecisionEscalate, explanations
	}

	switch {
	case conf.Total >= st.TAuto:
		if st.AlwaysApproves(intent) {
			explanations = append(explanations,
				fmt.Sprintf("confidence %.2f ≥ %.2f but intent %q is on the always-approve training policy", conf.Total, st.TAuto, intent))
			return entity.DecisionNeedApproval, explanations
		}
		explanations = append(explanations, fmt.Sprintf("confidence %.2f ≥ auto threshold %.2f", conf.Total, st.TAuto))
		return entity.DecisionAutoSend, explanations
	case conf.Total >= st.TEscalate:
		explanations = append(explanations, fmt.Sprintf("confidence %.2f between %.2f and %.2f, needs approval", conf.Total, st.TEscalate, st.TAuto))
		return entity.DecisionNeedApproval, explanations
	default:
		explanations = append(explanations, fmt.Sprintf("confidence %.2f below escalation threshold %.2f", conf.Total, st.TEscalate))
		return entity.DecisionEscalate, explanations
	}
}

// EvaluateAutosend runs the triple lock plus the identification-flow
// guardrails. Only called when the decision is AUTO_SEND. Locks are checked
// in fixed order; the first failure wins and becomes the block reason.
func EvaluateAutosend(intent entity.Intent, reply string, selfCheck entity.SelfCheckReport, st entity.DecisionSettings) (bool, entity.BlockReason) {
	if !st.AutosendFlagEnabled {
		return false, entity.BlockFlagOff
	}
	if !st.AutosendAllowed {
		return false, entity.BlockSettingOff
	}
	if !st.AllowsAutosend(intent) {
		return false, entity.BlockIntentNotAllowed
	}

	// Identification-flow replies must never silently quote a price, and a
	// verifier handoff flag blocks them even after the locks pass.
	if intent.IsIdentification() {
		if selfCheck.NeedsHandoff {
			return false, entity.BlockSelfCheckHandoff
		}
		if replyMentionsPrice(reply) {
			return false, entity.BlockPriceInIdentReply
		}
	}

	return true, ""
}

// replyMentionsPrice is a narrow keyword/regex heuristic, intentionally
// separate from the scoring model. It matches:
//   - currency-tagged numbers: "12 500 ₽", "3,400 руб", "$99", "99 USD", "€5"
//   - percentages: "15%", "15 %"
//   - price words next to digits: "цена 9000", "стоимость: 1200", "price 40"
var priceTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d[\d\s.,]*\s*(?:₽|€|\$|руб|rub|usd|eur)`),
	regexp.MustCompile(`(?i)(?:\$|€|₽)\s*\d`),
	regexp.MustCompile(`\d+\s*%`),
	regexp.MustCompile(`(?i)(?:цена|стоимость|стоит|price|cost)\D{0,10}\d`),
}

func replyMentionsPrice(text string) bool {
	for _, pattern := range priceTokenPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
