package usecase

import "replygate-core/internal/domain/entity"

// Fixed blend weights. Deliberately not per-tenant: the linear model stays
// auditable, only the decision thresholds are configurable.
const (
	weightSimilarity = 0.45
	weightIntent     = 0.25
	weightSelfCheck  = 0.30
)

// BlendConfidence combines the three raw sub-scores with the fixed weights,
// subtracts the summed penalty magnitudes once, and clamps to [0,1].
// Pure and idempotent.
func BlendConfidence(similarity, intent, selfCheck float64, penalties []entity.Penalty) entity.ConfidenceBreakdown {
	var penaltySum float64
	for _, p := range penalties {
		if p.Value < 0 {
			penaltySum += -p.Value
		}
	}

	total := weightSimilarity*similarity +
		weightIntent*intent +
		weightSelfCheck*selfCheck -
		penaltySum

	return entity.ConfidenceBreakdown{
		Total:      clamp01(total),
		Similarity: similarity,
		Intent:     intent,
		SelfCheck:  selfCheck,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
