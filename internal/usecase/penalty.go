package usecase

import "replygate-core/internal/domain/entity"

// Penalty magnitudes. Product-tuned defaults, see also RetrievalConfig.
const (
	penaltyNoSources     = -0.30
	penaltyPriceNotFound = -0.25
	penaltyStockUnknown  = -0.20
	penaltyPriceConflict = -0.20
	penaltyStaleData     = -0.35
	penaltyLowSimilarity = -0.25
	penaltySelfCheckLow  = -0.15

	selfCheckLowThreshold = 0.5
)

// PenaltyInput is everything the rule table looks at.
type PenaltyInput struct {
	Intent         entity.Intent
	Sources        SourceSet
	SelfCheckScore float64
	Settings       entity.DecisionSettings
}

// PenaltyVerdict lists every rule that fired. ForceEscalate is set by rules
// whose risk is never auto-sendable regardless of confidence.
type PenaltyVerdict struct {
	Penalties     []entity.Penalty
	MissingFields []string
	ForceEscalate bool
}

// EvaluatePenalties runs the deterministic rule table. Every rule is checked
// independently; all that match fire.
func EvaluatePenalties(in PenaltyInput) PenaltyVerdict {
	var v PenaltyVerdict

	if in.Settings.ForcesHandoff(in.Intent) {
		// Zero-value marker penalty: signals the override, does not reduce
		// the score.
		v.Penalties = append(v.Penalties, entity.Penalty{
			Code:    entity.PenaltyForcedHandoff,
			Message: "intent is on the tenant force-handoff list",
			Value:   0,
		})
		v.ForceEscalate = true
	}

	if len(in.Sources.Sources) == 0 {
		v.Penalties = append(v.Penalties, entity.Penalty{
			Code:    entity.PenaltyNoSources,
			Message: "no supporting sources were retrieved",
			Value:   penaltyNoSources,
		})
	}

	if in.Intent == entity.IntentPrice && !in.Sources.PriceFound {
		v.Penalties = append(v.Penalties, entity.Penalty{
			Code:    entity.PenaltyPriceNotFound,
			Message: "customer asks about price but no price appears in the evidence",
			Value:   penaltyPriceNotFound,
		})
		v.MissingFields = append(v.MissingFields, "price")
	}

	if in.Intent == entity.IntentAvailability && !in.Sources.StockFound {
		v.Penalties = append(v.Penalties, entity.Penalty{
			Code:    entity.PenaltyStockUnknown,
			Message: "customer asks about availability but no stock signal appears in the evidence",
			Value:   penaltyStockUnknown,
		})
		v.MissingFields = append(v.MissingFields, "stock")
	}

	if in.Sources.Conflicts {
		v.Penalties = append(v.Penalties, entity.Penalty{
			Code:    entity.PenaltyPriceConflict,
			Message: "sources disagree on price",
			Value:   penaltyPriceConflict,
		})
	}

	if in.Sources.HasStaleData {
		// Stale pricing is never auto-sendable, regardless of confidence.
		v.Penalties = append(v.Penalties, entity.Penalty{
			Code:    entity.PenaltyStaleData,
			Message: "price data is older than the staleness window",
			Value:   penaltyStaleData,
		})
		v.ForceEscalate = true
	}

	if in.Sources.LowSimilarity {
		v.Penalties = append(v.Penalties, entity.Penalty{
			Code:    entity.PenaltyLowSimilarity,
			Message: "retrieved sources only weakly match the question",
			Value:   penaltyLowSimilarity,
		})
	}

	if in.SelfCheckScore < selfCheckLowThreshold {
		v.Penalties = append(v.Penalties, entity.Penalty{
			Code:    entity.PenaltySelfCheckLow,
			Message: "self-check scored the draft below the trust threshold",
			Value:   penaltySelfCheckLow,
		})
	}

	return v
}
