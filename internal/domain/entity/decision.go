package entity

import "time"

// Decision is the terminal outcome for one inbound message.
type Decision string

const (
	DecisionAutoSend     Decision = "auto_send"
	DecisionNeedApproval Decision = "need_approval"
	DecisionEscalate     Decision = "escalate"
)

// PenaltyCode identifies a deterministic risk rule.
type PenaltyCode string

const (
	PenaltyForcedHandoff PenaltyCode = "FORCED_HANDOFF"
	PenaltyNoSources     PenaltyCode = "NO_SOURCES"
	PenaltyPriceNotFound PenaltyCode = "PRICE_NOT_FOUND"
	PenaltyStockUnknown  PenaltyCode = "STOCK_UNKNOWN"
	PenaltyPriceConflict PenaltyCode = "PRICE_CONFLICT"
	PenaltyStaleData     PenaltyCode = "STALE_DATA"
	PenaltyLowSimilarity PenaltyCode = "LOW_SIMILARITY"
	PenaltySelfCheckLow  PenaltyCode = "SELF_CHECK_LOW"
)

// Penalty is a signed confidence adjustment. Value is always <= 0; the single
// zero-value case is PenaltyForcedHandoff, which signals an override without
// reducing the score.
type Penalty struct {
	Code    PenaltyCode `json:"code"`
	Message string      `json:"message"`
	Value   float64     `json:"value"`
}

// ConfidenceBreakdown keeps the raw sub-scores alongside the clamped total so
// every decision stays explainable.
type ConfidenceBreakdown struct {
	Total      float64 `json:"total"`
	Similarity float64 `json:"similarity"`
	Intent     float64 `json:"intent"`
	SelfCheck  float64 `json:"self_check"`
}

// BlockReason names the first autosend lock or guardrail that failed.
type BlockReason string

const (
	BlockFlagOff           BlockReason = "FLAG_OFF"
	BlockSettingOff        BlockReason = "SETTING_OFF"
	BlockIntentNotAllowed  BlockReason = "INTENT_NOT_ALLOWED"
	BlockSelfCheckHandoff  BlockReason = "SELF_CHECK_HANDOFF"
	BlockPriceInIdentReply BlockReason = "PRICE_IN_IDENTIFICATION_REPLY"
)

// GeneratedReply is the candidate reply and intent classification produced by
// the reply generator, already validated at the boundary.
type GeneratedReply struct {
	Text             string         `json:"text"`
	Intent           Intent         `json:"intent"`
	IntentConfidence float64        `json:"intent_confidence"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// SelfCheckReport is the second, independent verification pass over an
// already-generated reply.
type SelfCheckReport struct {
	Score        float64  `json:"score"`
	NeedsHandoff bool     `json:"needs_handoff"`
	Reasons      []string `json:"reasons,omitempty"`
}

// DecisionResult is the engine's sole output, consumed by the
// sending/approval pipeline downstream.
type DecisionResult struct {
	ID                  string              `json:"id"`
	TenantID            string              `json:"tenant_id"`
	Reply               string              `json:"reply"`
	Intent              Intent              `json:"intent"`
	Confidence          ConfidenceBreakdown `json:"confidence"`
	Decision            Decision            `json:"decision"`
	Explanations        []string            `json:"explanations,omitempty"`
	Penalties           []Penalty           `json:"penalties,omitempty"`
	MissingFields       []string            `json:"missing_fields,omitempty"`
	UsedSources         []UsedSource        `json:"used_sources,omitempty"`
	AutosendEligible    bool                `json:"autosend_eligible"`
	AutosendBlockReason BlockReason         `json:"autosend_block_reason,omitempty"`
	SelfCheckHandoff    bool                `json:"self_check_handoff"`
	SelfCheckReasons    []string            `json:"self_check_reasons,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
}
