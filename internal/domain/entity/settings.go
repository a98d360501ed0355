package entity

// DecisionSettings is the per-call configuration snapshot for one tenant,
// fetched once per decision and read-only afterwards. EngineEnabled and
// AutosendFlagEnabled carry the global flags folded into the snapshot so the
// pipeline never reads ambient state.
type DecisionSettings struct {
	EngineEnabled       bool `json:"engine_enabled"`
	AutosendFlagEnabled bool `json:"autosend_flag_enabled"`

	TAuto     float64 `json:"t_auto"`
	TEscalate float64 `json:"t_escalate"`

	AutosendAllowed        bool     `json:"autosend_allowed"`
	IntentsAutosendAllowed []Intent `json:"intents_autosend_allowed,omitempty"`
	IntentsForceHandoff    []Intent `json:"intents_force_handoff,omitempty"`

	// IntentsAlwaysApprove is the tenant training policy: intents whose
	// AUTO_SEND outcomes are demoted to NEED_APPROVAL.
	IntentsAlwaysApprove []Intent `json:"intents_always_approve,omitempty"`
}

// DefaultDecisionSettings are the hardcoded safe defaults used when a tenant
// has no settings record: moderate thresholds, autosend disabled.
func DefaultDecisionSettings() DecisionSettings {
	return DecisionSettings{
		EngineEnabled:       true,
		AutosendFlagEnabled: false,
		TAuto:               0.80,
		TEscalate:           0.40,
		AutosendAllowed:     false,
	}
}

// Normalized clamps both thresholds into [0,1] and restores the
// 0 <= TEscalate <= TAuto <= 1 invariant.
func (s DecisionSettings) Normalized() DecisionSettings {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	s.TAuto = clamp(s.TAuto)
	s.TEscalate = clamp(s.TEscalate)
	if s.TEscalate > s.TAuto {
		s.TEscalate = s.TAuto
	}
	return s
}

// ForcesHandoff reports whether the intent is on the tenant's force-handoff
// list.
func (s DecisionSettings) ForcesHandoff(i Intent) bool {
	return containsIntent(s.IntentsForceHandoff, i)
}

// AllowsAutosend reports whether the intent is on the tenant's autosend
// allowlist.
func (s DecisionSettings) AllowsAutosend(i Intent) bool {
	return containsIntent(s.IntentsAutosendAllowed, i)
}

// AlwaysApproves reports whether the training policy demotes this intent.
func (s DecisionSettings) AlwaysApproves(i Intent) bool {
	return containsIntent(s.IntentsAlwaysApprove, i)
}

func containsIntent(list []Intent, i Intent) bool {
	for _, candidate := range list {
		if candidate == i {
			return true
		}
	}
	return false
}
