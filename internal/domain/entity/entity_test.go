package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	require.Equal(t, IntentPrice, ParseIntent("price"))
	require.Equal(t, IntentPrice, ParseIntent("  PRICE "))
	require.Equal(t, IntentVinLookup, ParseIntent("vin_lookup"))
	require.Equal(t, IntentOther, ParseIntent("refund_everything"))
	require.Equal(t, IntentOther, ParseIntent(""))
}

func TestIntentIsIdentification(t *testing.T) {
	require.True(t, IntentVinLookup.IsIdentification())
	require.True(t, IntentFrameLookup.IsIdentification())
	require.False(t, IntentPrice.IsIdentification())
	require.False(t, IntentOther.IsIdentification())
}

func TestDecisionSettingsNormalized(t *testing.T) {
	s := DecisionSettings{TAuto: 0.5, TEscalate: 0.9}.Normalized()
	require.Equal(t, 0.5, s.TAuto)
	require.Equal(t, 0.5, s.TEscalate, "escalate threshold is capped at the auto threshold")

	s = DecisionSettings{TAuto: 1.7, TEscalate: -0.2}.Normalized()
	require.Equal(t, 1.0, s.TAuto)
	require.Equal(t, 0.0, s.TEscalate)
}

func TestDefaultDecisionSettingsAreFailSafe(t *testing.T) {
	s := DefaultDecisionSettings()
	require.True(t, s.EngineEnabled)
	require.False(t, s.AutosendFlagEnabled)
	require.False(t, s.AutosendAllowed)
	require.Equal(t, 0.80, s.TAuto)
	require.Equal(t, 0.40, s.TEscalate)
}

func TestChunkFilterMatches(t *testing.T) {
	chunk := StoredChunk{Metadata: map[string]string{"category": "gearbox", "sku": "JF011E"}}

	require.True(t, ChunkFilter{}.Matches(chunk))
	require.True(t, ChunkFilter{Category: "gearbox"}.Matches(chunk))
	require.False(t, ChunkFilter{Category: "engine"}.Matches(chunk))
	require.False(t, ChunkFilter{SKU: "DP0"}.Matches(chunk))

	// Chunks without the metadata key pass the filter.
	bare := StoredChunk{}
	require.True(t, ChunkFilter{Category: "gearbox"}.Matches(bare))
}
