package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"replygate-core/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

const (
	engineEnabledKey   = "replygate:engine:enabled"
	autosendEnabledKey = "replygate:autosend:enabled"
	settingsKeyPrefix  = "replygate:settings:"
)

// RedisSettingsStore serves per-tenant DecisionSettings snapshots and folds
// the two global flags into each snapshot, so the pipeline never reads
// ambient state. Missing keys fall back to safe defaults; only transport
// errors surface as hard errors.
type RedisSettingsStore struct {
	client *redis.Client
}

func NewRedisSettingsStore(client *redis.Client) *RedisSettingsStore {
	return &RedisSettingsStore{client: client}
}

func (r *RedisSettingsStore) Fetch(ctx context.Context, tenantID string) (entity.DecisionSettings, error) {
	settings := entity.DefaultDecisionSettings()

	raw, err := r.client.Get(ctx, settingsKeyPrefix+tenantID).Result()
	switch {
	case err == redis.Nil:
		// No record for this tenant: hardcoded safe defaults.
	case err != nil:
		return settings, fmt.Errorf("%w: %v", entity.ErrSettingsUnavailable, err)
	default:
		if jsonErr := json.Unmarshal([]byte(raw), &settings); jsonErr != nil {
			log.Printf("[SETTINGS] malformed settings for tenant %s, using defaults: %v", tenantID, jsonErr)
			settings = entity.DefaultDecisionSettings()
		}
	}

	enabled, err := r.fetchFlag(ctx, engineEnabledKey, true)
	if err != nil {
		return settings, err
	}
	settings.EngineEnabled = enabled

	autosend, err := r.fetchFlag(ctx, autosendEnabledKey, false)
	if err != nil {
		return settings, err
	}
	settings.AutosendFlagEnabled = autosend

	return settings.Normalized(), nil
}

// fetchFlag reads a "0"/"1" flag, falling back to the given default when the
// key is unset.
func (r *RedisSettingsStore) fetchFlag(ctx context.Context, key string, fallback bool) (bool, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("%w: %v", entity.ErrSettingsUnavailable, err)
	}
	return raw == "1" || raw == "true", nil
}
