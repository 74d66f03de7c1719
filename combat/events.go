package combat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kasuganosora/campaign-table/cache"
	"github.com/kasuganosora/campaign-table/plugin/hook"
	"go.uber.org/zap"
)

// EventChannel is the pub/sub channel carrying table events to SSE and
// WebSocket clients.
const EventChannel = "table:events"

// Event describes one change of the table.
type Event struct {
	Type          string     `json:"type"`
	Combatant     *Combatant `json:"combatant,omitempty"`
	CombatantID   string     `json:"combatant_id,omitempty"`
	CombatStarted bool       `json:"combat_started"`
	At            time.Time  `json:"at"`
}

// PublishHook forwards every table event to ps as JSON.
func PublishHook(ps cache.PubSub, logger *zap.Logger) hook.HookFn {
	return func(ctx context.Context, event string, data interface{}) (interface{}, error) {
		payload, err := json.Marshal(data)
		if err != nil {
			logger.Warn("table event not serializable", zap.String("event", event), zap.Error(err))
			return data, nil
		}
		if err := ps.Publish(context.WithoutCancel(ctx), EventChannel, string(payload)); err != nil {
			logger.Warn("table event publish failed", zap.String("event", event), zap.Error(err))
		}
		return data, nil
	}
}
