package models

import (
	"encoding/json"
	"fmt"
)

// TieBreaker keys accepted in StagePointsConfig.TieBreakerOrder.
const (
	TieBreakPoints     = "points"
	TieBreakNetRunRate = "net_run_rate"
	TieBreakWins       = "wins"
	TieBreakHeadToHead = "head_to_head"
	TieBreakSeed       = "seed"
)

// StagePointsConfig задаёт начисление очков и порядок тай-брейков этапа.
// Хранится сериализованной внутри stage.metadata; внутри сервиса всегда
// используется типизированное значение, сырой JSON не покидает эту границу.
type StagePointsConfig struct {
	WinPoints       int      `json:"win_points"`
	TiePoints       int      `json:"tie_points"`
	DrawPoints      int      `json:"draw_points"`
	AbandonedPoints int      `json:"abandoned_points"`
	TieBreakerOrder []string `json:"tie_breaker_order"`
}

// DefaultStagePointsConfig returns the cricket defaults: win 2, tie/draw/abandoned 1,
// tie-breaks points > net run rate > wins > head-to-head > seed.
func DefaultStagePointsConfig() StagePointsConfig {
	return StagePointsConfig{
		WinPoints:       2,
		TiePoints:       1,
		DrawPoints:      1,
		AbandonedPoints: 1,
		TieBreakerOrder: []string{TieBreakPoints, TieBreakNetRunRate, TieBreakWins, TieBreakHeadToHead, TieBreakSeed},
	}
}

func (c StagePointsConfig) Validate() error {
	if c.WinPoints < 0 || c.TiePoints < 0 || c.DrawPoints < 0 || c.AbandonedPoints < 0 {
		return fmt.Errorf("point values must not be negative")
	}
	seen := make(map[string]bool, len(c.TieBreakerOrder))
	for _, key := range c.TieBreakerOrder {
		switch key {
		case TieBreakPoints, TieBreakNetRunRate, TieBreakWins, TieBreakHeadToHead, TieBreakSeed:
		default:
			return fmt.Errorf("unrecognized tie breaker key %q", key)
		}
		if seen[key] {
			return fmt.Errorf("duplicate tie breaker key %q", key)
		}
		seen[key] = true
	}
	return nil
}

// stageMetadata is the persisted shape of the stage metadata blob. Only the
// points config is owned by this service; unknown keys are preserved as-is.
type stageMetadata struct {
	PointsConfig *StagePointsConfig `json:"points_config,omitempty"`
}

// ParsePointsConfig extracts the points config from a stage metadata blob,
// falling back to defaults when the blob is absent or carries no config.
func ParsePointsConfig(metadata *string) StagePointsConfig {
	if metadata == nil || *metadata == "" {
		return DefaultStagePointsConfig()
	}
	var meta stageMetadata
	if err := json.Unmarshal([]byte(*metadata), &meta); err != nil || meta.PointsConfig == nil {
		return DefaultStagePointsConfig()
	}
	cfg := *meta.PointsConfig
	if len(cfg.TieBreakerOrder) == 0 {
		cfg.TieBreakerOrder = DefaultStagePointsConfig().TieBreakerOrder
	}
	return cfg
}

// MergePointsConfig serializes cfg into an existing metadata blob, keeping any
// unrelated keys other subsystems may have stored there.
func MergePointsConfig(metadata *string, cfg StagePointsConfig) (string, error) {
	raw := make(map[string]json.RawMessage)
	if metadata != nil && *metadata != "" {
		if err := json.Unmarshal([]byte(*metadata), &raw); err != nil {
			return "", fmt.Errorf("invalid stage metadata: %w", err)
		}
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	raw["points_config"] = cfgJSON
	merged, err := json.Marshal(raw)
	if err != nil {
		return "", err
	}
	return string(merged), nil
}
