package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStagePointsConfig(t *testing.T) {
	cfg := DefaultStagePointsConfig()

	assert.Equal(t, 2, cfg.WinPoints)
	assert.Equal(t, 1, cfg.TiePoints)
	assert.Equal(t, 1, cfg.DrawPoints)
	assert.Equal(t, 1, cfg.AbandonedPoints)
	assert.Equal(t,
		[]string{TieBreakPoints, TieBreakNetRunRate, TieBreakWins, TieBreakHeadToHead, TieBreakSeed},
		cfg.TieBreakerOrder)
	assert.NoError(t, cfg.Validate())
}

func TestStagePointsConfigValidate(t *testing.T) {
	cfg := DefaultStagePointsConfig()
	cfg.WinPoints = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultStagePointsConfig()
	cfg.TieBreakerOrder = []string{"alphabetical"}
	assert.Error(t, cfg.Validate())

	cfg = DefaultStagePointsConfig()
	cfg.TieBreakerOrder = []string{TieBreakPoints, TieBreakPoints}
	assert.Error(t, cfg.Validate())
}

func TestParsePointsConfig(t *testing.T) {
	t.Run("nil metadata falls back to defaults", func(t *testing.T) {
		assert.Equal(t, DefaultStagePointsConfig(), ParsePointsConfig(nil))
	})

	t.Run("malformed metadata falls back to defaults", func(t *testing.T) {
		bad := `{not json`
		assert.Equal(t, DefaultStagePointsConfig(), ParsePointsConfig(&bad))
	})

	t.Run("metadata without config falls back to defaults", func(t *testing.T) {
		other := `{"broadcast":{"channel":"sky"}}`
		assert.Equal(t, DefaultStagePointsConfig(), ParsePointsConfig(&other))
	})

	t.Run("stored config is returned", func(t *testing.T) {
		stored := `{"points_config":{"win_points":3,"tie_points":2,"draw_points":1,"abandoned_points":0,"tie_breaker_order":["points","seed"]}}`
		cfg := ParsePointsConfig(&stored)
		assert.Equal(t, 3, cfg.WinPoints)
		assert.Equal(t, 0, cfg.AbandonedPoints)
		assert.Equal(t, []string{TieBreakPoints, TieBreakSeed}, cfg.TieBreakerOrder)
	})

	t.Run("empty tie break order gets defaults", func(t *testing.T) {
		stored := `{"points_config":{"win_points":4}}`
		cfg := ParsePointsConfig(&stored)
		assert.Equal(t, 4, cfg.WinPoints)
		assert.Equal(t, DefaultStagePointsConfig().TieBreakerOrder, cfg.TieBreakerOrder)
	})
}

func TestMergePointsConfigPreservesUnknownKeys(t *testing.T) {
	existing := `{"broadcast":{"channel":"sky"},"points_config":{"win_points":2}}`
	cfg := DefaultStagePointsConfig()
	cfg.WinPoints = 3

	merged, err := MergePointsConfig(&existing, cfg)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(merged), &raw))
	assert.Contains(t, raw, "broadcast")
	assert.JSONEq(t, `{"channel":"sky"}`, string(raw["broadcast"]))

	assert.Equal(t, 3, ParsePointsConfig(&merged).WinPoints)
}

func TestMergePointsConfigFromEmptyMetadata(t *testing.T) {
	merged, err := MergePointsConfig(nil, DefaultStagePointsConfig())
	require.NoError(t, err)
	assert.Equal(t, DefaultStagePointsConfig(), ParsePointsConfig(&merged))
}
