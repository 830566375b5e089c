// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	actionBuiltin "github.com/AccelByte/extend-mercado-lp/pkg/action/builtin"
	"github.com/AccelByte/extend-mercado-lp/pkg/pipeline"
	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
)

func newDefaultManager(t *testing.T) *pipeline.Manager {
	t.Helper()

	cfg, err := pipeline.DefaultConfig()
	require.NoError(t, err)

	deps := &actionBuiltin.Dependencies{
		Badges: progression.NewEngine(progression.DefaultTable(), nil),
	}
	manager, err := InitPipeline(cfg, deps, nil)
	require.NoError(t, err)
	return manager
}

func TestInitPipeline_FirstSwap(t *testing.T) {
	manager := newDefaultManager(t)

	player := progression.NewPlayer("p1", nil)
	player.Stats.Swaps = 1
	pc := signal.NewPlayerContext(player, 0, 0, nil)

	result, err := manager.Process(context.Background(), signal.Activity{
		Kind:      signal.TypeSwapExecuted,
		UserID:    "p1",
		Timestamp: time.Now(),
		Value:     40,
	}, pc)
	require.NoError(t, err)

	assert.Equal(t, []string{"first-swap"}, result.Fired)
	assert.Equal(t, []string{progression.BadgeFirstSwap}, result.Effects.Badges)
	assert.Equal(t, []signal.XPGrant{{Amount: 25, Source: "first-swap"}}, result.Effects.XP)
	assert.True(t, pc.FiredRules["first-swap"])

	// same player, next swap: nothing left to unlock
	player.Stats.Swaps = 2
	player.Badges = []string{progression.BadgeFirstSwap}
	again := signal.NewPlayerContext(player, 0, 0, pc.FiredRules)
	result, err = manager.Process(context.Background(), signal.Activity{
		Kind: signal.TypeSwapExecuted, UserID: "p1", Timestamp: time.Now(), Value: 5,
	}, again)
	require.NoError(t, err)
	assert.Empty(t, result.Fired)
	assert.True(t, result.Effects.Empty())
}

func TestInitPipeline_LevelMilestoneRaisesNFTClaim(t *testing.T) {
	manager := newDefaultManager(t)

	player := progression.NewPlayer("p1", nil)
	player.Level = 5
	pc := signal.NewPlayerContext(player, 0, 0, nil)

	result, err := manager.Process(context.Background(), signal.Activity{
		Kind:      signal.TypeLevelUp,
		UserID:    "p1",
		Timestamp: time.Now(),
		Value:     5,
		Metadata:  map[string]interface{}{"from": 4},
	}, pc)
	require.NoError(t, err)

	assert.Equal(t, []string{"market-maker"}, result.Fired)
	assert.Contains(t, result.Effects.Badges, progression.BadgeMarketMaker)
	assert.True(t, result.Effects.NFTClaim)
}

func TestInitPipeline_LeaguePodiumWithoutPlatform(t *testing.T) {
	manager := newDefaultManager(t)

	pc := signal.NewPlayerContext(progression.NewPlayer("p1", nil), 0, 2, nil)
	result, err := manager.Process(context.Background(), signal.Activity{
		Kind:      signal.TypeLeagueRanked,
		UserID:    "p1",
		Timestamp: time.Now(),
		Value:     2,
		Metadata:  map[string]interface{}{"volume": 120.0},
	}, pc)
	require.NoError(t, err)

	// publish_stat degrades to a no-op without a statistic publisher
	assert.Equal(t, []string{"league-podium"}, result.Fired)
	assert.Equal(t, []string{progression.BadgeLeagueTop3}, result.Effects.Badges)
}

func TestInitPipeline_UnknownBadgeRejected(t *testing.T) {
	cfg, err := pipeline.ParseConfig([]byte(`
rules:
  - id: r
    type: stat_threshold
    enabled: true
    actions: [bad-badge]
    parameters: {stat: swaps}
actions:
  - id: bad-badge
    type: award_badge
    enabled: true
    parameters: {badge: not_a_badge}
`))
	require.NoError(t, err)

	_, err = InitPipeline(cfg, &actionBuiltin.Dependencies{
		Badges: progression.NewEngine(progression.DefaultTable(), nil),
	}, nil)
	assert.Error(t, err)
}
