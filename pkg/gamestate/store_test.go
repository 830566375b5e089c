// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/market"
	"github.com/AccelByte/extend-mercado-lp/pkg/notify"
	"github.com/AccelByte/extend-mercado-lp/pkg/position"
	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/session"
	"github.com/AccelByte/extend-mercado-lp/pkg/state"
	"github.com/AccelByte/extend-mercado-lp/pkg/token"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// flakyKV fails every call while down is set.
type flakyKV struct {
	*state.MemoryKV
	down atomic.Bool
}

var errBackendDown = errors.New("backend down")

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.down.Load() {
		return nil, errBackendDown
	}
	return f.MemoryKV.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if f.down.Load() {
		return errBackendDown
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func (f *flakyKV) Ping(ctx context.Context) error {
	if f.down.Load() {
		return errBackendDown
	}
	return nil
}

// quietMarket never spawns market events.
func quietMarket(seed int64) *market.Generator {
	return market.NewGenerator(seed, 0, time.Minute)
}

func testConfig() Config {
	return Config{
		Events: quietMarket,
		Seed:   1,
		Clock:  func() time.Time { return testNow },
	}
}

func newTestStore(t *testing.T, persist *state.Store, cfg Config) *Store {
	t.Helper()
	s := New("p1", persist, cfg)
	require.NoError(t, s.Restore(context.Background()))
	return s
}

func TestStore_ActionBeforeRestore(t *testing.T) {
	s := New("p1", nil, testConfig())

	_, err := s.Swap(context.Background(), SwapRequest{TokenIn: token.QuoteTokenID, TokenOut: "mango", AmountIn: 10})
	assert.ErrorIs(t, err, gameerr.ErrNotFound)
	assert.False(t, s.View().IsLoaded)
}

func TestStore_Swap(t *testing.T) {
	s := newTestStore(t, nil, testConfig())
	ctx := context.Background()

	res, err := s.Swap(ctx, SwapRequest{TokenIn: token.QuoteTokenID, TokenOut: "mango", AmountIn: 10, SlippageBps: 100})
	require.NoError(t, err)

	v := res.View
	assert.True(t, v.IsLoaded)
	assert.InDelta(t, 990, v.Player.Wallet[token.QuoteTokenID], 1e-9)
	assert.Greater(t, v.Player.Wallet["mango"], 50.0)
	assert.Equal(t, int64(1), v.Player.Stats.Swaps)
	assert.Equal(t, int64(XPSwap), v.Player.XP)

	for _, p := range v.Pools {
		if p.ID == "mango-peso" {
			// the fee stays out of the reserves
			assert.InDelta(t, 509.97, p.ReserveB, 1e-9)
			assert.Less(t, p.ReserveA, 1000.0)
		}
	}
	for _, e := range v.TradingLeague {
		if e.IsPlayer {
			assert.Greater(t, e.Volume, 0.0)
		}
	}
}

func TestStore_Swap_Rejected(t *testing.T) {
	s := newTestStore(t, nil, testConfig())
	ctx := context.Background()

	tests := []struct {
		name string
		req  SwapRequest
		want error
	}{
		{"insufficient balance", SwapRequest{TokenIn: token.QuoteTokenID, TokenOut: "mango", AmountIn: 5000}, gameerr.ErrInsufficientBalance},
		{"unknown token", SwapRequest{TokenIn: token.QuoteTokenID, TokenOut: "nope", AmountIn: 1}, gameerr.ErrNotFound},
		{"slippage", SwapRequest{TokenIn: token.QuoteTokenID, TokenOut: "mango", AmountIn: 10, MinAmountOut: 1000}, gameerr.ErrSlippageExceeded},
		{"zero amount", SwapRequest{TokenIn: token.QuoteTokenID, TokenOut: "mango", AmountIn: 0}, gameerr.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Swap(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// rejected actions leave state untouched
	v := s.View()
	assert.Equal(t, 1000.0, v.Player.Wallet[token.QuoteTokenID])
	assert.Zero(t, v.Player.Stats.Swaps)
}

func TestStore_AddAndRemoveLiquidity(t *testing.T) {
	s := newTestStore(t, nil, testConfig())
	ctx := context.Background()

	res, err := s.AddLiquidity(ctx, AddLiquidityRequest{PoolID: "mango-peso", AmountA: 40, AmountB: 20})
	require.NoError(t, err)
	require.Len(t, res.View.Positions, 1)

	pos := res.View.Positions[0]
	assert.Greater(t, pos.SharePercent, 0.0)
	assert.InDelta(t, 10, res.View.Player.Wallet["mango"], 1e-9)
	assert.Equal(t, 1, res.View.MarketMakerStats.OpenPositions)
	assert.LessOrEqual(t, position.ShareSum(s.Snapshot().Positions, "mango-peso"), 100.0+1e-9)

	// npc trades accrue fees to the position
	_, err = s.Tick(ctx)
	require.NoError(t, err)

	res, err = s.RemoveLiquidity(ctx, RemoveLiquidityRequest{PositionID: pos.ID, Fraction: 1})
	require.NoError(t, err)
	assert.Empty(t, res.View.Positions)
	assert.Greater(t, res.View.Player.Wallet["mango"], 10.0)
	assert.LessOrEqual(t, position.ShareSum(s.Snapshot().Positions, "mango-peso"), 100.0+1e-9)

	_, err = s.RemoveLiquidity(ctx, RemoveLiquidityRequest{PositionID: "house-mango-peso", Fraction: 1})
	assert.ErrorIs(t, err, gameerr.ErrNotFound)
}

func TestStore_AddLiquidity_RatioMismatch(t *testing.T) {
	s := newTestStore(t, nil, testConfig())

	_, err := s.AddLiquidity(context.Background(), AddLiquidityRequest{PoolID: "mango-peso", AmountA: 40, AmountB: 40})
	assert.ErrorIs(t, err, gameerr.ErrRatioMismatch)
	assert.Empty(t, s.View().Positions)
}

func twoLevelConfig(t *testing.T) Config {
	t.Helper()
	table, err := progression.NewTable([]int64{0, XPSwap})
	require.NoError(t, err)
	cfg := testConfig()
	cfg.Progression = progression.NewEngine(table, nil)
	return cfg
}

func TestStore_LevelUpNotification(t *testing.T) {
	s := newTestStore(t, nil, twoLevelConfig(t))
	ctx := context.Background()

	res, err := s.Swap(ctx, SwapRequest{TokenIn: token.QuoteTokenID, TokenOut: "mango", AmountIn: 10})
	require.NoError(t, err)

	require.NotNil(t, res.Notification)
	assert.Equal(t, notify.CategoryLevelUp, res.Notification.Category)
	assert.Equal(t, 2, res.Notification.To)
	require.NotNil(t, res.View.LevelUpNotification)
	require.NotNil(t, res.View.LoginPrompt)
	assert.Equal(t, notify.LoginLevelUp, res.View.LoginPrompt.Reason)

	res, err = s.DismissLevelUp(ctx)
	require.NoError(t, err)
	assert.Nil(t, res.View.LevelUpNotification)

	_, err = s.DismissLevelUp(ctx)
	assert.ErrorIs(t, err, gameerr.ErrNotFound)

	res, err = s.DismissLoginPrompt(ctx)
	require.NoError(t, err)
	assert.Nil(t, res.View.LoginPrompt)
}

func TestStore_LoginPrompt(t *testing.T) {
	swap := SwapRequest{TokenIn: token.QuoteTokenID, TokenOut: "mango", AmountIn: 10}

	t.Run("suppressed", func(t *testing.T) {
		s := newTestStore(t, nil, twoLevelConfig(t))
		ctx := context.Background()

		_, err := s.SuppressLoginPrompt(ctx, notify.LoginLevelUp)
		require.NoError(t, err)
		res, err := s.Swap(ctx, swap)
		require.NoError(t, err)
		assert.Nil(t, res.View.LoginPrompt)
	})

	t.Run("authenticated", func(t *testing.T) {
		s := newTestStore(t, nil, twoLevelConfig(t))
		ctx := WithUser(context.Background(), &User{ID: "u1"})

		res, err := s.Swap(ctx, swap)
		require.NoError(t, err)
		assert.NotNil(t, res.View.LevelUpNotification)
		assert.Nil(t, res.View.LoginPrompt)
	})

	t.Run("unknown reason", func(t *testing.T) {
		s := newTestStore(t, nil, testConfig())
		_, err := s.SuppressLoginPrompt(context.Background(), "bogus")
		assert.ErrorIs(t, err, gameerr.ErrNotFound)
	})

	t.Run("dismiss without prompt", func(t *testing.T) {
		s := newTestStore(t, nil, testConfig())
		_, err := s.DismissLoginPrompt(context.Background())
		assert.ErrorIs(t, err, gameerr.ErrNotFound)
	})
}

func TestStore_DailyBonus(t *testing.T) {
	s := newTestStore(t, nil, testConfig())
	ctx := context.Background()

	res, err := s.ClaimDailyBonus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.View.StreakState.CurrentStreak)
	assert.Positive(t, res.View.Player.XP)

	_, err = s.ClaimDailyBonus(ctx)
	assert.ErrorIs(t, err, gameerr.ErrNoRewardAvailable)

	_, err = s.ClaimAllCompletedBonus(ctx)
	assert.ErrorIs(t, err, gameerr.ErrNoRewardAvailable)
}

func TestStore_SessionFlow(t *testing.T) {
	s := newTestStore(t, nil, testConfig())
	ctx := context.Background()

	_, err := s.SetCurrentLevel(ctx, session.StageSwap)
	assert.ErrorIs(t, err, gameerr.ErrInvalidTransition)

	res, err := s.SelectRole(ctx, session.RoleTrader)
	require.NoError(t, err)
	assert.Equal(t, session.StageOnboarding, res.View.CurrentLevel)

	res, err = s.CompleteOnboarding(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.StageMarketPlazaMap, res.View.CurrentLevel)
	assert.Equal(t, int64(XPOnboarding), res.View.Player.XP)

	_, err = s.SetCurrentLevel(ctx, session.StageTradingLeague)
	assert.ErrorIs(t, err, gameerr.ErrLevelLocked)

	res, err = s.SetCurrentLevel(ctx, session.StageSwap)
	require.NoError(t, err)
	require.NotNil(t, res.View.ActiveTip)
	assert.Equal(t, "tip:swap", res.View.ActiveTip.Key)

	_, err = s.DismissTip(ctx)
	require.NoError(t, err)

	// tips fire on the first visit only
	_, err = s.SetCurrentLevel(ctx, session.StageMarketPlazaMap)
	require.NoError(t, err)
	res, err = s.SetCurrentLevel(ctx, session.StageSwap)
	require.NoError(t, err)
	assert.Nil(t, res.View.ActiveTip)

	res, err = s.OpenMap(ctx)
	require.NoError(t, err)
	assert.True(t, res.View.MapOpen)
	res, err = s.CloseMap(ctx)
	require.NoError(t, err)
	assert.False(t, res.View.MapOpen)
}

func TestStore_SetPlayerCharacterName(t *testing.T) {
	s := newTestStore(t, nil, testConfig())
	ctx := context.Background()

	res, err := s.SetPlayerCharacterName(ctx, "  Doña Lupe ")
	require.NoError(t, err)
	assert.Equal(t, "Doña Lupe", res.View.Player.CharacterName)
	for _, e := range res.View.TradingLeague {
		if e.IsPlayer {
			assert.Equal(t, "Doña Lupe", e.Name)
		}
	}

	_, err = s.SetPlayerCharacterName(ctx, "   ")
	assert.ErrorIs(t, err, gameerr.ErrInvalidAmount)
	_, err = s.SetPlayerAvatar(ctx, "")
	assert.ErrorIs(t, err, gameerr.ErrInvalidAmount)
}

func TestStore_RestoreFromBackend(t *testing.T) {
	persist := state.NewStore(state.NewMemoryKV())
	ctx := context.Background()

	first := newTestStore(t, persist, testConfig())
	_, err := first.Swap(ctx, SwapRequest{TokenIn: token.QuoteTokenID, TokenOut: "mango", AmountIn: 10})
	require.NoError(t, err)
	_, err = first.SelectRole(ctx, session.RoleTrader)
	require.NoError(t, err)
	_, err = first.SkipOnboarding(ctx)
	require.NoError(t, err)

	second := newTestStore(t, persist, testConfig())
	v := second.View()
	assert.Equal(t, int64(1), v.Player.Stats.Swaps)
	assert.InDelta(t, 990, v.Player.Wallet[token.QuoteTokenID], 1e-9)
	assert.Equal(t, session.StageMarketPlazaMap, v.CurrentLevel)

	done, err := persist.Flag(ctx, "p1", state.KeyOnboardingComplete)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestStore_PersistenceDegradesAndRecovers(t *testing.T) {
	kv := &flakyKV{MemoryKV: state.NewMemoryKV()}
	kv.down.Store(true)
	persist := state.NewStore(kv)
	ctx := context.Background()

	s := newTestStore(t, persist, testConfig())
	assert.True(t, s.MemoryOnly())

	res, err := s.Swap(ctx, SwapRequest{TokenIn: token.QuoteTokenID, TokenOut: "mango", AmountIn: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, res.View.PersistenceWarning)
	assert.Equal(t, int64(1), res.View.Player.Stats.Swaps)

	// the warning is surfaced once
	assert.Empty(t, s.View().PersistenceWarning)

	kv.down.Store(false)
	_, err = s.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, s.MemoryOnly())

	snap, found, err := persist.LoadSnapshot(ctx, "p1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(1), snap.Player.Stats.Swaps)
}

func TestStore_RestoreWhileBackendDown(t *testing.T) {
	kv := &flakyKV{MemoryKV: state.NewMemoryKV()}
	persist := state.NewStore(kv)
	ctx := context.Background()
	swap := SwapRequest{TokenIn: token.QuoteTokenID, TokenOut: "mango", AmountIn: 10}

	first := newTestStore(t, persist, testConfig())
	for i := 0; i < 3; i++ {
		_, err := first.Swap(ctx, swap)
		require.NoError(t, err)
	}
	_, err := first.SelectRole(ctx, session.RoleTrader)
	require.NoError(t, err)
	_, err = first.SkipOnboarding(ctx)
	require.NoError(t, err)

	kv.down.Store(true)
	second := newTestStore(t, persist, testConfig())
	require.True(t, second.MemoryOnly())
	assert.Zero(t, second.View().Player.Stats.Swaps)

	// a tick while still down must not write anything
	_, err = second.Tick(ctx)
	require.NoError(t, err)

	kv.down.Store(false)
	res, err := second.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, second.MemoryOnly())
	assert.Equal(t, int64(3), res.View.Player.Stats.Swaps)
	assert.Equal(t, session.StageMarketPlazaMap, res.View.CurrentLevel)

	snap, found, err := persist.LoadSnapshot(ctx, "p1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(3), snap.Player.Stats.Swaps)

	done, err := persist.Flag(ctx, "p1", state.KeyOnboardingComplete)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestStore_LaunchAndBid(t *testing.T) {
	s := newTestStore(t, nil, testConfig())
	ctx := context.Background()

	res, err := s.LaunchToken(ctx, LaunchRequest{Symbol: "elote", Name: "Elote"})
	require.NoError(t, err)
	require.Len(t, res.View.Auctions, 1)
	assert.Equal(t, "elote", res.View.Auctions[0].TokenID)
	assert.Equal(t, int64(1), res.View.Player.Stats.TokensLaunched)

	_, err = s.LaunchToken(ctx, LaunchRequest{Symbol: "elote"})
	assert.ErrorIs(t, err, gameerr.ErrInvalidAmount)

	res, err = s.PlaceBid(ctx, "elote", BidRequest{MaxPrice: 1, TotalSpend: 100})
	require.NoError(t, err)
	assert.InDelta(t, 900, res.View.Player.Wallet[token.QuoteTokenID], 1e-9)

	_, err = s.PlaceBid(ctx, "missing", BidRequest{MaxPrice: 1, TotalSpend: 1})
	assert.ErrorIs(t, err, gameerr.ErrNotFound)

	res, err = s.AdvanceAuctionBlock(ctx, "elote")
	require.NoError(t, err)
	assert.Greater(t, res.View.Player.Wallet["elote"], 0.0)
	assert.Equal(t, int64(1), res.View.Player.Stats.AuctionsWon)
}

func TestStore_AuctionTutorial(t *testing.T) {
	s := newTestStore(t, nil, testConfig())
	ctx := context.Background()

	res, err := s.StartAuctionTutorial(ctx)
	require.NoError(t, err)
	assert.True(t, res.View.AuctionTutorial.Active)
	require.NotNil(t, res.View.ActiveTip)

	_, err = s.StartAuctionTutorial(ctx)
	assert.ErrorIs(t, err, gameerr.ErrInvalidTransition)

	for i := 0; i < 10 && !s.View().AuctionTutorial.Completed; i++ {
		_, err := s.Tick(ctx)
		require.NoError(t, err)
	}

	v := s.View()
	assert.True(t, v.AuctionTutorial.Completed)
	assert.False(t, v.AuctionTutorial.Active)
	assert.Equal(t, int64(v.AuctionTutorial.Step), v.Block)
}

func TestStore_AuctionTutorial_RejectedOpeningBids(t *testing.T) {
	cfg := testConfig()
	cfg.Tutorial = TutorialAuctionConfig()
	cfg.Tutorial.ReservePrice = 0.5
	s := newTestStore(t, nil, cfg)
	ctx := context.Background()

	_, err := s.StartAuctionTutorial(ctx)
	require.ErrorIs(t, err, gameerr.ErrInvalidAmount)

	v := s.View()
	assert.Empty(t, v.Auctions)
	assert.False(t, v.AuctionTutorial.Active)

	// the symbol was not taken by the failed attempt
	_, err = s.LaunchToken(ctx, LaunchRequest{Symbol: "taco"})
	assert.NoError(t, err)
}

func TestStore_TickMovesMarket(t *testing.T) {
	s := newTestStore(t, nil, testConfig())
	ctx := context.Background()

	before := s.View()
	var v View
	for i := 0; i < 5; i++ {
		res, err := s.Tick(ctx)
		require.NoError(t, err)
		v = res.View
	}
	assert.Equal(t, before.Block+5, v.Block)

	npcVolume := 0.0
	for _, e := range v.TradingLeague {
		if !e.IsPlayer {
			npcVolume += e.Volume
		}
	}
	assert.Positive(t, npcVolume)
}

func TestStore_StopHaltsTicks(t *testing.T) {
	s := newTestStore(t, nil, testConfig())

	s.Start(context.Background(), time.Millisecond)
	require.Eventually(t, func() bool { return s.View().Block > 0 }, time.Second, time.Millisecond)
	s.Stop()

	block := s.View().Block
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, block, s.View().Block)

	// stopping twice is a no-op
	s.Stop()
}
