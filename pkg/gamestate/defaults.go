// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mercado-lp/pkg/auction"
	"github.com/AccelByte/extend-mercado-lp/pkg/notify"
	"github.com/AccelByte/extend-mercado-lp/pkg/pool"
	"github.com/AccelByte/extend-mercado-lp/pkg/position"
	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/session"
	"github.com/AccelByte/extend-mercado-lp/pkg/state"
	"github.com/AccelByte/extend-mercado-lp/pkg/token"
)

// seedPool is the opening liquidity of a starting pool.
type seedPool struct {
	tokenA   string
	reserveA float64
	reserveB float64
}

var seedPools = []seedPool{
	{"mango", 1000, 500},
	{"cacao", 800, 1200},
	{"jaguar", 200, 2000},
	{"quetzal", 500, 750},
}

// DefaultSnapshot is the world of a new player. Starting pools are seeded with
// house-owned positions so share sums stay exact.
func DefaultSnapshot(playerID string, wallet map[string]float64, now time.Time) state.Snapshot {
	var pools []pool.Pool
	var positions []position.Position
	for _, sp := range seedPools {
		p, opened, err := seedHousePool(sp.tokenA, sp.reserveA, sp.reserveB, positions, 0)
		if err != nil {
			logrus.Errorf("failed to seed pool %s: %v", sp.tokenA, err)
			continue
		}
		pools = append(pools, p)
		positions = opened
	}

	player := progression.NewPlayer(playerID, wallet)
	player.CharacterName = defaultPlayer

	return state.Snapshot{
		Version:       state.SnapshotVersion,
		Tokens:        token.DefaultCatalog(),
		Pools:         pools,
		Positions:     positions,
		Auctions:      map[string]auction.Auction{},
		Player:        player,
		League:        state.LeagueState{Volumes: map[string]float64{}},
		Notifications: notify.NewQueue(),
		Session:       session.NewFlow(),
		FiredRules:    map[string]bool{},
		UpdatedAt:     now,
	}
}

// seedHousePool creates tokenA/peso with house liquidity.
func seedHousePool(tokenA string, reserveA, reserveB float64, positions []position.Position, block int64) (pool.Pool, []position.Position, error) {
	p, err := pool.New(tokenA, token.QuoteTokenID, pool.DefaultFeeBps)
	if err != nil {
		return pool.Pool{}, positions, err
	}
	dep, err := pool.AddLiquidity(p, reserveA, reserveB, pool.DefaultRatioTolerance)
	if err != nil {
		return pool.Pool{}, positions, err
	}
	positions, err = position.Open(positions, position.Position{
		ID:              "house-" + p.ID,
		PoolID:          p.ID,
		OwnerID:         houseOwnerID,
		SharePercent:    dep.SharePercent,
		InitialReserveA: reserveA,
		InitialReserveB: reserveB,
		OpenedAtBlock:   block,
	})
	if err != nil {
		return pool.Pool{}, positions, err
	}
	return dep.Pool, positions, nil
}

var stageTips = map[session.Stage]notify.Notification{
	session.StageSwap: {
		Title: "El Trueque",
		Body:  "Swaps price tokens with x*y=k. Bigger trades move the price more.",
		Emoji: "🔄",
	},
	session.StageLiquidity: {
		Title: "El Puesto",
		Body:  "Deposit both tokens at the pool ratio and earn a share of every swap fee.",
		Emoji: "🏪",
	},
	session.StageTokenCreator: {
		Title: "La Fábrica",
		Body:  "Launch a token and sell it in a block-by-block auction.",
		Emoji: "🪙",
	},
	session.StageCCA: {
		Title: "La Subasta",
		Body:  "Every filled bid in a block pays the same clearing price.",
		Emoji: "🔨",
	},
	session.StageTradingLeague: {
		Title: "La Liga",
		Body:  "Your swap volume ranks you against the market regulars.",
		Emoji: "🏆",
	},
	session.StageMarketMaker: {
		Title: "Market Maker",
		Body:  "Watch fees against impermanent loss across all your positions.",
		Emoji: "⚖️",
	},
}

// tipFor returns the first-visit tip of a stage.
func tipFor(stage session.Stage) (notify.Notification, bool) {
	tip, ok := stageTips[stage]
	if !ok {
		return notify.Notification{}, false
	}
	tip.Key = "tip:" + string(stage)
	tip.Category = notify.CategoryTip
	return tip, true
}
