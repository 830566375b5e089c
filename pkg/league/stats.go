// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package league

import (
	"github.com/AccelByte/extend-mercado-lp/pkg/pool"
	"github.com/AccelByte/extend-mercado-lp/pkg/position"
)

// MarketMakerStats summarises the player's liquidity book in quote units.
type MarketMakerStats struct {
	OpenPositions   int     `json:"openPositions"`
	LiquidityValue  float64 `json:"liquidityValue"`
	FeesEarned      float64 `json:"feesEarned"`
	ImpermanentLoss float64 `json:"impermanentLoss"`
	NetProfit       float64 `json:"netProfit"`
	// VolumeServed is the pool volume attributable to the player's share.
	VolumeServed float64 `json:"volumeServed"`
}

// ComputeMarketMakerStats aggregates positions over their pools.
func ComputeMarketMakerStats(positions []position.Position, pools map[string]pool.Pool) MarketMakerStats {
	var s MarketMakerStats
	for _, pos := range positions {
		p, ok := pools[pos.PoolID]
		if !ok {
			continue
		}
		il := position.ComputeImpermanentLoss(pos, p)
		s.OpenPositions++
		s.LiquidityValue += il.LPValue
		s.FeesEarned += il.FeesValue
		s.ImpermanentLoss += il.IL
		s.NetProfit += il.NetProfit
		s.VolumeServed += (p.VolumeB + p.ValueInB(p.TokenA, p.VolumeA)) * pos.SharePercent / 100
	}
	return s
}
