// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package position tracks liquidity-provider positions: share dilution on deposit,
// re-normalisation on withdrawal, fee accrual and impermanent-loss accounting.
package position

import (
	"fmt"
	"math"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/pool"
)

// Fees are the swap fees credited to a position, per pool side.
type Fees struct {
	TokenA float64 `json:"tokenA"`
	TokenB float64 `json:"tokenB"`
}

// Position is a liquidity provider's claim on a pool.
// InitialReserveA/B are the token amounts deposited; they shrink on partial close.
type Position struct {
	ID              string  `json:"id"`
	PoolID          string  `json:"poolId"`
	OwnerID         string  `json:"ownerId"`
	SharePercent    float64 `json:"sharePercent"`
	InitialReserveA float64 `json:"initialReserveA"`
	InitialReserveB float64 `json:"initialReserveB"`
	FeesEarned      Fees    `json:"feesEarned"`
	OpenedAtBlock   int64   `json:"openedAtBlock"`
}

// ImpermanentLoss is the valuation of a position against simply holding the deposit.
type ImpermanentLoss struct {
	CurrentValueA float64 `json:"currentValueA"`
	CurrentValueB float64 `json:"currentValueB"`
	HoldValue     float64 `json:"holdValue"`
	LPValue       float64 `json:"lpValue"`
	FeesValue     float64 `json:"feesValue"`
	IL            float64 `json:"il"`
	NetProfit     float64 `json:"netProfit"`
}

// ComputeImpermanentLoss values a position against its pool.
//
//	holdValue = initialReserveA + initialReserveB*(currentPrice/initialPrice)
//	lpValue   = reserveA*share + reserveB*share
//	il        = holdValue - lpValue
//	netProfit = lpValue + fees - holdValue
func ComputeImpermanentLoss(pos Position, p pool.Pool) ImpermanentLoss {
	share := pos.SharePercent / 100
	currentA := p.ReserveA * share
	currentB := p.ReserveB * share

	priceRatio := 1.0
	if pos.InitialReserveA > 0 && pos.InitialReserveB > 0 && p.ReserveA > 0 {
		initialPrice := pos.InitialReserveB / pos.InitialReserveA
		currentPrice := p.ReserveB / p.ReserveA
		priceRatio = currentPrice / initialPrice
	}

	hold := pos.InitialReserveA + pos.InitialReserveB*priceRatio
	lp := currentA + currentB
	fees := pos.FeesEarned.TokenA + pos.FeesEarned.TokenB

	return ImpermanentLoss{
		CurrentValueA: currentA,
		CurrentValueB: currentB,
		HoldValue:     hold,
		LPValue:       lp,
		FeesValue:     fees,
		IL:            hold - lp,
		NetProfit:     (lp + fees) - hold,
	}
}

// Open appends a new position and dilutes every other position of the same pool
// by (1 - share/100).
func Open(positions []Position, newPos Position) ([]Position, error) {
	if newPos.SharePercent <= 0 || newPos.SharePercent > 100+pool.Epsilon {
		return positions, fmt.Errorf("position share %v: %w", newPos.SharePercent, gameerr.ErrInvalidAmount)
	}

	dilution := 1 - newPos.SharePercent/100
	out := make([]Position, 0, len(positions)+1)
	for _, p := range positions {
		if p.PoolID == newPos.PoolID {
			p.SharePercent *= dilution
		}
		out = append(out, p)
	}
	return append(out, newPos), nil
}

// Closed is the result of Close.
type Closed struct {
	Positions []Position
	// Remaining is the reduced position, nil when fully closed.
	Remaining *Position
	// Fees is the portion of earned fees released with the withdrawal.
	Fees Fees
}

// Close withdraws fraction of the position. The other positions of the pool are
// re-normalised by 1/(1 - fraction*share/100) so shares keep describing the
// smaller pool.
func Close(positions []Position, id string, fraction float64) (Closed, error) {
	if math.IsNaN(fraction) || fraction <= 0 || fraction > 1 {
		return Closed{}, fmt.Errorf("withdraw fraction %v must be in (0,1]: %w", fraction, gameerr.ErrInvalidAmount)
	}

	idx := Index(positions, id)
	if idx < 0 {
		return Closed{}, fmt.Errorf("position %s: %w", id, gameerr.ErrNotFound)
	}
	target := positions[idx]
	removed := fraction * target.SharePercent / 100
	remaining := 1 - removed

	result := Closed{
		Fees: Fees{
			TokenA: target.FeesEarned.TokenA * fraction,
			TokenB: target.FeesEarned.TokenB * fraction,
		},
	}

	out := make([]Position, 0, len(positions))
	for i, p := range positions {
		if i == idx {
			if fraction >= 1-pool.Epsilon {
				continue
			}
			p.SharePercent *= 1 - fraction
			p.InitialReserveA *= 1 - fraction
			p.InitialReserveB *= 1 - fraction
			p.FeesEarned.TokenA -= result.Fees.TokenA
			p.FeesEarned.TokenB -= result.Fees.TokenB
		}
		if p.PoolID == target.PoolID && remaining > pool.Epsilon {
			p.SharePercent /= remaining
		}
		out = append(out, p)
	}

	for i := range out {
		if out[i].ID == id {
			reduced := out[i]
			result.Remaining = &reduced
		}
	}
	result.Positions = out
	return result, nil
}

// AccrueFees credits fee (denominated in tokenIn) to the open positions of the pool
// pro-rata by share. It returns the remainder no position owns.
func AccrueFees(positions []Position, p pool.Pool, tokenIn string, fee float64) ([]Position, float64) {
	if fee <= 0 {
		return positions, 0
	}

	credited := 0.0
	out := make([]Position, len(positions))
	copy(out, positions)
	for i := range out {
		if out[i].PoolID != p.ID {
			continue
		}
		amount := fee * out[i].SharePercent / 100
		if tokenIn == p.TokenA {
			out[i].FeesEarned.TokenA += amount
		} else {
			out[i].FeesEarned.TokenB += amount
		}
		credited += amount
	}
	return out, math.Max(0, fee-credited)
}

// ShareSum returns the sum of shares of the open positions in a pool.
func ShareSum(positions []Position, poolID string) float64 {
	sum := 0.0
	for _, p := range positions {
		if p.PoolID == poolID {
			sum += p.SharePercent
		}
	}
	return sum
}

// Index returns the slice index of the position, or -1.
func Index(positions []Position, id string) int {
	for i, p := range positions {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ForOwner returns the positions held by ownerID.
func ForOwner(positions []Position, ownerID string) []Position {
	var out []Position
	for _, p := range positions {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out
}
