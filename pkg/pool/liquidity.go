// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pool

import (
	"fmt"
	"math"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
)

// Deposit is the result of AddLiquidity.
type Deposit struct {
	Pool         Pool    `json:"pool"`
	SharePercent float64 `json:"sharePercent"`
}

// Withdrawal is the result of RemoveLiquidity.
type Withdrawal struct {
	Pool    Pool    `json:"pool"`
	PayoutA float64 `json:"payoutA"`
	PayoutB float64 `json:"payoutB"`
	// Removed is the share of the whole pool that left with this withdrawal.
	Removed float64 `json:"removed"`
}

// ProportionalAmountB returns the TokenB amount that matches amountA at the pool ratio.
func ProportionalAmountB(p Pool, amountA float64) float64 {
	if p.ReserveA <= 0 {
		return 0
	}
	return amountA * p.ReserveB / p.ReserveA
}

// ValidateRatio checks amountB is within tolerance of the proportional amount.
func ValidateRatio(p Pool, amountA, amountB, tolerance float64) bool {
	if p.IsEmpty() {
		return true
	}
	expected := ProportionalAmountB(p, amountA)
	return math.Abs(amountB-expected) <= tolerance*expected+Epsilon
}

// AddLiquidity deposits both tokens. The minted share is
// amountA/(reserveA+amountA)*100; the first deposit into an empty pool gets 100
// and sets the price. Existing shares are diluted by (1 - share/100).
func AddLiquidity(p Pool, amountA, amountB, tolerance float64) (Deposit, error) {
	if !isFinite(amountA) || !isFinite(amountB) || amountA <= 0 || amountB <= 0 {
		return Deposit{}, fmt.Errorf("liquidity amounts %v/%v: %w", amountA, amountB, gameerr.ErrInvalidAmount)
	}
	if tolerance <= 0 {
		tolerance = DefaultRatioTolerance
	}

	next := p
	if p.IsEmpty() {
		next.ReserveA = amountA
		next.ReserveB = amountB
		next.TotalShares = 100
		return Deposit{Pool: next, SharePercent: 100}, nil
	}

	if !ValidateRatio(p, amountA, amountB, tolerance) {
		return Deposit{}, fmt.Errorf("expected about %.6f %s for %.6f %s: %w",
			ProportionalAmountB(p, amountA), p.TokenB, amountA, p.TokenA, gameerr.ErrRatioMismatch)
	}

	share := amountA / (p.ReserveA + amountA) * 100
	next.ReserveA += amountA
	next.ReserveB += amountB
	next.TotalShares = p.TotalShares*(1-share/100) + share
	return Deposit{Pool: next, SharePercent: share}, nil
}

// RemoveLiquidity withdraws fraction of a position holding sharePercent of the pool.
// The payout is fraction*sharePercent/100 of each reserve. TotalShares is
// re-normalised against the smaller pool.
func RemoveLiquidity(p Pool, sharePercent, fraction float64) (Withdrawal, error) {
	if !isFinite(fraction) || fraction <= 0 || fraction > 1 {
		return Withdrawal{}, fmt.Errorf("withdraw fraction %v must be in (0,1]: %w", fraction, gameerr.ErrInvalidAmount)
	}
	if sharePercent <= 0 || sharePercent > 100+Epsilon {
		return Withdrawal{}, fmt.Errorf("position share %v: %w", sharePercent, gameerr.ErrInvalidAmount)
	}
	if p.IsEmpty() {
		return Withdrawal{}, fmt.Errorf("pool %s is empty: %w", p.ID, gameerr.ErrInsufficientLiquidity)
	}

	removed := math.Min(fraction*sharePercent, 100)
	portion := removed / 100

	next := p
	payoutA := p.ReserveA * portion
	payoutB := p.ReserveB * portion
	next.ReserveA -= payoutA
	next.ReserveB -= payoutB

	remaining := 1 - portion
	if remaining <= Epsilon {
		next.ReserveA = 0
		next.ReserveB = 0
		next.TotalShares = 0
	} else {
		next.TotalShares = math.Max(0, (p.TotalShares-removed)/remaining)
	}

	return Withdrawal{Pool: next, PayoutA: payoutA, PayoutB: payoutB, Removed: removed}, nil
}
