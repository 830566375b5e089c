// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package pool implements the constant-product AMM.
//
// Every function takes a Pool by value and returns the updated copy, so a failed
// operation never leaves a partially applied pool behind.
package pool

import (
	"fmt"
	"math"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
)

const (
	// BpsDenominator is 100% expressed in basis points.
	BpsDenominator = 10000

	// DefaultFeeBps is the swap fee of the starting pools (0.3%).
	DefaultFeeBps = 30

	// MinFeeBps and MaxFeeBps bound the fee a pool may be created with.
	MinFeeBps = 10
	MaxFeeBps = 1000

	// DefaultRatioTolerance is the accepted deviation of a deposit from the pool ratio (1%).
	DefaultRatioTolerance = 0.01

	// Epsilon absorbs float rounding in share and reserve comparisons.
	Epsilon = 1e-9
)

// Pool is the state of a two-token constant-product pool.
// TokenB is always the pricing side: SpotPrice is TokenB per TokenA.
type Pool struct {
	ID            string  `json:"id"`
	TokenA        string  `json:"tokenA"`
	TokenB        string  `json:"tokenB"`
	ReserveA      float64 `json:"reserveA"`
	ReserveB      float64 `json:"reserveB"`
	FeeBps        int     `json:"feeBps"`
	TotalShares   float64 `json:"totalShares"`
	ProtocolFeesA float64 `json:"protocolFeesA"`
	ProtocolFeesB float64 `json:"protocolFeesB"`
	VolumeA       float64 `json:"volumeA"`
	VolumeB       float64 `json:"volumeB"`
}

// MakeID returns the canonical pool ID for a token pair.
func MakeID(tokenA, tokenB string) string {
	return tokenA + "-" + tokenB
}

// New creates an empty pool after validating the pair and fee.
func New(tokenA, tokenB string, feeBps int) (Pool, error) {
	if tokenA == "" || tokenB == "" || tokenA == tokenB {
		return Pool{}, fmt.Errorf("pool requires two distinct tokens, got %q and %q", tokenA, tokenB)
	}
	if err := ValidateFeeBps(feeBps); err != nil {
		return Pool{}, err
	}
	return Pool{
		ID:     MakeID(tokenA, tokenB),
		TokenA: tokenA,
		TokenB: tokenB,
		FeeBps: feeBps,
	}, nil
}

// ValidateFeeBps checks the fee is within MinFeeBps..MaxFeeBps.
func ValidateFeeBps(feeBps int) error {
	if feeBps < MinFeeBps || feeBps > MaxFeeBps {
		return fmt.Errorf("fee must be between %d and %d basis points, got %d", MinFeeBps, MaxFeeBps, feeBps)
	}
	return nil
}

// Has reports whether the token is one side of the pool.
func (p Pool) Has(tokenID string) bool {
	return tokenID == p.TokenA || tokenID == p.TokenB
}

// IsEmpty reports whether the pool holds no liquidity.
func (p Pool) IsEmpty() bool {
	return p.ReserveA <= 0 || p.ReserveB <= 0
}

// K returns the constant product.
func (p Pool) K() float64 {
	return p.ReserveA * p.ReserveB
}

// SpotPrice returns TokenB per TokenA, or 0 for an empty pool.
func (p Pool) SpotPrice() float64 {
	if p.IsEmpty() {
		return 0
	}
	return p.ReserveB / p.ReserveA
}

// Other returns the counterpart of tokenID in the pair.
func (p Pool) Other(tokenID string) string {
	if tokenID == p.TokenA {
		return p.TokenB
	}
	return p.TokenA
}

// ValueInB converts an amount of either side into TokenB units at spot price.
func (p Pool) ValueInB(tokenID string, amount float64) float64 {
	if tokenID == p.TokenB {
		return amount
	}
	return amount * p.SpotPrice()
}

// CreditProtocolFee books a fee that no liquidity position owns.
func (p *Pool) CreditProtocolFee(tokenID string, amount float64) {
	if amount <= 0 {
		return
	}
	if tokenID == p.TokenA {
		p.ProtocolFeesA += amount
	} else {
		p.ProtocolFeesB += amount
	}
}

func (p Pool) reserves(tokenIn string) (reserveIn, reserveOut float64, err error) {
	switch tokenIn {
	case p.TokenA:
		return p.ReserveA, p.ReserveB, nil
	case p.TokenB:
		return p.ReserveB, p.ReserveA, nil
	default:
		return 0, 0, fmt.Errorf("token %s is not part of pool %s: %w", tokenIn, p.ID, gameerr.ErrInvalidAmount)
	}
}

func (p Pool) feeRate() float64 {
	return float64(p.FeeBps) / BpsDenominator
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
