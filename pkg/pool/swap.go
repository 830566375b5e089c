// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pool

import (
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
)

// Quote is the priced result of a prospective swap.
type Quote struct {
	TokenIn        string  `json:"tokenIn"`
	TokenOut       string  `json:"tokenOut"`
	AmountIn       float64 `json:"amountIn"`
	AmountOut      float64 `json:"amountOut"`
	Fee            float64 `json:"fee"`
	PriceImpactBps float64 `json:"priceImpactBps"`
	ExecutionPrice float64 `json:"executionPrice"`
}

// GetQuote prices a swap of amountIn of tokenIn. The fee is taken from the input
// before the constant-product formula is applied:
//
//	amountOut = reserveOut - (reserveIn*reserveOut) / (reserveIn + amountIn*(1-fee))
func GetQuote(p Pool, tokenIn string, amountIn float64) (Quote, error) {
	if !isFinite(amountIn) || amountIn <= 0 {
		return Quote{}, fmt.Errorf("swap amount %v: %w", amountIn, gameerr.ErrInvalidAmount)
	}

	reserveIn, reserveOut, err := p.reserves(tokenIn)
	if err != nil {
		return Quote{}, err
	}
	if reserveIn <= 0 || reserveOut <= 0 {
		return Quote{}, fmt.Errorf("pool %s is empty: %w", p.ID, gameerr.ErrInsufficientLiquidity)
	}

	netIn := amountIn * (1 - p.feeRate())
	amountOut := reserveOut - (reserveIn*reserveOut)/(reserveIn+netIn)
	if !isFinite(amountOut) || amountOut <= 0 || amountOut >= reserveOut {
		return Quote{}, fmt.Errorf("pool %s cannot pay out %v: %w", p.ID, amountOut, gameerr.ErrInsufficientLiquidity)
	}

	return Quote{
		TokenIn:        tokenIn,
		TokenOut:       p.Other(tokenIn),
		AmountIn:       amountIn,
		AmountOut:      amountOut,
		Fee:            amountIn - netIn,
		PriceImpactBps: netIn / (reserveIn + netIn) * BpsDenominator,
		ExecutionPrice: amountOut / amountIn,
	}, nil
}

// Swap executes a quote against the pool. Both reserves move together on the
// returned copy; the fee stays out of the reserves so the product is preserved.
func Swap(p Pool, tokenIn string, amountIn, minAmountOut float64) (Pool, Quote, error) {
	q, err := GetQuote(p, tokenIn, amountIn)
	if err != nil {
		return p, Quote{}, err
	}
	if q.AmountOut < minAmountOut {
		return p, q, fmt.Errorf("output %v below minimum %v: %w", q.AmountOut, minAmountOut, gameerr.ErrSlippageExceeded)
	}

	netIn := q.AmountIn - q.Fee
	next := p
	if tokenIn == p.TokenA {
		next.ReserveA += netIn
		next.ReserveB -= q.AmountOut
		next.VolumeA += q.AmountIn
	} else {
		next.ReserveB += netIn
		next.ReserveA -= q.AmountOut
		next.VolumeB += q.AmountIn
	}
	return next, q, nil
}

// MinOutWithSlippage returns the minimum acceptable output for a tolerance in bps.
func MinOutWithSlippage(q Quote, slippageBps int) float64 {
	if slippageBps < 0 {
		slippageBps = 0
	}
	return q.AmountOut * (1 - float64(slippageBps)/BpsDenominator)
}
