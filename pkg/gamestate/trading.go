// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/AccelByte/extend-mercado-lp/pkg/challenge"
	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/metrics"
	"github.com/AccelByte/extend-mercado-lp/pkg/pool"
	"github.com/AccelByte/extend-mercado-lp/pkg/position"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
)

// SwapRequest sells AmountIn of TokenIn for TokenOut.
// MinAmountOut wins over SlippageBps when both are set.
type SwapRequest struct {
	TokenIn      string  `json:"tokenIn"`
	TokenOut     string  `json:"tokenOut"`
	AmountIn     float64 `json:"amountIn"`
	MinAmountOut float64 `json:"minAmountOut,omitempty"`
	SlippageBps  int     `json:"slippageBps,omitempty"`
}

// AddLiquidityRequest deposits into a pool. Tolerance defaults to 1%.
type AddLiquidityRequest struct {
	PoolID    string  `json:"poolId"`
	AmountA   float64 `json:"amountA"`
	AmountB   float64 `json:"amountB"`
	Tolerance float64 `json:"tolerance,omitempty"`
}

// RemoveLiquidityRequest withdraws Fraction of a position.
type RemoveLiquidityRequest struct {
	PositionID string  `json:"positionId"`
	Fraction   float64 `json:"fraction"`
}

// poolIndex finds the pool trading the two tokens, in either order.
func (s *Store) poolIndex(a, b string) int {
	for i, p := range s.snap.Pools {
		if p.Has(a) && p.Has(b) && a != b {
			return i
		}
	}
	return -1
}

func (s *Store) poolByID(id string) int {
	for i, p := range s.snap.Pools {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) pairPool(tokenIn, tokenOut string) (int, error) {
	if err := s.tokens.MustExist(tokenIn, tokenOut); err != nil {
		return -1, err
	}
	idx := s.poolIndex(tokenIn, tokenOut)
	if idx < 0 {
		return -1, fmt.Errorf("pool %s/%s: %w", tokenIn, tokenOut, gameerr.ErrNotFound)
	}
	return idx, nil
}

// Quote prices a swap without executing it.
func (s *Store) Quote(req SwapRequest) (pool.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return pool.Quote{}, err
	}
	idx, err := s.pairPool(req.TokenIn, req.TokenOut)
	if err != nil {
		return pool.Quote{}, err
	}
	return pool.GetQuote(s.snap.Pools[idx], req.TokenIn, req.AmountIn)
}

// Swap executes a player swap.
func (s *Store) Swap(ctx context.Context, req SwapRequest) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	idx, err := s.pairPool(req.TokenIn, req.TokenOut)
	if err != nil {
		return Result{}, err
	}
	if err := s.ensureBalance(req.TokenIn, req.AmountIn); err != nil {
		return Result{}, err
	}

	minOut := req.MinAmountOut
	if minOut <= 0 && req.SlippageBps > 0 {
		q, err := pool.GetQuote(s.snap.Pools[idx], req.TokenIn, req.AmountIn)
		if err != nil {
			return Result{}, err
		}
		minOut = pool.MinOutWithSlippage(q, req.SlippageBps)
	}

	before := s.snap.Pools[idx]
	q, err := s.executeSwap(ctx, idx, req.TokenIn, req.AmountIn, minOut)
	if err != nil {
		return Result{}, err
	}

	volume := before.ValueInB(req.TokenIn, req.AmountIn)
	s.debit(req.TokenIn, req.AmountIn)
	s.credit(q.TokenOut, q.AmountOut)
	s.snap.Player.Stats.Swaps++
	s.snap.Player.Stats.SwapVolume += volume
	s.snap.League.Volumes[s.playerID] += volume
	metrics.SwapsTotal.WithLabelValues(metrics.SourcePlayer).Inc()
	metrics.SwapVolume.WithLabelValues(metrics.SourcePlayer).Add(volume)

	s.progress(challenge.KindSwap, 1)
	s.progress(challenge.KindSwapVolume, volume)
	s.addXP(ctx, XPSwap, "swap")
	s.emit(ctx, signal.TypeSwapExecuted, volume, map[string]interface{}{
		"pool_id":    before.ID,
		"token_in":   req.TokenIn,
		"amount_out": q.AmountOut,
	})

	s.log().Debugf("swap %.4f %s -> %.4f %s", req.AmountIn, req.TokenIn, q.AmountOut, q.TokenOut)
	return s.commit(ctx), nil
}

// executeSwap runs a swap against pool idx and routes the fee to the pool's
// positions. The unowned remainder becomes protocol fees. Player fee income
// is booked to stats and challenges.
func (s *Store) executeSwap(ctx context.Context, idx int, tokenIn string, amountIn, minOut float64) (pool.Quote, error) {
	next, q, err := pool.Swap(s.snap.Pools[idx], tokenIn, amountIn, minOut)
	if err != nil {
		return q, err
	}

	playerShare := 0.0
	for _, pos := range s.snap.Positions {
		if pos.PoolID == next.ID && pos.OwnerID == s.playerID {
			playerShare += pos.SharePercent
		}
	}

	positions, remainder := position.AccrueFees(s.snap.Positions, next, tokenIn, q.Fee)
	next.CreditProtocolFee(tokenIn, remainder)
	s.snap.Positions = positions
	s.snap.Pools[idx] = next

	if playerShare > 0 {
		earned := next.ValueInB(tokenIn, q.Fee*playerShare/100)
		s.snap.Player.Stats.FeesCollected += earned
		s.progress(challenge.KindCollectFees, earned)
		s.emit(ctx, signal.TypeFeesCollected, earned, map[string]interface{}{"pool_id": next.ID})
	}
	return q, nil
}

// AddLiquidity deposits both tokens and opens a position.
func (s *Store) AddLiquidity(ctx context.Context, req AddLiquidityRequest) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	idx := s.poolByID(req.PoolID)
	if idx < 0 {
		return Result{}, fmt.Errorf("pool %s: %w", req.PoolID, gameerr.ErrNotFound)
	}
	p := s.snap.Pools[idx]
	if err := s.ensureBalance(p.TokenA, req.AmountA); err != nil {
		return Result{}, err
	}
	if err := s.ensureBalance(p.TokenB, req.AmountB); err != nil {
		return Result{}, err
	}

	dep, err := pool.AddLiquidity(p, req.AmountA, req.AmountB, req.Tolerance)
	if err != nil {
		return Result{}, err
	}
	positions, err := position.Open(s.snap.Positions, position.Position{
		ID:              uuid.NewString(),
		PoolID:          p.ID,
		OwnerID:         s.playerID,
		SharePercent:    dep.SharePercent,
		InitialReserveA: req.AmountA,
		InitialReserveB: req.AmountB,
		OpenedAtBlock:   s.snap.Block,
	})
	if err != nil {
		return Result{}, err
	}

	s.snap.Pools[idx] = dep.Pool
	s.snap.Positions = positions
	s.debit(p.TokenA, req.AmountA)
	s.debit(p.TokenB, req.AmountB)
	s.snap.Player.Stats.LiquidityAdds++

	s.progress(challenge.KindAddLiquidity, 1)
	s.addXP(ctx, XPLiquidity, "liquidity")
	s.emit(ctx, signal.TypeLiquidityAdded, req.AmountB+p.ValueInB(p.TokenA, req.AmountA), map[string]interface{}{
		"pool_id": p.ID,
		"share":   dep.SharePercent,
	})

	s.log().Infof("opened %.2f%% position in %s", dep.SharePercent, p.ID)
	return s.commit(ctx), nil
}

// RemoveLiquidity withdraws part or all of a player position, including its share of earned fees.
func (s *Store) RemoveLiquidity(ctx context.Context, req RemoveLiquidityRequest) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	pi := position.Index(s.snap.Positions, req.PositionID)
	if pi < 0 || s.snap.Positions[pi].OwnerID != s.playerID {
		return Result{}, fmt.Errorf("position %s: %w", req.PositionID, gameerr.ErrNotFound)
	}
	pos := s.snap.Positions[pi]
	idx := s.poolByID(pos.PoolID)
	if idx < 0 {
		return Result{}, fmt.Errorf("pool %s: %w", pos.PoolID, gameerr.ErrNotFound)
	}
	p := s.snap.Pools[idx]

	w, err := pool.RemoveLiquidity(p, pos.SharePercent, req.Fraction)
	if err != nil {
		return Result{}, err
	}
	closed, err := position.Close(s.snap.Positions, pos.ID, req.Fraction)
	if err != nil {
		return Result{}, err
	}

	s.snap.Pools[idx] = w.Pool
	s.snap.Positions = closed.Positions
	s.credit(p.TokenA, w.PayoutA+closed.Fees.TokenA)
	s.credit(p.TokenB, w.PayoutB+closed.Fees.TokenB)

	value := w.PayoutB + p.ValueInB(p.TokenA, w.PayoutA)
	s.emit(ctx, signal.TypeLiquidityRemoved, value, map[string]interface{}{
		"pool_id":  p.ID,
		"fraction": req.Fraction,
	})

	s.log().Infof("withdrew %.0f%% of position %s", math.Min(req.Fraction, 1)*100, pos.ID)
	return s.commit(ctx), nil
}
