// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package position

import (
	"errors"
	"math"
	"testing"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/pool"
)

func seededPool(t *testing.T) pool.Pool {
	t.Helper()
	p, err := pool.New("mango", "peso", 30)
	if err != nil {
		t.Fatalf("pool.New() error = %v", err)
	}
	p.ReserveA = 1000
	p.ReserveB = 500
	return p
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// deposit adds liquidity and opens the matching position.
func deposit(t *testing.T, p pool.Pool, positions []Position, id string, amountA float64) (pool.Pool, []Position) {
	t.Helper()
	amountB := pool.ProportionalAmountB(p, amountA)
	if p.IsEmpty() {
		amountB = amountA / 2
	}
	d, err := pool.AddLiquidity(p, amountA, amountB, 0)
	if err != nil {
		t.Fatalf("AddLiquidity() error = %v", err)
	}
	positions, err = Open(positions, Position{
		ID:              id,
		PoolID:          p.ID,
		OwnerID:         "player",
		SharePercent:    d.SharePercent,
		InitialReserveA: amountA,
		InitialReserveB: amountB,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return d.Pool, positions
}

func TestComputeImpermanentLoss_UnchangedPriceHasNoLoss(t *testing.T) {
	p := seededPool(t)
	p, positions := deposit(t, p, nil, "lp-1", 200)

	il := ComputeImpermanentLoss(positions[0], p)
	if !near(il.IL, 0) {
		t.Errorf("IL = %v, expected 0 at unchanged price", il.IL)
	}
	if !near(il.CurrentValueA, 200) || !near(il.CurrentValueB, 100) {
		t.Errorf("current values = %v/%v, expected 200/100", il.CurrentValueA, il.CurrentValueB)
	}
	if !near(il.NetProfit, 0) {
		t.Errorf("NetProfit = %v, expected 0", il.NetProfit)
	}
}

func TestComputeImpermanentLoss_Formula(t *testing.T) {
	pos := Position{
		PoolID:          "mango-peso",
		SharePercent:    10,
		InitialReserveA: 100,
		InitialReserveB: 50,
		FeesEarned:      Fees{TokenA: 1, TokenB: 2},
	}
	p := pool.Pool{ID: "mango-peso", ReserveA: 800, ReserveB: 625}

	il := ComputeImpermanentLoss(pos, p)

	currentPrice := 625.0 / 800.0
	initialPrice := 0.5
	hold := 100 + 50*(currentPrice/initialPrice)
	lp := 80 + 62.5

	if !near(il.HoldValue, hold) {
		t.Errorf("HoldValue = %v, expected %v", il.HoldValue, hold)
	}
	if !near(il.LPValue, lp) {
		t.Errorf("LPValue = %v, expected %v", il.LPValue, lp)
	}
	if !near(il.FeesValue, 3) {
		t.Errorf("FeesValue = %v, expected 3", il.FeesValue)
	}
	if !near(il.IL, hold-lp) {
		t.Errorf("IL = %v, expected %v", il.IL, hold-lp)
	}
	if !near(il.NetProfit, lp+3-hold) {
		t.Errorf("NetProfit = %v, expected %v", il.NetProfit, lp+3-hold)
	}
}

func TestOpen_DilutesExistingPositions(t *testing.T) {
	p := seededPool(t)
	p, positions := deposit(t, p, nil, "lp-1", 250)
	p, positions = deposit(t, p, positions, "lp-2", 1250)

	// lp-1: 20% diluted by a 50% deposit.
	if !near(positions[0].SharePercent, 10) {
		t.Errorf("lp-1 share = %v, expected 10", positions[0].SharePercent)
	}
	if !near(positions[1].SharePercent, 50) {
		t.Errorf("lp-2 share = %v, expected 50", positions[1].SharePercent)
	}
	if !near(ShareSum(positions, p.ID), p.TotalShares) {
		t.Errorf("ShareSum = %v, pool TotalShares = %v", ShareSum(positions, p.ID), p.TotalShares)
	}
}

func TestClose_RenormalisesAndKeepsShareSumBounded(t *testing.T) {
	p := seededPool(t)
	p, positions := deposit(t, p, nil, "lp-1", 250)
	p, positions = deposit(t, p, positions, "lp-2", 1250)

	w, err := pool.RemoveLiquidity(p, positions[1].SharePercent, 0.5)
	if err != nil {
		t.Fatalf("RemoveLiquidity() error = %v", err)
	}
	closed, err := Close(positions, "lp-2", 0.5)
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// 25% of the pool left; lp-1 held 10 points of a pool now 75% the size.
	if !near(closed.Positions[0].SharePercent, 10/0.75) {
		t.Errorf("lp-1 share = %v, expected %v", closed.Positions[0].SharePercent, 10/0.75)
	}
	if closed.Remaining == nil || !near(closed.Remaining.SharePercent, 25/0.75) {
		t.Errorf("remaining lp-2 = %+v, expected share %v", closed.Remaining, 25/0.75)
	}
	sum := ShareSum(closed.Positions, p.ID)
	if sum > 100+1e-9 {
		t.Errorf("ShareSum = %v exceeds 100", sum)
	}
	if !near(sum, w.Pool.TotalShares) {
		t.Errorf("ShareSum = %v, pool TotalShares = %v", sum, w.Pool.TotalShares)
	}

	full, err := Close(closed.Positions, "lp-2", 1)
	if err != nil {
		t.Fatalf("Close(full) error = %v", err)
	}
	if full.Remaining != nil || Index(full.Positions, "lp-2") >= 0 {
		t.Error("fully closed position should be removed")
	}
}

func TestClose_ReleasesFeesProRata(t *testing.T) {
	positions := []Position{{ID: "lp-1", PoolID: "x", SharePercent: 10, FeesEarned: Fees{TokenA: 4, TokenB: 2}}}

	closed, err := Close(positions, "lp-1", 0.25)
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !near(closed.Fees.TokenA, 1) || !near(closed.Fees.TokenB, 0.5) {
		t.Errorf("released fees = %+v, expected 1/0.5", closed.Fees)
	}
	if !near(closed.Remaining.FeesEarned.TokenA, 3) {
		t.Errorf("remaining fees = %+v, expected 3 tokenA", closed.Remaining.FeesEarned)
	}
}

func TestClose_Errors(t *testing.T) {
	positions := []Position{{ID: "lp-1", PoolID: "x", SharePercent: 10}}

	if _, err := Close(positions, "missing", 1); !errors.Is(err, gameerr.ErrNotFound) {
		t.Errorf("Close(missing) error = %v, expected ErrNotFound", err)
	}
	if _, err := Close(positions, "lp-1", 0); !errors.Is(err, gameerr.ErrInvalidAmount) {
		t.Errorf("Close(0) error = %v, expected ErrInvalidAmount", err)
	}
}

func TestAccrueFees_ProRataWithRemainder(t *testing.T) {
	p := pool.Pool{ID: "mango-peso", TokenA: "mango", TokenB: "peso"}
	positions := []Position{
		{ID: "a", PoolID: "mango-peso", SharePercent: 30},
		{ID: "b", PoolID: "mango-peso", SharePercent: 20},
		{ID: "c", PoolID: "other", SharePercent: 50},
	}

	out, remainder := AccrueFees(positions, p, "peso", 10)

	if !near(out[0].FeesEarned.TokenB, 3) || !near(out[1].FeesEarned.TokenB, 2) {
		t.Errorf("fees = %v/%v, expected 3/2", out[0].FeesEarned.TokenB, out[1].FeesEarned.TokenB)
	}
	if out[2].FeesEarned.TokenB != 0 {
		t.Error("position of another pool must not earn fees")
	}
	if !near(remainder, 5) {
		t.Errorf("remainder = %v, expected 5", remainder)
	}
	if positions[0].FeesEarned.TokenB != 0 {
		t.Error("AccrueFees must not mutate its input")
	}
}
