// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package auction

import (
	"errors"
	"math"
	"testing"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
)

func newTestAuction(t *testing.T, cfg Config) Auction {
	t.Helper()
	a, err := New("auction-1", "taco", 0, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func mustBid(t *testing.T, a Auction, block int64, b Bid) Auction {
	t.Helper()
	next, err := PlaceBid(a, block, b)
	if err != nil {
		t.Fatalf("PlaceBid(%s) error = %v", b.ID, err)
	}
	return next
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func threeBids(t *testing.T, cfg Config) Auction {
	a := newTestAuction(t, cfg)
	a = mustBid(t, a, 0, Bid{ID: "A", BidderID: "p1", MaxPrice: 2, TotalSpend: 100})
	a = mustBid(t, a, 0, Bid{ID: "B", BidderID: "p2", MaxPrice: 1.5, TotalSpend: 90})
	a = mustBid(t, a, 0, Bid{ID: "C", BidderID: "p3", MaxPrice: 1, TotalSpend: 50})
	return a
}

func TestAdvanceBlock_UniformClearingPrice(t *testing.T) {
	a := threeBids(t, Config{SupplyPerBlock: 100, SupplyCap: 250, MaxBlocks: 5})

	next, res, err := AdvanceBlock(a)
	if err != nil {
		t.Fatalf("AdvanceBlock() error = %v", err)
	}

	if res.ClearingPrice != 1.5 {
		t.Errorf("ClearingPrice = %v, expected 1.5 (marginal bid)", res.ClearingPrice)
	}
	if len(res.FilledBids) != 2 {
		t.Fatalf("filled %d bids, expected 2", len(res.FilledBids))
	}
	for _, f := range res.FilledBids {
		if f.Price != 1.5 {
			t.Errorf("bid %s paid %v, expected uniform 1.5", f.BidID, f.Price)
		}
	}
	if !approx(res.FilledBids[0].Tokens, 50) || !approx(res.FilledBids[0].Refund, 25) {
		t.Errorf("A fill = %+v, expected 50 tokens refund 25", res.FilledBids[0])
	}
	if !approx(res.FilledBids[1].Tokens, 50) || !approx(res.FilledBids[1].Refund, 15) {
		t.Errorf("B fill = %+v, expected 50 tokens refund 15", res.FilledBids[1])
	}
	if len(res.Refunds) != 1 || res.Refunds[0].BidID != "C" || res.Refunds[0].Amount != 50 {
		t.Errorf("refunds = %+v, expected full refund of C", res.Refunds)
	}
	if len(res.CarriedBids) != 0 {
		t.Errorf("carried %d bids without carry enabled", len(res.CarriedBids))
	}
	if next.CurrentBlock != 1 || next.Status != StatusOpen {
		t.Errorf("block=%d status=%s, expected 1/open", next.CurrentBlock, next.Status)
	}
	if !approx(next.Allocated, 100) || !approx(next.Raised, 150) {
		t.Errorf("allocated=%v raised=%v, expected 100/150", next.Allocated, next.Raised)
	}
	if len(next.Bids) != 0 {
		t.Errorf("pending bids = %d, expected 0", len(next.Bids))
	}
}

func TestAdvanceBlock_CarryUnfilled(t *testing.T) {
	a := threeBids(t, Config{SupplyPerBlock: 100, SupplyCap: 250, MaxBlocks: 5, CarryUnfilled: true})

	next, res, err := AdvanceBlock(a)
	if err != nil {
		t.Fatalf("AdvanceBlock() error = %v", err)
	}
	if len(res.CarriedBids) != 2 {
		t.Fatalf("carried %d bids, expected 2", len(res.CarriedBids))
	}
	if len(res.Refunds) != 0 {
		t.Errorf("refunds = %+v, expected none with carry", res.Refunds)
	}
	if !approx(res.FilledBids[1].Refund, 0) {
		t.Errorf("B refund = %v, expected 0 when remainder carries", res.FilledBids[1].Refund)
	}

	next, res, err = AdvanceBlock(next)
	if err != nil {
		t.Fatalf("second AdvanceBlock() error = %v", err)
	}
	if res.ClearingPrice != 1 {
		t.Errorf("second ClearingPrice = %v, expected 1", res.ClearingPrice)
	}
	if !approx(next.Allocated, 160) {
		t.Errorf("Allocated = %v, expected 160", next.Allocated)
	}
}

func TestAdvanceBlock_ClosesAtCap(t *testing.T) {
	a := newTestAuction(t, Config{SupplyPerBlock: 100, SupplyCap: 150, MaxBlocks: 10})
	a = mustBid(t, a, 0, Bid{ID: "whale", MaxPrice: 1, TotalSpend: 1000})
	a = mustBid(t, a, 1, Bid{ID: "late", MaxPrice: 1, TotalSpend: 1000})

	a, _, err := AdvanceBlock(a)
	if err != nil {
		t.Fatalf("AdvanceBlock() error = %v", err)
	}
	a, res, err := AdvanceBlock(a)
	if err != nil {
		t.Fatalf("AdvanceBlock() error = %v", err)
	}
	if !res.Closed || a.Status != StatusClosed {
		t.Fatalf("auction should close once the cap is allocated")
	}
	if !approx(a.Allocated, 150) {
		t.Errorf("Allocated = %v, expected cap 150", a.Allocated)
	}
}

func TestAdvanceBlock_ClosedAuctionIsUnchanged(t *testing.T) {
	a := newTestAuction(t, Config{SupplyPerBlock: 100, SupplyCap: 1000, MaxBlocks: 2})
	a = mustBid(t, a, 1, Bid{ID: "future", BidderID: "p1", MaxPrice: 1, TotalSpend: 10})

	var err error
	a, _, err = AdvanceBlock(a)
	if err != nil {
		t.Fatalf("AdvanceBlock() error = %v", err)
	}
	a, res, err := AdvanceBlock(a)
	if err != nil {
		t.Fatalf("AdvanceBlock() error = %v", err)
	}
	if !res.Closed {
		t.Fatal("auction should close after MaxBlocks")
	}

	block := a.CurrentBlock
	after, _, err := AdvanceBlock(a)
	if !errors.Is(err, gameerr.ErrAuctionClosed) {
		t.Errorf("AdvanceBlock(closed) error = %v, expected ErrAuctionClosed", err)
	}
	if after.CurrentBlock != block {
		t.Errorf("CurrentBlock changed from %d to %d", block, after.CurrentBlock)
	}
}

func TestAdvanceBlock_NoBidsClearsAtZero(t *testing.T) {
	a := newTestAuction(t, DefaultConfig())

	next, res, err := AdvanceBlock(a)
	if err != nil {
		t.Fatalf("AdvanceBlock() error = %v", err)
	}
	if res.ClearingPrice != 0 || next.FinalPrice() != 0 {
		t.Errorf("clearing price = %v, expected 0", res.ClearingPrice)
	}
}

func TestAdvanceBlock_TieBreakByBlockThenID(t *testing.T) {
	a := newTestAuction(t, Config{SupplyPerBlock: 10, SupplyCap: 100, MaxBlocks: 5})
	a = mustBid(t, a, 0, Bid{ID: "b", MaxPrice: 1, TotalSpend: 10})
	a = mustBid(t, a, 0, Bid{ID: "a", MaxPrice: 1, TotalSpend: 10})

	_, res, err := AdvanceBlock(a)
	if err != nil {
		t.Fatalf("AdvanceBlock() error = %v", err)
	}
	if len(res.FilledBids) != 1 || res.FilledBids[0].BidID != "a" {
		t.Errorf("filled = %+v, expected only bid a", res.FilledBids)
	}
}

func TestPlaceBid_Errors(t *testing.T) {
	a := newTestAuction(t, Config{SupplyPerBlock: 10, SupplyCap: 100, MaxBlocks: 5, ReservePrice: 0.5})
	a, _, _ = AdvanceBlock(a)

	closed := a
	closed.Status = StatusClosed

	tests := []struct {
		name      string
		auction   Auction
		block     int64
		bid       Bid
		expectErr error
	}{
		{name: "past block", auction: a, block: 0, bid: Bid{MaxPrice: 1, TotalSpend: 1}, expectErr: gameerr.ErrAuctionClosed},
		{name: "closed", auction: closed, block: 1, bid: Bid{MaxPrice: 1, TotalSpend: 1}, expectErr: gameerr.ErrAuctionClosed},
		{name: "zero price", auction: a, block: 1, bid: Bid{MaxPrice: 0, TotalSpend: 1}, expectErr: gameerr.ErrInvalidAmount},
		{name: "zero spend", auction: a, block: 1, bid: Bid{MaxPrice: 1, TotalSpend: 0}, expectErr: gameerr.ErrInvalidAmount},
		{name: "below reserve", auction: a, block: 1, bid: Bid{MaxPrice: 0.1, TotalSpend: 1}, expectErr: gameerr.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlaceBid(tt.auction, tt.block, tt.bid)
			if !errors.Is(err, tt.expectErr) {
				t.Errorf("PlaceBid() error = %v, expected %v", err, tt.expectErr)
			}
		})
	}
}
