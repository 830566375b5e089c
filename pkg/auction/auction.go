// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package auction implements the multi-block uniform-price batch auction used
// for token launches.
//
// Each block clears a fixed supply. Pending bids are ranked by max price; the
// supply is allocated greedily and every filled bid in the block pays the max
// price of the marginal (last filled) bid.
package auction

import (
	"fmt"
	"math"
	"sort"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
)

// Status of an auction.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

const epsilon = 1e-9

// Config parameterises an auction.
type Config struct {
	SupplyPerBlock float64 `json:"supplyPerBlock"`
	SupplyCap      float64 `json:"supplyCap"`
	MaxBlocks      int64   `json:"maxBlocks"`
	ReservePrice   float64 `json:"reservePrice"`
	// CarryUnfilled re-queues the unfilled part of a bid for the next block
	// instead of refunding it.
	CarryUnfilled bool `json:"carryUnfilled"`
}

// DefaultConfig is used by token launches that do not override it.
func DefaultConfig() Config {
	return Config{
		SupplyPerBlock: 1000,
		SupplyCap:      5000,
		MaxBlocks:      8,
		ReservePrice:   0.01,
	}
}

// Validate checks the config is usable.
func (c Config) Validate() error {
	if c.SupplyPerBlock <= 0 || c.SupplyCap <= 0 {
		return fmt.Errorf("auction supply must be positive: %w", gameerr.ErrInvalidAmount)
	}
	if c.MaxBlocks <= 0 {
		return fmt.Errorf("auction must run at least one block: %w", gameerr.ErrInvalidAmount)
	}
	if c.ReservePrice < 0 {
		return fmt.Errorf("reserve price %v: %w", c.ReservePrice, gameerr.ErrInvalidAmount)
	}
	return nil
}

// Bid is immutable once placed; it is only consumed by block clearing.
type Bid struct {
	ID             string  `json:"id"`
	BidderID       string  `json:"bidderId"`
	BidderName     string  `json:"bidderName"`
	MaxPrice       float64 `json:"maxPrice"`
	TotalSpend     float64 `json:"totalSpend"`
	BlockSubmitted int64   `json:"blockSubmitted"`
}

// Demand is the number of tokens the bid asks for at its max price.
func (b Bid) Demand() float64 {
	return b.TotalSpend / b.MaxPrice
}

// Fill records what a bid received in a block.
type Fill struct {
	BidID    string  `json:"bidId"`
	BidderID string  `json:"bidderId"`
	Block    int64   `json:"block"`
	Tokens   float64 `json:"tokens"`
	Price    float64 `json:"price"`
	Cost     float64 `json:"cost"`
	Refund   float64 `json:"refund"`
}

// Refund returns escrowed spend to a bidder whose bid left the book.
type Refund struct {
	BidID    string  `json:"bidId"`
	BidderID string  `json:"bidderId"`
	Amount   float64 `json:"amount"`
}

// Auction is the state of one token launch.
type Auction struct {
	ID                   string    `json:"id"`
	TokenID              string    `json:"tokenId"`
	StartBlock           int64     `json:"startBlock"`
	CurrentBlock         int64     `json:"currentBlock"`
	Status               Status    `json:"status"`
	ClearingPriceByBlock []float64 `json:"clearingPriceByBlock"`
	// Bids is the pending pool. Cleared bids leave it.
	Bids      []Bid   `json:"bids"`
	Fills     []Fill  `json:"fills"`
	Allocated float64 `json:"allocated"`
	Raised    float64 `json:"raised"`
	Config    Config  `json:"config"`
}

// New creates an open auction starting at startBlock.
func New(id, tokenID string, startBlock int64, cfg Config) (Auction, error) {
	if err := cfg.Validate(); err != nil {
		return Auction{}, err
	}
	return Auction{
		ID:           id,
		TokenID:      tokenID,
		StartBlock:   startBlock,
		CurrentBlock: startBlock,
		Status:       StatusOpen,
		Config:       cfg,
	}, nil
}

// IsOpen reports whether the auction accepts bids.
func (a Auction) IsOpen() bool {
	return a.Status == StatusOpen
}

// Remaining is the supply not yet allocated.
func (a Auction) Remaining() float64 {
	return math.Max(0, a.Config.SupplyCap-a.Allocated)
}

// FinalPrice is the last non-zero clearing price, or 0 if nothing ever filled.
func (a Auction) FinalPrice() float64 {
	for i := len(a.ClearingPriceByBlock) - 1; i >= 0; i-- {
		if a.ClearingPriceByBlock[i] > 0 {
			return a.ClearingPriceByBlock[i]
		}
	}
	return 0
}

// PlaceBid appends a bid to the pending pool for blockNumber.
func PlaceBid(a Auction, blockNumber int64, bid Bid) (Auction, error) {
	if !a.IsOpen() {
		return a, fmt.Errorf("auction %s is %s: %w", a.ID, a.Status, gameerr.ErrAuctionClosed)
	}
	if blockNumber < a.CurrentBlock {
		return a, fmt.Errorf("block %d already cleared (current %d): %w", blockNumber, a.CurrentBlock, gameerr.ErrAuctionClosed)
	}
	if math.IsNaN(bid.MaxPrice) || bid.MaxPrice <= 0 || math.IsNaN(bid.TotalSpend) || bid.TotalSpend <= 0 {
		return a, fmt.Errorf("bid price %v spend %v: %w", bid.MaxPrice, bid.TotalSpend, gameerr.ErrInvalidAmount)
	}
	if bid.MaxPrice < a.Config.ReservePrice {
		return a, fmt.Errorf("bid price %v below reserve %v: %w", bid.MaxPrice, a.Config.ReservePrice, gameerr.ErrInvalidAmount)
	}

	bid.BlockSubmitted = blockNumber
	next := a
	next.Bids = append(append([]Bid(nil), a.Bids...), bid)
	return next, nil
}

// BlockResult describes one cleared block.
type BlockResult struct {
	Block         int64    `json:"block"`
	ClearingPrice float64  `json:"clearingPrice"`
	FilledBids    []Fill   `json:"filledBids"`
	CarriedBids   []Bid    `json:"carriedBids"`
	Refunds       []Refund `json:"refunds"`
	Closed        bool     `json:"closed"`
}

// AdvanceBlock clears the current block and moves to the next one.
// A closed auction fails with ErrAuctionClosed and is returned unchanged.
func AdvanceBlock(a Auction) (Auction, BlockResult, error) {
	if !a.IsOpen() {
		return a, BlockResult{}, fmt.Errorf("auction %s is %s: %w", a.ID, a.Status, gameerr.ErrAuctionClosed)
	}

	block := a.CurrentBlock
	var eligible, waiting []Bid
	for _, b := range a.Bids {
		if b.BlockSubmitted <= block {
			eligible = append(eligible, b)
		} else {
			waiting = append(waiting, b)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].MaxPrice != eligible[j].MaxPrice {
			return eligible[i].MaxPrice > eligible[j].MaxPrice
		}
		if eligible[i].BlockSubmitted != eligible[j].BlockSubmitted {
			return eligible[i].BlockSubmitted < eligible[j].BlockSubmitted
		}
		return eligible[i].ID < eligible[j].ID
	})

	supply := math.Min(a.Config.SupplyPerBlock, a.Remaining())
	allocations := make([]float64, len(eligible))
	marginal := -1
	for i, b := range eligible {
		if supply <= epsilon {
			break
		}
		take := math.Min(b.Demand(), supply)
		allocations[i] = take
		supply -= take
		marginal = i
	}

	result := BlockResult{Block: block}
	if marginal >= 0 {
		result.ClearingPrice = eligible[marginal].MaxPrice
	}

	next := a
	next.Fills = append([]Fill(nil), a.Fills...)
	next.ClearingPriceByBlock = append(append([]float64(nil), a.ClearingPriceByBlock...), result.ClearingPrice)
	pending := append([]Bid(nil), waiting...)

	for i, b := range eligible {
		tokens := allocations[i]
		if tokens <= epsilon {
			if a.Config.CarryUnfilled {
				carried := b
				carried.BlockSubmitted = block + 1
				pending = append(pending, carried)
				result.CarriedBids = append(result.CarriedBids, carried)
			} else {
				result.Refunds = append(result.Refunds, Refund{BidID: b.ID, BidderID: b.BidderID, Amount: b.TotalSpend})
			}
			continue
		}

		cost := tokens * result.ClearingPrice
		refund := b.TotalSpend - cost
		unfilled := b.Demand() - tokens
		if a.Config.CarryUnfilled && unfilled > epsilon {
			carried := b
			carried.ID = fmt.Sprintf("%s-b%d", b.ID, block+1)
			carried.TotalSpend = unfilled * b.MaxPrice
			carried.BlockSubmitted = block + 1
			pending = append(pending, carried)
			result.CarriedBids = append(result.CarriedBids, carried)
			refund -= carried.TotalSpend
		}

		fill := Fill{
			BidID:    b.ID,
			BidderID: b.BidderID,
			Block:    block,
			Tokens:   tokens,
			Price:    result.ClearingPrice,
			Cost:     cost,
			Refund:   math.Max(0, refund),
		}
		result.FilledBids = append(result.FilledBids, fill)
		next.Fills = append(next.Fills, fill)
		next.Allocated += tokens
		next.Raised += cost
	}

	next.CurrentBlock = block + 1
	next.Bids = pending

	if next.Allocated >= next.Config.SupplyCap-epsilon || next.CurrentBlock-next.StartBlock >= next.Config.MaxBlocks {
		next.Status = StatusClosed
		result.Closed = true
		for _, b := range next.Bids {
			result.Refunds = append(result.Refunds, Refund{BidID: b.ID, BidderID: b.BidderID, Amount: b.TotalSpend})
		}
		next.Bids = nil
	}

	return next, result, nil
}
