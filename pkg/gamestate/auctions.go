// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/AccelByte/extend-mercado-lp/pkg/auction"
	"github.com/AccelByte/extend-mercado-lp/pkg/challenge"
	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/metrics"
	"github.com/AccelByte/extend-mercado-lp/pkg/notify"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
	"github.com/AccelByte/extend-mercado-lp/pkg/token"
)

// Tutorial token.
const (
	tutorialSymbol = "TACO"
	tutorialName   = "Taco Token"
	tutorialEmoji  = "🌮"
)

// listingLiquidityShare is the part of an auction's proceeds that seeds its pool.
const listingLiquidityShare = 0.5

// LaunchRequest creates a token and opens its launch auction.
// A nil Auction uses the configured default.
type LaunchRequest struct {
	Symbol  string          `json:"symbol"`
	Name    string          `json:"name,omitempty"`
	Emoji   string          `json:"emoji,omitempty"`
	Auction *auction.Config `json:"auction,omitempty"`
}

// BidRequest is a player bid. TotalSpend is escrowed from the quote balance.
type BidRequest struct {
	MaxPrice   float64 `json:"maxPrice"`
	TotalSpend float64 `json:"totalSpend"`
}

// LaunchToken registers a player token and opens its auction.
func (s *Store) LaunchToken(ctx context.Context, req LaunchRequest) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	cfg := s.cfg.Auction
	if req.Auction != nil {
		cfg = *req.Auction
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	t, err := s.openAuction(req.Symbol, req.Name, req.Emoji, cfg, nil)
	if err != nil {
		return Result{}, err
	}

	s.snap.Player.Stats.TokensLaunched++
	s.addXP(ctx, XPLaunch, "launch")
	s.emit(ctx, signal.TypeTokenLaunched, 1, map[string]interface{}{"token_id": t.ID})

	s.log().Infof("launched token %s", t.Symbol)
	return s.commit(ctx), nil
}

// openAuction builds the token and its auction with the opening bids, and
// merges them into state only when every step succeeded.
func (s *Store) openAuction(symbol, name, emoji string, cfg auction.Config, opening []auction.Bid) (token.Token, error) {
	t, err := s.tokens.Prepare(symbol, name, emoji)
	if err != nil {
		return token.Token{}, err
	}
	a, err := auction.New(uuid.NewString(), t.ID, s.snap.Block, cfg)
	if err != nil {
		return token.Token{}, err
	}
	for _, b := range opening {
		if a, err = auction.PlaceBid(a, a.CurrentBlock, b); err != nil {
			return token.Token{}, fmt.Errorf("opening bid of %s: %w", b.BidderName, err)
		}
	}

	if err := s.tokens.Register(t); err != nil {
		return token.Token{}, err
	}
	s.snap.Tokens = s.tokens.List()
	s.snap.Auctions[t.ID] = a
	return t, nil
}

// PlaceBid escrows the spend and queues the bid for the current block.
func (s *Store) PlaceBid(ctx context.Context, tokenID string, req BidRequest) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	a, ok := s.snap.Auctions[tokenID]
	if !ok {
		return Result{}, fmt.Errorf("auction for %s: %w", tokenID, gameerr.ErrNotFound)
	}
	if err := s.ensureBalance(token.QuoteTokenID, req.TotalSpend); err != nil {
		return Result{}, err
	}

	next, err := auction.PlaceBid(a, a.CurrentBlock, auction.Bid{
		ID:         uuid.NewString(),
		BidderID:   s.playerID,
		BidderName: s.snap.Player.CharacterName,
		MaxPrice:   req.MaxPrice,
		TotalSpend: req.TotalSpend,
	})
	if err != nil {
		return Result{}, err
	}

	s.snap.Auctions[tokenID] = next
	s.debit(token.QuoteTokenID, req.TotalSpend)
	s.snap.Player.Stats.BidsPlaced++

	s.progress(challenge.KindPlaceBid, 1)
	s.addXP(ctx, XPBid, "bid")
	s.emit(ctx, signal.TypeBidPlaced, req.TotalSpend, map[string]interface{}{
		"token_id":  tokenID,
		"max_price": req.MaxPrice,
	})
	return s.commit(ctx), nil
}

// AdvanceAuctionBlock clears the current block of the token's auction.
func (s *Store) AdvanceAuctionBlock(ctx context.Context, tokenID string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	if err := s.advanceAuction(ctx, tokenID); err != nil {
		return Result{}, err
	}
	return s.commit(ctx), nil
}

// advanceAuction clears one block and settles the player's fills and refunds.
// A closing auction lists its token against the quote token at the final price.
func (s *Store) advanceAuction(ctx context.Context, tokenID string) error {
	a, ok := s.snap.Auctions[tokenID]
	if !ok {
		return fmt.Errorf("auction for %s: %w", tokenID, gameerr.ErrNotFound)
	}
	wonBefore := s.playerFilled(a)

	next, res, err := auction.AdvanceBlock(a)
	if err != nil {
		return err
	}
	s.snap.Auctions[tokenID] = next
	metrics.AuctionBlocksTotal.WithLabelValues(strconv.FormatBool(res.Closed)).Inc()

	won := 0.0
	for _, f := range res.FilledBids {
		if f.BidderID != s.playerID {
			continue
		}
		s.credit(tokenID, f.Tokens)
		s.credit(token.QuoteTokenID, f.Refund)
		won += f.Tokens
	}
	for _, r := range res.Refunds {
		if r.BidderID == s.playerID {
			s.credit(token.QuoteTokenID, r.Amount)
		}
	}

	s.log().Debugf("auction %s block %d cleared at %.4f", tokenID, res.Block, res.ClearingPrice)

	if won > 0 {
		if !wonBefore {
			s.snap.Player.Stats.AuctionsWon++
		}
		s.emit(ctx, signal.TypeAuctionWon, won, map[string]interface{}{
			"token_id": tokenID,
			"price":    res.ClearingPrice,
		})
	}
	if res.Closed {
		s.listToken(next)
	}
	return nil
}

func (s *Store) playerFilled(a auction.Auction) bool {
	for _, f := range a.Fills {
		if f.BidderID == s.playerID {
			return true
		}
	}
	return false
}

// listToken opens the token/quote pool of a closed auction with house liquidity.
func (s *Store) listToken(a auction.Auction) {
	price := a.FinalPrice()
	if price <= 0 || a.Raised <= 0 || s.poolIndex(a.TokenID, token.QuoteTokenID) >= 0 {
		return
	}
	quote := a.Raised * listingLiquidityShare
	p, positions, err := seedHousePool(a.TokenID, quote/price, quote, s.snap.Positions, s.snap.Block)
	if err != nil {
		s.log().Errorf("failed to list %s: %v", a.TokenID, err)
		return
	}
	s.snap.Pools = append(s.snap.Pools, p)
	s.snap.Positions = positions
	s.log().Infof("listed %s at %.4f", a.TokenID, price)
}

// StartAuctionTutorial opens the guided auction with NPC bidders. The
// scheduler advances it one block per tick.
func (s *Store) StartAuctionTutorial(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	if s.snap.Tutorial.Active || s.snap.Tutorial.Completed {
		return Result{}, fmt.Errorf("auction tutorial already started: %w", gameerr.ErrInvalidTransition)
	}

	var npcBids []auction.Bid
	for i, npc := range s.league.Roster() {
		npcBids = append(npcBids, auction.Bid{
			ID:         uuid.NewString(),
			BidderID:   npc.ID,
			BidderName: npc.Name,
			MaxPrice:   0.2 + 0.1*float64(i),
			TotalSpend: 60 + 20*float64(i),
		})
	}
	t, err := s.openAuction(tutorialSymbol, tutorialName, tutorialEmoji, s.cfg.Tutorial, npcBids)
	if err != nil {
		return Result{}, err
	}

	s.snap.Tutorial.Active = true
	s.snap.Tutorial.TokenID = t.ID
	s.snap.Tutorial.Step = 0

	s.queue(notify.Notification{
		Key:      "tip:auction_tutorial",
		Category: notify.CategoryTip,
		Title:    "Subasta de práctica",
		Body:     "Place a bid on TACO. A block clears on every market tick.",
		Emoji:    tutorialEmoji,
	})
	return s.commit(ctx), nil
}

// stepTutorial advances the tutorial auction by one block.
func (s *Store) stepTutorial(ctx context.Context) {
	tut := s.snap.Tutorial
	if !tut.Active {
		return
	}
	if err := s.advanceAuction(ctx, tut.TokenID); err != nil {
		s.log().Warnf("tutorial auction: %v", err)
	}
	s.snap.Tutorial.Step++
	if a, ok := s.snap.Auctions[tut.TokenID]; !ok || !a.IsOpen() {
		s.snap.Tutorial.Active = false
		s.snap.Tutorial.Completed = true
		s.log().Info("auction tutorial completed")
	}
}
