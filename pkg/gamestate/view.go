// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import (
	"sort"

	"github.com/AccelByte/extend-mercado-lp/pkg/auction"
	"github.com/AccelByte/extend-mercado-lp/pkg/challenge"
	"github.com/AccelByte/extend-mercado-lp/pkg/league"
	"github.com/AccelByte/extend-mercado-lp/pkg/market"
	"github.com/AccelByte/extend-mercado-lp/pkg/notify"
	"github.com/AccelByte/extend-mercado-lp/pkg/pool"
	"github.com/AccelByte/extend-mercado-lp/pkg/position"
	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/session"
	"github.com/AccelByte/extend-mercado-lp/pkg/state"
	"github.com/AccelByte/extend-mercado-lp/pkg/token"
)

// PositionView is a player position valued against its pool.
type PositionView struct {
	position.Position
	ImpermanentLoss position.ImpermanentLoss `json:"impermanentLoss"`
}

// View is the read model returned by every action.
type View struct {
	CurrentLevel session.Stage      `json:"currentLevel"`
	Role         session.Role       `json:"role,omitempty"`
	Tokens       []token.Token      `json:"tokens"`
	Pools        []pool.Pool        `json:"pools"`
	Positions    []PositionView     `json:"positions"`
	Player       progression.Player `json:"player"`
	NextLevelXP  int64              `json:"nextLevelXp"`
	IsLoaded     bool               `json:"isLoaded"`
	Block        int64              `json:"block"`
	MapOpen      bool               `json:"mapOpen"`

	ActiveTip           *notify.Notification `json:"activeTip,omitempty"`
	NewBadge            *notify.Notification `json:"newBadge,omitempty"`
	LevelUpNotification *notify.Notification `json:"levelUpNotification,omitempty"`
	NFTClaim            *notify.Notification `json:"nftClaim,omitempty"`
	PendingNFTClaim     bool                 `json:"pendingNftClaim"`
	LoginPrompt         *notify.LoginPrompt  `json:"loginPrompt,omitempty"`

	DailyChallenges  challenge.State        `json:"dailyChallenges"`
	StreakState      challenge.Streak       `json:"streakState"`
	ActiveEvents     []market.Event         `json:"activeEvents"`
	TradingLeague    []league.Entry         `json:"tradingLeague"`
	MarketMakerStats league.MarketMakerStats `json:"marketMakerStats"`
	AuctionTutorial  state.Tutorial         `json:"auctionTutorial"`
	Auctions         []auction.Auction      `json:"auctions"`

	// PersistenceWarning is set once after storage becomes unavailable.
	PersistenceWarning string `json:"persistenceWarning,omitempty"`
}

// view derives the read model. Callers hold mu.
func (s *Store) view() View {
	if !s.loaded {
		return View{}
	}
	snap := s.snap
	now := s.now()

	pools := make(map[string]pool.Pool, len(snap.Pools))
	for _, p := range snap.Pools {
		pools[p.ID] = p
	}
	owned := position.ForOwner(snap.Positions, s.playerID)
	positions := make([]PositionView, 0, len(owned))
	for _, pos := range owned {
		pv := PositionView{Position: pos}
		if p, ok := pools[pos.PoolID]; ok {
			pv.ImpermanentLoss = position.ComputeImpermanentLoss(pos, p)
		}
		positions = append(positions, pv)
	}

	auctions := make([]auction.Auction, 0, len(snap.Auctions))
	for _, a := range snap.Auctions {
		auctions = append(auctions, a)
	}
	sort.Slice(auctions, func(i, j int) bool {
		if auctions[i].StartBlock != auctions[j].StartBlock {
			return auctions[i].StartBlock < auctions[j].StartBlock
		}
		return auctions[i].TokenID < auctions[j].TokenID
	})

	v := View{
		CurrentLevel:        snap.Session.Stage,
		Role:                snap.Session.Role,
		Tokens:              append([]token.Token(nil), snap.Tokens...),
		Pools:               append([]pool.Pool(nil), snap.Pools...),
		Positions:           positions,
		Player:              snap.Player.Clone(),
		NextLevelXP:         s.cfg.Progression.Table().NextThreshold(snap.Player.Level),
		IsLoaded:            true,
		Block:               snap.Block,
		MapOpen:             snap.Session.MapOpen,
		ActiveTip:           snap.Notifications.Get(notify.CategoryTip),
		NewBadge:            snap.Notifications.Get(notify.CategoryBadge),
		LevelUpNotification: snap.Notifications.Get(notify.CategoryLevelUp),
		NFTClaim:            snap.Notifications.Get(notify.CategoryNFTClaim),
		PendingNFTClaim:     s.flags[state.KeyPendingNFTClaim],
		DailyChallenges:     snap.Challenges,
		StreakState:         snap.Streak,
		ActiveEvents:        market.Visible(snap.Events, now),
		TradingLeague:       append([]league.Entry(nil), snap.League.Entries...),
		MarketMakerStats:    league.ComputeMarketMakerStats(owned, pools),
		AuctionTutorial:     snap.Tutorial,
		Auctions:            auctions,
	}
	if s.loginPrompt != nil {
		p := *s.loginPrompt
		v.LoginPrompt = &p
	}
	if s.warningPending {
		v.PersistenceWarning = persistenceWarning
		s.warningPending = false
	}
	return v
}
