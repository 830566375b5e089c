// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import (
	"hash/fnv"
	"time"

	"github.com/AccelByte/extend-mercado-lp/pkg/auction"
	"github.com/AccelByte/extend-mercado-lp/pkg/challenge"
	"github.com/AccelByte/extend-mercado-lp/pkg/league"
	"github.com/AccelByte/extend-mercado-lp/pkg/market"
	"github.com/AccelByte/extend-mercado-lp/pkg/pipeline"
	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/session"
	"github.com/AccelByte/extend-mercado-lp/pkg/token"
)

// XP paid for core actions, on top of anything the unlock pipeline grants.
const (
	XPSwap        = 10
	XPLiquidity   = 20
	XPBid         = 5
	XPLaunch      = 50
	XPOnboarding  = 20
	xpMilestone   = 250
	houseOwnerID  = "mercado"
	defaultPlayer = "Jugador"
)

// Config holds the engines and collaborators shared by every store.
// Zero values are replaced by defaults in withDefaults.
type Config struct {
	Progression *progression.Engine
	Challenges  *challenge.Engine
	// Roster is the NPC league. Nil uses league.DefaultRoster.
	Roster []league.Trader
	// VolumeModel and Events build the random sources of one session. Each
	// session gets its own, seeded from Seed and the player ID.
	VolumeModel func(seed int64) league.VolumeModel
	Events      func(seed int64) *market.Generator
	// Unlocks may be nil, in which case no unlock rules run.
	Unlocks *pipeline.Manager

	Gates    session.Gates
	Auction  auction.Config
	Tutorial auction.Config

	Users     UserLookup
	Navigator Navigator

	// StartingWallet is the wallet of a new player.
	StartingWallet map[string]float64
	// Seed drives the NPC volume model and event generator.
	Seed  int64
	Clock func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Progression == nil {
		c.Progression = progression.NewEngine(progression.DefaultTable(), nil)
	}
	if c.Challenges == nil {
		c.Challenges = challenge.NewEngine(challenge.Options{})
	}
	if c.VolumeModel == nil {
		c.VolumeModel = func(seed int64) league.VolumeModel { return league.DefaultModel(seed) }
	}
	if c.Events == nil {
		c.Events = func(seed int64) *market.Generator { return market.NewGenerator(seed, 0.05, 10*time.Minute) }
	}
	if c.Gates == nil {
		c.Gates = session.DefaultGates()
	}
	if c.Auction == (auction.Config{}) {
		c.Auction = auction.DefaultConfig()
	}
	if c.Tutorial == (auction.Config{}) {
		c.Tutorial = TutorialAuctionConfig()
	}
	if c.Users == nil {
		c.Users = ContextUsers{}
	}
	if c.Navigator == nil {
		c.Navigator = NopNavigator{}
	}
	if c.StartingWallet == nil {
		c.StartingWallet = map[string]float64{token.QuoteTokenID: 1000, "mango": 50}
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// sessionSeed mixes the configured seed with the player ID so every player
// replays the same market regardless of who else is online.
func sessionSeed(seed int64, playerID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(playerID))
	return seed ^ int64(h.Sum64())
}

// TutorialAuctionConfig is a short auction that carries unfilled bids so the
// tutorial shows every clearing outcome.
func TutorialAuctionConfig() auction.Config {
	return auction.Config{
		SupplyPerBlock: 500,
		SupplyCap:      1500,
		MaxBlocks:      4,
		ReservePrice:   0.1,
		CarryUnfilled:  true,
	}
}
