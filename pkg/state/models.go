// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"time"

	"github.com/AccelByte/extend-mercado-lp/pkg/auction"
	"github.com/AccelByte/extend-mercado-lp/pkg/challenge"
	"github.com/AccelByte/extend-mercado-lp/pkg/league"
	"github.com/AccelByte/extend-mercado-lp/pkg/market"
	"github.com/AccelByte/extend-mercado-lp/pkg/notify"
	"github.com/AccelByte/extend-mercado-lp/pkg/pool"
	"github.com/AccelByte/extend-mercado-lp/pkg/position"
	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/session"
	"github.com/AccelByte/extend-mercado-lp/pkg/token"
)

// SnapshotVersion is the current schema version of Snapshot.
//
// Version history:
//   - 1: league stored as a flat entry list, no session flow or notification queue.
//   - 2: league volumes map, session flow, notifications, fired rules, tutorial.
const SnapshotVersion = 2

// Snapshot is the complete persisted game state of one player.
type Snapshot struct {
	Version       int                        `json:"version"`
	Tokens        []token.Token              `json:"tokens"`
	Pools         []pool.Pool                `json:"pools"`
	Positions     []position.Position        `json:"positions"`
	Auctions      map[string]auction.Auction `json:"auctions"`
	Player        progression.Player         `json:"player"`
	Challenges    challenge.State            `json:"challenges"`
	Streak        challenge.Streak           `json:"streak"`
	League        LeagueState                `json:"league"`
	Events        []market.Event             `json:"events"`
	Notifications notify.Queue               `json:"notifications"`
	Session       session.Flow               `json:"session"`
	Tutorial      Tutorial                   `json:"tutorial"`
	FiredRules    map[string]bool            `json:"firedRules"`
	Block         int64                      `json:"block"`
	UpdatedAt     time.Time                  `json:"updatedAt"`
}

// LeagueState holds cumulative volume per participant and the last ranking.
type LeagueState struct {
	Volumes map[string]float64 `json:"volumes"`
	Entries []league.Entry     `json:"entries"`
}

// Tutorial tracks the guided auction tutorial.
type Tutorial struct {
	Active    bool   `json:"active"`
	TokenID   string `json:"tokenId,omitempty"`
	Step      int    `json:"step"`
	Completed bool   `json:"completed"`
}
