// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package progression tracks player XP, levels and badges.
package progression

import (
	"fmt"
	"sort"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/session"
)

// DefaultThresholds is the XP needed to reach level i+1.
var DefaultThresholds = []int64{0, 100, 250, 500, 1000, 2000, 3500, 5500, 8000, 12000}

// Table maps XP to levels.
type Table struct {
	thresholds []int64
}

// NewTable validates a threshold table. It must start at 0 and increase strictly.
func NewTable(thresholds []int64) (Table, error) {
	if len(thresholds) == 0 || thresholds[0] != 0 {
		return Table{}, fmt.Errorf("level table must start at 0 XP: %w", gameerr.ErrInvalidAmount)
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			return Table{}, fmt.Errorf("level table not increasing at level %d: %w", i+1, gameerr.ErrInvalidAmount)
		}
	}
	return Table{thresholds: append([]int64(nil), thresholds...)}, nil
}

// DefaultTable returns the table built from DefaultThresholds.
func DefaultTable() Table {
	t, _ := NewTable(DefaultThresholds)
	return t
}

// MaxLevel is the highest reachable level.
func (t Table) MaxLevel() int {
	return len(t.thresholds)
}

// LevelFor returns the 1-based level for xp.
func (t Table) LevelFor(xp int64) int {
	return sort.Search(len(t.thresholds), func(i int) bool { return t.thresholds[i] > xp })
}

// NextThreshold is the XP required for the level after level, or -1 at max level.
func (t Table) NextThreshold(level int) int64 {
	if level < 1 || level >= len(t.thresholds) {
		return -1
	}
	return t.thresholds[level]
}

// Player is the progression view of the player.
type Player struct {
	ID            string             `json:"id"`
	CharacterName string             `json:"characterName"`
	Avatar        string             `json:"avatar"`
	Role          session.Role       `json:"role,omitempty"`
	Level         int                `json:"level"`
	XP            int64              `json:"xp"`
	Badges        []string           `json:"badges"`
	CurrentLevel  session.Stage      `json:"currentLevel"`
	Wallet        map[string]float64 `json:"wallet"`
	Stats         Stats              `json:"stats"`
}

// Stats are lifetime counters used by unlock rules.
type Stats struct {
	Swaps          int64   `json:"swaps"`
	SwapVolume     float64 `json:"swapVolume"`
	LiquidityAdds  int64   `json:"liquidityAdds"`
	TokensLaunched int64   `json:"tokensLaunched"`
	BidsPlaced     int64   `json:"bidsPlaced"`
	AuctionsWon    int64   `json:"auctionsWon"`
	FeesCollected  float64 `json:"feesCollected"`
	ChallengesDone int64   `json:"challengesDone"`
}

// NewPlayer returns a level 1 player with the given starting wallet.
func NewPlayer(id string, wallet map[string]float64) Player {
	w := make(map[string]float64, len(wallet))
	for k, v := range wallet {
		w[k] = v
	}
	return Player{
		ID:           id,
		Level:        1,
		Badges:       []string{},
		CurrentLevel: session.StageStart,
		Wallet:       w,
	}
}

// HasBadge reports whether the player holds badgeID.
func (p Player) HasBadge(badgeID string) bool {
	for _, b := range p.Badges {
		if b == badgeID {
			return true
		}
	}
	return false
}

// Clone copies the slices and maps of the player.
func (p Player) Clone() Player {
	p.Badges = append([]string(nil), p.Badges...)
	w := make(map[string]float64, len(p.Wallet))
	for k, v := range p.Wallet {
		w[k] = v
	}
	p.Wallet = w
	return p
}

// LevelUpEvent is emitted once per AddXp call that crosses at least one threshold.
type LevelUpEvent struct {
	From   int    `json:"from"`
	To     int    `json:"to"`
	XP     int64  `json:"xp"`
	Source string `json:"source"`
}

// Engine applies XP and badge awards.
type Engine struct {
	table  Table
	badges map[string]Badge
}

// NewEngine creates an engine. A nil catalog uses DefaultBadges.
func NewEngine(table Table, catalog []Badge) *Engine {
	if catalog == nil {
		catalog = DefaultBadges()
	}
	badges := make(map[string]Badge, len(catalog))
	for _, b := range catalog {
		badges[b.ID] = b
	}
	return &Engine{table: table, badges: badges}
}

// Table returns the level table in use.
func (e *Engine) Table() Table {
	return e.table
}

// AddXp adds amount to the player's XP and recomputes the level.
func (e *Engine) AddXp(p Player, amount int64, source string) (Player, *LevelUpEvent, error) {
	if amount < 0 {
		return p, nil, fmt.Errorf("xp amount %d: %w", amount, gameerr.ErrInvalidAmount)
	}

	next := p.Clone()
	next.XP += amount
	next.Level = e.table.LevelFor(next.XP)
	if next.Level <= p.Level {
		next.Level = max(next.Level, p.Level)
		return next, nil, nil
	}
	return next, &LevelUpEvent{From: p.Level, To: next.Level, XP: next.XP, Source: source}, nil
}

// AwardBadge grants badgeID. Re-awarding a held badge is a no-op.
func (e *Engine) AwardBadge(p Player, badgeID string) (Player, bool, error) {
	if _, ok := e.badges[badgeID]; !ok {
		return p, false, fmt.Errorf("unknown badge %q: %w", badgeID, gameerr.ErrInvalidAmount)
	}
	if p.HasBadge(badgeID) {
		return p, false, nil
	}
	next := p.Clone()
	next.Badges = append(next.Badges, badgeID)
	return next, true, nil
}

// RevokeBadge removes badgeID if held.
func (e *Engine) RevokeBadge(p Player, badgeID string) Player {
	next := p.Clone()
	next.Badges = next.Badges[:0]
	for _, b := range p.Badges {
		if b != badgeID {
			next.Badges = append(next.Badges, b)
		}
	}
	return next
}

// Badge looks up a catalog entry.
func (e *Engine) Badge(id string) (Badge, bool) {
	b, ok := e.badges[id]
	return b, ok
}
