// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package league simulates NPC traders and ranks the trading league.
package league

import (
	mathrand "math/rand"
	"sort"
	"sync"

	"github.com/AccelByte/extend-mercado-lp/pkg/pool"
)

// Trader is a simulated market participant.
type Trader struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Emoji is shown next to the name on the leaderboard.
	Emoji string `json:"emoji"`
	// Activity scales the volume the trader produces per tick.
	Activity float64 `json:"activity"`
}

// DefaultRoster is the built-in NPC roster.
func DefaultRoster() []Trader {
	return []Trader{
		{ID: "npc-dona-lupe", Name: "Doña Lupe", Emoji: "👵", Activity: 1.4},
		{ID: "npc-el-guero", Name: "El Güero", Emoji: "🤠", Activity: 1.1},
		{ID: "npc-chayo", Name: "Chayo", Emoji: "🌶️", Activity: 0.9},
		{ID: "npc-don-beto", Name: "Don Beto", Emoji: "🧔", Activity: 0.7},
		{ID: "npc-la-flaca", Name: "La Flaca", Emoji: "💃", Activity: 0.5},
	}
}

// Trade is an NPC swap to execute against a pool.
type Trade struct {
	TraderID string  `json:"traderId"`
	PoolID   string  `json:"poolId"`
	TokenIn  string  `json:"tokenIn"`
	AmountIn float64 `json:"amountIn"`
}

// VolumeModel decides how much an NPC trades on a tick.
type VolumeModel interface {
	// Next returns the amount of tokenIn the trader sends into p, or 0 to skip.
	Next(t Trader, p pool.Pool, tokenIn string) float64
	// Pick returns an index in [0,n).
	Pick(n int) int
}

// UniformModel draws each trade as a uniform fraction of the input reserve.
type UniformModel struct {
	// MinFraction and MaxFraction bound the trade size relative to the reserve.
	MinFraction float64
	MaxFraction float64
	// SkipProbability is the chance a trader sits out a tick.
	SkipProbability float64

	mu   sync.Mutex
	rand *mathrand.Rand
}

// NewUniformModel creates a seeded model.
func NewUniformModel(seed int64, minFraction, maxFraction, skip float64) *UniformModel {
	return &UniformModel{
		MinFraction:     minFraction,
		MaxFraction:     maxFraction,
		SkipProbability: skip,
		rand:            mathrand.New(mathrand.NewSource(seed)),
	}
}

// DefaultModel trades between 0.5% and 3% of the reserve, skipping 30% of ticks.
func DefaultModel(seed int64) *UniformModel {
	return NewUniformModel(seed, 0.005, 0.03, 0.3)
}

func (m *UniformModel) nextFloat() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rand.Float64()
}

// Next implements VolumeModel.
func (m *UniformModel) Next(t Trader, p pool.Pool, tokenIn string) float64 {
	if m.nextFloat() < m.SkipProbability {
		return 0
	}
	reserve := p.ReserveA
	if tokenIn == p.TokenB {
		reserve = p.ReserveB
	}
	frac := m.MinFraction + (m.MaxFraction-m.MinFraction)*m.nextFloat()
	return reserve * frac * t.Activity
}

// Pick implements VolumeModel.
func (m *UniformModel) Pick(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rand.Intn(n)
}

// Engine produces NPC activity and ranks the league.
type Engine struct {
	roster []Trader
	model  VolumeModel
}

// NewEngine creates a league engine. A nil roster uses DefaultRoster.
func NewEngine(roster []Trader, model VolumeModel) *Engine {
	if roster == nil {
		roster = DefaultRoster()
	}
	return &Engine{roster: roster, model: model}
}

// Roster returns the NPC traders.
func (e *Engine) Roster() []Trader {
	return e.roster
}

// Tick produces one round of NPC trades against the non-empty pools.
func (e *Engine) Tick(pools []pool.Pool) []Trade {
	var live []pool.Pool
	for _, p := range pools {
		if !p.IsEmpty() {
			live = append(live, p)
		}
	}
	if len(live) == 0 {
		return nil
	}

	var trades []Trade
	for _, t := range e.roster {
		p := live[e.model.Pick(len(live))]
		tokenIn := p.TokenA
		if e.model.Pick(2) == 1 {
			tokenIn = p.TokenB
		}
		amount := e.model.Next(t, p, tokenIn)
		if amount <= 0 {
			continue
		}
		trades = append(trades, Trade{TraderID: t.ID, PoolID: p.ID, TokenIn: tokenIn, AmountIn: amount})
	}
	return trades
}

// Entry is one leaderboard row.
type Entry struct {
	PlayerID string  `json:"playerId"`
	Name     string  `json:"name"`
	Volume   float64 `json:"volume"`
	Rank     int     `json:"rank"`
	IsPlayer bool    `json:"isPlayer"`
}

// Participant is an input to Rank.
type Participant struct {
	ID       string
	Name     string
	IsPlayer bool
}

// Rank orders participants by cumulative volume, highest first. Ties are
// broken by player id so the order is stable across recomputation.
func Rank(participants []Participant, volumes map[string]float64) []Entry {
	entries := make([]Entry, 0, len(participants))
	for _, p := range participants {
		entries = append(entries, Entry{
			PlayerID: p.ID,
			Name:     p.Name,
			Volume:   volumes[p.ID],
			IsPlayer: p.IsPlayer,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Volume != entries[j].Volume {
			return entries[i].Volume > entries[j].Volume
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Participants returns the roster plus the player.
func (e *Engine) Participants(playerID, playerName string) []Participant {
	out := make([]Participant, 0, len(e.roster)+1)
	for _, t := range e.roster {
		out = append(out, Participant{ID: t.ID, Name: t.Emoji + " " + t.Name})
	}
	return append(out, Participant{ID: playerID, Name: playerName, IsPlayer: true})
}

// PlayerRank returns the player's rank, or 0 if absent.
func PlayerRank(entries []Entry) int {
	for _, e := range entries {
		if e.IsPlayer {
			return e.Rank
		}
	}
	return 0
}
