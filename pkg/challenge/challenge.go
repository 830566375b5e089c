// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package challenge implements daily challenges, the daily bonus and the
// login streak.
package challenge

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
)

// Kind is the player activity a challenge counts.
type Kind string

const (
	KindSwap         Kind = "swap"
	KindSwapVolume   Kind = "swap_volume"
	KindAddLiquidity Kind = "add_liquidity"
	KindPlaceBid     Kind = "place_bid"
	KindCollectFees  Kind = "collect_fees"
	KindVisitLevel   Kind = "visit_level"
)

// DayLayout formats the local calendar day a challenge set belongs to.
const DayLayout = "2006-01-02"

// DailySetSize is the number of challenges offered per day.
const DailySetSize = 3

// Template describes a challenge that can be drawn for a day.
type Template struct {
	Kind         Kind    `json:"kind"`
	Description  string  `json:"description"`
	Target       float64 `json:"target"`
	RewardXP     int64   `json:"rewardXp"`
	RewardTokens float64 `json:"rewardTokens"`
}

// DefaultTemplates is the built-in template pool.
func DefaultTemplates() []Template {
	return []Template{
		{Kind: KindSwap, Description: "Make 3 swaps", Target: 3, RewardXP: 30, RewardTokens: 5},
		{Kind: KindSwap, Description: "Make 10 swaps", Target: 10, RewardXP: 80, RewardTokens: 15},
		{Kind: KindSwapVolume, Description: "Trade 500 pesos of volume", Target: 500, RewardXP: 50, RewardTokens: 10},
		{Kind: KindAddLiquidity, Description: "Add liquidity to any pool", Target: 1, RewardXP: 40, RewardTokens: 5},
		{Kind: KindPlaceBid, Description: "Place 2 auction bids", Target: 2, RewardXP: 40, RewardTokens: 5},
		{Kind: KindCollectFees, Description: "Earn 5 pesos in LP fees", Target: 5, RewardXP: 60, RewardTokens: 10},
		{Kind: KindVisitLevel, Description: "Visit 3 market stalls", Target: 3, RewardXP: 20, RewardTokens: 2},
	}
}

// Challenge is one daily challenge.
type Challenge struct {
	ID           string  `json:"id"`
	Kind         Kind    `json:"kind"`
	Description  string  `json:"description"`
	Target       float64 `json:"target"`
	Progress     float64 `json:"progress"`
	RewardXP     int64   `json:"rewardXp"`
	RewardTokens float64 `json:"rewardTokens"`
	Completed    bool    `json:"completed"`
	Claimed      bool    `json:"claimed"`
}

// State is the current day's challenge set.
type State struct {
	Day                 string      `json:"day"`
	Challenges          []Challenge `json:"challenges"`
	DailyBonusClaimedAt time.Time   `json:"dailyBonusClaimedAt"`
	SetBonusClaimed     bool        `json:"setBonusClaimed"`
}

func (s State) clone() State {
	s.Challenges = append([]Challenge(nil), s.Challenges...)
	return s
}

// Reward is paid by a claim.
type Reward struct {
	Day    int     `json:"day,omitempty"`
	XP     int64   `json:"xp"`
	Tokens float64 `json:"tokens"`
	Reason string  `json:"reason"`
}

// Add sums two rewards.
func (r Reward) Add(o Reward) Reward {
	r.XP += o.XP
	r.Tokens += o.Tokens
	return r
}

// Engine draws and scores challenges.
type Engine struct {
	templates      []Template
	loc            *time.Location
	setBonus       Reward
	dailyBonusBase int64
}

// Options tune the engine. Zero values pick defaults.
type Options struct {
	Templates      []Template
	Location       *time.Location
	SetBonus       Reward
	DailyBonusBase int64
}

// NewEngine creates a challenge engine.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		templates:      opts.Templates,
		loc:            opts.Location,
		setBonus:       opts.SetBonus,
		dailyBonusBase: opts.DailyBonusBase,
	}
	if len(e.templates) == 0 {
		e.templates = DefaultTemplates()
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.setBonus.XP == 0 && e.setBonus.Tokens == 0 {
		e.setBonus = Reward{XP: 100, Tokens: 20, Reason: "daily set complete"}
	}
	if e.dailyBonusBase == 0 {
		e.dailyBonusBase = 25
	}
	return e
}

// DayKey is the local calendar day of now.
func (e *Engine) DayKey(now time.Time) string {
	return now.In(e.loc).Format(DayLayout)
}

// Refresh replaces the challenge set when the local day changed. Uncompleted
// challenges of the previous day are dropped. It reports whether a new set was drawn.
func (e *Engine) Refresh(s State, now time.Time) (State, bool) {
	day := e.DayKey(now)
	if s.Day == day && len(s.Challenges) > 0 {
		return s, false
	}

	logrus.Debugf("daily challenge reset: %q -> %q", s.Day, day)

	next := State{Day: day, DailyBonusClaimedAt: s.DailyBonusClaimedAt}
	for i, idx := range e.pick(day) {
		t := e.templates[idx]
		next.Challenges = append(next.Challenges, Challenge{
			ID:           fmt.Sprintf("%s-%d", day, i),
			Kind:         t.Kind,
			Description:  t.Description,
			Target:       t.Target,
			RewardXP:     t.RewardXP,
			RewardTokens: t.RewardTokens,
		})
	}
	return next, true
}

// pick draws a deterministic set of template indexes for day.
func (e *Engine) pick(day string) []int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(day))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	perm := rng.Perm(len(e.templates))
	n := DailySetSize
	if n > len(perm) {
		n = len(perm)
	}
	return perm[:n]
}

// RecordProgress advances every open challenge of kind by amount. It returns
// the challenges that completed with this call.
func RecordProgress(s State, kind Kind, amount float64) (State, []Challenge) {
	if amount <= 0 {
		return s, nil
	}
	next := s.clone()
	var completed []Challenge
	for i := range next.Challenges {
		c := &next.Challenges[i]
		if c.Kind != kind || c.Completed {
			continue
		}
		c.Progress = min(c.Progress+amount, c.Target)
		if c.Progress >= c.Target {
			c.Completed = true
			completed = append(completed, *c)
		}
	}
	return next, completed
}

// Claim claims a single completed challenge.
func Claim(s State, id string) (State, Reward, error) {
	next := s.clone()
	for i := range next.Challenges {
		c := &next.Challenges[i]
		if c.ID != id {
			continue
		}
		if !c.Completed || c.Claimed {
			return s, Reward{}, fmt.Errorf("challenge %s not claimable: %w", id, gameerr.ErrNoRewardAvailable)
		}
		c.Claimed = true
		return next, Reward{XP: c.RewardXP, Tokens: c.RewardTokens, Reason: c.Description}, nil
	}
	return s, Reward{}, fmt.Errorf("challenge %s: %w", id, gameerr.ErrNotFound)
}

// ClaimAllCompleted claims every completed and unclaimed challenge at once.
// It fails without changes when nothing is eligible.
func (e *Engine) ClaimAllCompleted(s State) (State, Reward, int, error) {
	next := s.clone()
	total := Reward{Reason: "claim all"}
	claimed := 0
	for i := range next.Challenges {
		c := &next.Challenges[i]
		if !c.Completed || c.Claimed {
			continue
		}
		c.Claimed = true
		total = total.Add(Reward{XP: c.RewardXP, Tokens: c.RewardTokens})
		claimed++
	}
	if claimed == 0 {
		return s, Reward{}, 0, fmt.Errorf("no completed challenges: %w", gameerr.ErrNoRewardAvailable)
	}

	if !next.SetBonusClaimed && allClaimed(next.Challenges) {
		next.SetBonusClaimed = true
		total = total.Add(e.setBonus)
	}
	return next, total, claimed, nil
}

func allClaimed(cs []Challenge) bool {
	if len(cs) == 0 {
		return false
	}
	for _, c := range cs {
		if !c.Claimed {
			return false
		}
	}
	return true
}

// Completed counts completed challenges.
func (s State) Completed() int {
	n := 0
	for _, c := range s.Challenges {
		if c.Completed {
			n++
		}
	}
	return n
}
