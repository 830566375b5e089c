// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package session holds the screen-flow state machine of a game session.
package session

import (
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
)

// Stage is a game screen.
type Stage string

const (
	StageStart          Stage = "start"
	StageOnboarding     Stage = "onboarding"
	StageMarketPlazaMap Stage = "market_plaza_map"
	StageSwap           Stage = "swap"
	StageLiquidity      Stage = "liquidity"
	StageTokenCreator   Stage = "token_creator"
	StageCCA            Stage = "cca"
	StageTradingLeague  Stage = "trading_league"
	StageMarketMaker    Stage = "market_maker"
)

// GameStages are the stages reachable from the map.
var GameStages = []Stage{StageSwap, StageLiquidity, StageTokenCreator, StageCCA, StageTradingLeague, StageMarketMaker}

// IsGame reports whether the stage is one of the playable levels.
func (s Stage) IsGame() bool {
	for _, g := range GameStages {
		if g == s {
			return true
		}
	}
	return false
}

// Role is the persona chosen on the start screen.
type Role string

const (
	RoleTrader            Role = "trader"
	RoleLiquidityProvider Role = "liquidity_provider"
	RoleTokenCreator      Role = "token_creator"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	switch r {
	case RoleTrader, RoleLiquidityProvider, RoleTokenCreator:
		return true
	}
	return false
}

// Gates maps a stage to the minimum player level needed to enter it.
type Gates map[Stage]int

// DefaultGates locks the league and market-maker levels.
func DefaultGates() Gates {
	return Gates{
		StageTradingLeague: 3,
		StageMarketMaker:   5,
	}
}

// Flow is the session-flow state.
type Flow struct {
	Stage              Stage          `json:"stage"`
	Role               Role           `json:"role,omitempty"`
	OnboardingComplete bool           `json:"onboardingComplete"`
	MapOpen            bool           `json:"mapOpen"`
	Visited            map[Stage]bool `json:"visited,omitempty"`
}

// NewFlow returns a flow on the start screen.
func NewFlow() Flow {
	return Flow{Stage: StageStart, Visited: map[Stage]bool{}}
}

func (f Flow) clone() Flow {
	visited := make(map[Stage]bool, len(f.Visited))
	for k, v := range f.Visited {
		visited[k] = v
	}
	f.Visited = visited
	return f
}

func invalid(from, to Stage) error {
	return fmt.Errorf("cannot move from %s to %s: %w", from, to, gameerr.ErrInvalidTransition)
}

// SelectRole leaves the start screen. First-time players go through onboarding.
func (f Flow) SelectRole(role Role) (Flow, error) {
	if !role.Valid() {
		return f, fmt.Errorf("unknown role %q: %w", role, gameerr.ErrInvalidTransition)
	}
	if f.Stage != StageStart {
		return f, invalid(f.Stage, StageOnboarding)
	}

	next := f.clone()
	next.Role = role
	if next.OnboardingComplete {
		next.Stage = StageMarketPlazaMap
	} else {
		next.Stage = StageOnboarding
	}
	return next, nil
}

// FinishOnboarding moves from onboarding to the map, whether completed or skipped.
func (f Flow) FinishOnboarding() (Flow, error) {
	if f.Stage != StageOnboarding {
		return f, invalid(f.Stage, StageMarketPlazaMap)
	}
	next := f.clone()
	next.OnboardingComplete = true
	next.Stage = StageMarketPlazaMap
	return next, nil
}

// Enter moves to a stage. Game stages need the map or another game stage as
// origin and may be level gated. It reports whether the stage was visited for
// the first time.
func (f Flow) Enter(stage Stage, level int, gates Gates) (Flow, bool, error) {
	switch {
	case stage == StageMarketPlazaMap:
		if f.Stage != StageMarketPlazaMap && !f.Stage.IsGame() {
			return f, false, invalid(f.Stage, stage)
		}
	case stage.IsGame():
		if f.Stage != StageMarketPlazaMap && !f.Stage.IsGame() {
			return f, false, invalid(f.Stage, stage)
		}
		if min, ok := gates[stage]; ok && level < min {
			return f, false, fmt.Errorf("%s requires level %d, player is level %d: %w", stage, min, level, gameerr.ErrLevelLocked)
		}
	default:
		return f, false, invalid(f.Stage, stage)
	}

	next := f.clone()
	first := !next.Visited[stage]
	next.Visited[stage] = true
	next.Stage = stage
	next.MapOpen = false
	return next, first, nil
}

// OpenMap shows the map overlay on top of a game stage.
func (f Flow) OpenMap() (Flow, error) {
	if !f.Stage.IsGame() && f.Stage != StageMarketPlazaMap {
		return f, invalid(f.Stage, StageMarketPlazaMap)
	}
	next := f.clone()
	next.MapOpen = true
	return next, nil
}

// CloseMap hides the map overlay.
func (f Flow) CloseMap() Flow {
	next := f.clone()
	next.MapOpen = false
	return next
}

// Unlocked reports whether level is high enough for stage.
func (g Gates) Unlocked(stage Stage, level int) bool {
	min, ok := g[stage]
	return !ok || level >= min
}
