// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import (
	"context"
	"time"

	"github.com/AccelByte/extend-mercado-lp/pkg/challenge"
	"github.com/AccelByte/extend-mercado-lp/pkg/league"
	"github.com/AccelByte/extend-mercado-lp/pkg/market"
	"github.com/AccelByte/extend-mercado-lp/pkg/metrics"
	"github.com/AccelByte/extend-mercado-lp/pkg/notify"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
)

// podiumRank is the lowest rank that prompts sign-in.
const podiumRank = 3

// Tick advances the simulated market by one block: challenge and streak
// rollover, NPC trading, market events, the auction tutorial and the league.
func (s *Store) Tick(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	now := s.now()
	s.recoverPersistence(ctx)

	s.snap.Challenges, _ = s.cfg.Challenges.Refresh(s.snap.Challenges, now)
	s.snap.Streak = challenge.Expire(s.snap.Streak, now)

	s.tradeNPCs(ctx)
	s.snap.Block++

	s.rollEvents(now)
	s.stepTutorial(ctx)

	prevRank := league.PlayerRank(s.snap.League.Entries)
	rank := s.recomputeLeague()
	if rank > 0 && rank != prevRank {
		s.emit(ctx, signal.TypeLeagueRanked, float64(rank), map[string]interface{}{
			"volume": s.snap.League.Volumes[s.playerID],
		})
		if rank <= podiumRank {
			s.promptLogin(ctx, notify.LoginLeaderboard)
		}
	}
	return s.commit(ctx), nil
}

// tradeNPCs executes one round of NPC swaps. A rejected trade is skipped.
func (s *Store) tradeNPCs(ctx context.Context) {
	for _, t := range s.league.Tick(s.snap.Pools) {
		idx := s.poolByID(t.PoolID)
		if idx < 0 {
			continue
		}
		before := s.snap.Pools[idx]
		if _, err := s.executeSwap(ctx, idx, t.TokenIn, t.AmountIn, 0); err != nil {
			s.log().Debugf("npc %s trade skipped: %v", t.TraderID, err)
			continue
		}
		volume := before.ValueInB(t.TokenIn, t.AmountIn)
		s.snap.League.Volumes[t.TraderID] += volume
		metrics.SwapsTotal.WithLabelValues(metrics.SourceNPC).Inc()
		metrics.SwapVolume.WithLabelValues(metrics.SourceNPC).Add(volume)
	}
}

// rollEvents expires old events and may start a new one while none is showing.
func (s *Store) rollEvents(now time.Time) {
	s.snap.Events = market.Expire(s.snap.Events, now)
	if len(market.Visible(s.snap.Events, now)) > 0 {
		return
	}
	e, ok := s.events.Maybe(s.snap.Pools, now)
	if !ok {
		return
	}
	idx := s.poolByID(e.PoolID)
	if idx < 0 {
		return
	}
	p, err := market.Apply(s.snap.Pools[idx], e)
	if err != nil {
		s.log().Warnf("market event %s not applied: %v", e.Kind, err)
		return
	}
	s.snap.Pools[idx] = p
	s.snap.Events = append(s.snap.Events, e)
	s.log().Infof("market event %s on %s", e.Kind, e.PoolID)
}

// Start runs Tick every interval until Stop or ctx is done.
func (s *Store) Start(ctx context.Context, every time.Duration) {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()

	if s.cancel != nil || every <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Tick(ctx); err != nil {
					s.log().Warnf("tick failed: %v", err)
				}
			}
		}
	}()
}

// Stop halts the scheduler and waits for an in-flight tick.
func (s *Store) Stop() {
	s.schedMu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.schedMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
