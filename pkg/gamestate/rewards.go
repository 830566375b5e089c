// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import (
	"context"

	"github.com/AccelByte/extend-mercado-lp/pkg/challenge"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
)

// checkedIn feeds a streak change into the unlock pipeline.
func (s *Store) checkedIn(ctx context.Context, before challenge.Streak) {
	if s.snap.Streak.LastClaimDate.Equal(before.LastClaimDate) {
		return
	}
	s.emit(ctx, signal.TypeStreakCheckIn, float64(s.snap.Streak.CurrentStreak), nil)
}

// ClaimStreakReward checks in and pays the queued streak rewards.
func (s *Store) ClaimStreakReward(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	before := s.snap.Streak
	streak, reward, err := challenge.ClaimStreakReward(before, s.now())
	if err != nil {
		return Result{}, err
	}
	s.snap.Streak = streak
	s.pay(ctx, reward, "streak")
	s.checkedIn(ctx, before)
	return s.commit(ctx), nil
}

// ClaimDailyBonus pays the daily bonus, scaled by the streak.
func (s *Store) ClaimDailyBonus(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	before := s.snap.Streak
	challenges, streak, reward, err := s.cfg.Challenges.ClaimDailyBonus(s.snap.Challenges, before, s.now())
	if err != nil {
		return Result{}, err
	}
	s.snap.Challenges = challenges
	s.snap.Streak = streak
	s.pay(ctx, reward, "daily_bonus")
	s.checkedIn(ctx, before)
	return s.commit(ctx), nil
}

// ClaimChallenge claims one completed challenge.
func (s *Store) ClaimChallenge(ctx context.Context, id string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	challenges, reward, err := challenge.Claim(s.snap.Challenges, id)
	if err != nil {
		return Result{}, err
	}
	s.snap.Challenges = challenges
	s.snap.Player.Stats.ChallengesDone++
	s.pay(ctx, reward, "challenge")
	s.emit(ctx, signal.TypeChallengeClaimed, 1, map[string]interface{}{"challenge_id": id})
	return s.commit(ctx), nil
}

// ClaimAllCompletedBonus claims every completed challenge at once, or none.
func (s *Store) ClaimAllCompletedBonus(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	challenges, reward, claimed, err := s.cfg.Challenges.ClaimAllCompleted(s.snap.Challenges)
	if err != nil {
		return Result{}, err
	}
	s.snap.Challenges = challenges
	s.snap.Player.Stats.ChallengesDone += int64(claimed)
	s.pay(ctx, reward, "challenge")
	s.emit(ctx, signal.TypeChallengeClaimed, float64(claimed), nil)
	return s.commit(ctx), nil
}
