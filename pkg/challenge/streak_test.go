// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package challenge

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
)

func TestCheckIn(t *testing.T) {
	first, ok := CheckIn(Streak{}, day0)
	if !ok || first.CurrentStreak != 1 {
		t.Fatalf("first CheckIn() = %+v, expected streak 1", first)
	}

	tests := []struct {
		name        string
		after       time.Duration
		expectOK    bool
		expectCount int
	}{
		{name: "same period", after: 5 * time.Hour, expectOK: false, expectCount: 1},
		{name: "hour 30 continues", after: 30 * time.Hour, expectOK: true, expectCount: 2},
		{name: "hour 48 continues", after: 48 * time.Hour, expectOK: true, expectCount: 2},
		{name: "hour 50 resets", after: 50 * time.Hour, expectOK: true, expectCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := CheckIn(first, day0.Add(tt.after))
			if ok != tt.expectOK {
				t.Errorf("CheckIn() ok = %v, expected %v", ok, tt.expectOK)
			}
			if next.CurrentStreak != tt.expectCount {
				t.Errorf("CurrentStreak = %d, expected %d", next.CurrentStreak, tt.expectCount)
			}
		})
	}
}

func TestCheckIn_TracksLongest(t *testing.T) {
	s := Streak{}
	now := day0
	for i := 0; i < 4; i++ {
		s, _ = CheckIn(s, now)
		now = now.Add(25 * time.Hour)
	}
	s, _ = CheckIn(s, now.Add(72*time.Hour))
	if s.CurrentStreak != 1 || s.LongestStreak != 4 {
		t.Errorf("streak = %d longest = %d, expected 1/4", s.CurrentStreak, s.LongestStreak)
	}
}

func TestClaimDailyBonus_OncePerPeriod(t *testing.T) {
	e := newEngine()

	s, streak, reward, err := e.ClaimDailyBonus(State{}, Streak{}, day0)
	if err != nil {
		t.Fatalf("ClaimDailyBonus() error = %v", err)
	}
	if reward.XP != 25 || streak.CurrentStreak != 1 {
		t.Errorf("reward = %+v streak = %d, expected 25 XP on day 1", reward, streak.CurrentStreak)
	}

	_, _, _, err = e.ClaimDailyBonus(s, streak, day0.Add(2*time.Hour))
	if !errors.Is(err, gameerr.ErrNoRewardAvailable) {
		t.Errorf("second ClaimDailyBonus() error = %v, expected ErrNoRewardAvailable", err)
	}

	_, streak, reward, err = e.ClaimDailyBonus(s, streak, day0.Add(30*time.Hour))
	if err != nil {
		t.Fatalf("next-day ClaimDailyBonus() error = %v", err)
	}
	if streak.CurrentStreak != 2 || reward.XP != 28 {
		t.Errorf("streak = %d reward = %+v, expected 2 and 28 XP", streak.CurrentStreak, reward)
	}
}

func TestClaimStreakReward(t *testing.T) {
	s, reward, err := ClaimStreakReward(Streak{}, day0)
	if err != nil {
		t.Fatalf("ClaimStreakReward() error = %v", err)
	}
	if reward.XP != 10 || len(s.ClaimableRewards) != 0 {
		t.Errorf("reward = %+v, queued = %d", reward, len(s.ClaimableRewards))
	}

	if _, _, err := ClaimStreakReward(s, day0.Add(time.Hour)); !errors.Is(err, gameerr.ErrNoRewardAvailable) {
		t.Errorf("second ClaimStreakReward() error = %v", err)
	}
}

func TestExpire(t *testing.T) {
	s, _ := CheckIn(Streak{}, day0)
	if Expire(s, day0.Add(47*time.Hour)).CurrentStreak != 1 {
		t.Error("streak expired inside the grace window")
	}
	if Expire(s, day0.Add(49*time.Hour)).CurrentStreak != 0 {
		t.Error("streak survived past the grace window")
	}
}

func TestMultiplier(t *testing.T) {
	if Multiplier(1) != 1 || math.Abs(Multiplier(7)-1.6) > 1e-9 || Multiplier(30) != Multiplier(7) {
		t.Errorf("Multiplier = %v/%v/%v", Multiplier(1), Multiplier(7), Multiplier(30))
	}
}
