// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package challenge

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
)

const (
	// CheckInPeriod is the minimum gap between two streak check-ins.
	CheckInPeriod = 24 * time.Hour
	// GraceWindow is the maximum gap that still continues a streak.
	GraceWindow = 48 * time.Hour
	// maxStreakRewardDay caps the growth of the per-day streak reward.
	maxStreakRewardDay = 7
)

// Streak is the login streak.
type Streak struct {
	CurrentStreak    int       `json:"currentStreak"`
	LongestStreak    int       `json:"longestStreak"`
	LastClaimDate    time.Time `json:"lastClaimDate"`
	ClaimableRewards []Reward  `json:"claimableRewards"`
}

func (s Streak) clone() Streak {
	s.ClaimableRewards = append([]Reward(nil), s.ClaimableRewards...)
	return s
}

// StreakReward is the reward queued for day n of a streak.
func StreakReward(day int) Reward {
	d := min(day, maxStreakRewardDay)
	return Reward{
		Day:    day,
		XP:     int64(10 * d),
		Tokens: float64(5 * d),
		Reason: fmt.Sprintf("streak day %d", day),
	}
}

// Multiplier scales the daily bonus by streak length, from 1.0 up to 1.6.
func Multiplier(streak int) float64 {
	if streak < 1 {
		return 1
	}
	return 1 + 0.1*float64(min(streak-1, 6))
}

// CheckIn records a streak claim at now. It reports false when the player
// already checked in during the current period.
func CheckIn(s Streak, now time.Time) (Streak, bool) {
	if !s.LastClaimDate.IsZero() {
		gap := now.Sub(s.LastClaimDate)
		if gap < CheckInPeriod {
			return s, false
		}
	}

	next := s.clone()
	if s.LastClaimDate.IsZero() || now.Sub(s.LastClaimDate) > GraceWindow {
		if s.CurrentStreak > 0 {
			logrus.Debugf("streak broken after %v, resetting", now.Sub(s.LastClaimDate))
		}
		next.CurrentStreak = 1
	} else {
		next.CurrentStreak++
	}
	next.LongestStreak = max(next.LongestStreak, next.CurrentStreak)
	next.LastClaimDate = now
	next.ClaimableRewards = append(next.ClaimableRewards, StreakReward(next.CurrentStreak))
	return next, true
}

// Expire zeroes a streak whose grace window has elapsed.
func Expire(s Streak, now time.Time) Streak {
	if s.CurrentStreak > 0 && !s.LastClaimDate.IsZero() && now.Sub(s.LastClaimDate) > GraceWindow {
		next := s.clone()
		next.CurrentStreak = 0
		return next
	}
	return s
}

// ClaimStreakReward checks in and pays out every queued streak reward.
func ClaimStreakReward(s Streak, now time.Time) (Streak, Reward, error) {
	next, _ := CheckIn(s, now)
	if len(next.ClaimableRewards) == 0 {
		return s, Reward{}, fmt.Errorf("streak reward already claimed: %w", gameerr.ErrNoRewardAvailable)
	}

	total := Reward{Day: next.CurrentStreak, Reason: "streak reward"}
	for _, r := range next.ClaimableRewards {
		total = total.Add(r)
	}
	next.ClaimableRewards = nil
	return next, total, nil
}

// ClaimDailyBonus pays the daily bonus once per period and checks in the streak.
func (e *Engine) ClaimDailyBonus(s State, streak Streak, now time.Time) (State, Streak, Reward, error) {
	if !s.DailyBonusClaimedAt.IsZero() && now.Sub(s.DailyBonusClaimedAt) < CheckInPeriod {
		return s, streak, Reward{}, fmt.Errorf("daily bonus claimed at %s: %w",
			s.DailyBonusClaimedAt.Format(time.RFC3339), gameerr.ErrNoRewardAvailable)
	}

	nextStreak, _ := CheckIn(streak, now)
	next := s.clone()
	next.DailyBonusClaimedAt = now

	xp := int64(math.Round(float64(e.dailyBonusBase) * Multiplier(nextStreak.CurrentStreak)))
	return next, nextStreak, Reward{Day: nextStreak.CurrentStreak, XP: xp, Reason: "daily bonus"}, nil
}
