package builtin

import (
	"time"

	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
)

// LevelUpSignal is raised when a player crosses one or more level thresholds.
type LevelUpSignal struct {
	*signal.BaseSignal
	From int
	To   int
}

// NewLevelUpSignal creates a level-up signal.
func NewLevelUpSignal(userID string, timestamp time.Time, from, to int, ctx *signal.PlayerContext) *LevelUpSignal {
	metadata := map[string]interface{}{
		"from": from,
		"to":   to,
	}
	return &LevelUpSignal{
		BaseSignal: signal.NewBaseSignal(signal.TypeLevelUp, userID, timestamp, metadata, ctx),
		From:       from,
		To:         to,
	}
}

// StreakSignal is raised after a streak check-in.
type StreakSignal struct {
	*signal.BaseSignal
	CurrentStreak int
}

// NewStreakSignal creates a streak check-in signal.
func NewStreakSignal(userID string, timestamp time.Time, current int, ctx *signal.PlayerContext) *StreakSignal {
	metadata := map[string]interface{}{
		"current_streak": current,
	}
	return &StreakSignal{
		BaseSignal:    signal.NewBaseSignal(signal.TypeStreakCheckIn, userID, timestamp, metadata, ctx),
		CurrentStreak: current,
	}
}

// LeagueSignal is raised when the league is recomputed.
type LeagueSignal struct {
	*signal.BaseSignal
	Rank   int
	Volume float64
}

// NewLeagueSignal creates a league ranking signal.
func NewLeagueSignal(userID string, timestamp time.Time, rank int, volume float64, ctx *signal.PlayerContext) *LeagueSignal {
	metadata := map[string]interface{}{
		"rank":   rank,
		"volume": volume,
	}
	return &LeagueSignal{
		BaseSignal: signal.NewBaseSignal(signal.TypeLeagueRanked, userID, timestamp, metadata, ctx),
		Rank:       rank,
		Volume:     volume,
	}
}
