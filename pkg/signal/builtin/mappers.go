package builtin

import (
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
)

// LevelUpMapper maps level-up activities. The activity Value is the new
// level and metadata "from" the previous one.
type LevelUpMapper struct{}

// Kind implements signal.SignalMapper.
func (LevelUpMapper) Kind() string { return signal.TypeLevelUp }

// MapToSignal implements signal.SignalMapper.
func (LevelUpMapper) MapToSignal(a signal.Activity, ctx *signal.PlayerContext) signal.Signal {
	from, _ := a.Metadata["from"].(int)
	return NewLevelUpSignal(a.UserID, a.Timestamp, from, int(a.Value), ctx)
}

// StreakMapper maps streak check-ins. Value is the current streak.
type StreakMapper struct{}

// Kind implements signal.SignalMapper.
func (StreakMapper) Kind() string { return signal.TypeStreakCheckIn }

// MapToSignal implements signal.SignalMapper.
func (StreakMapper) MapToSignal(a signal.Activity, ctx *signal.PlayerContext) signal.Signal {
	return NewStreakSignal(a.UserID, a.Timestamp, int(a.Value), ctx)
}

// LeagueMapper maps league recomputes. Value is the rank, metadata "volume" the player volume.
type LeagueMapper struct{}

// Kind implements signal.SignalMapper.
func (LeagueMapper) Kind() string { return signal.TypeLeagueRanked }

// MapToSignal implements signal.SignalMapper.
func (LeagueMapper) MapToSignal(a signal.Activity, ctx *signal.PlayerContext) signal.Signal {
	volume, _ := a.Metadata["volume"].(float64)
	return NewLeagueSignal(a.UserID, a.Timestamp, int(a.Value), volume, ctx)
}

// RegisterMappers registers the builtin mappers on registry.
func RegisterMappers(registry *signal.MapperRegistry) {
	registry.Register(LevelUpMapper{})
	registry.Register(StreakMapper{})
	registry.Register(LeagueMapper{})
}
