package signal

import (
	"time"

	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
)

// Signal represents a normalized game event with player context.
// Signals are produced by the Processor from store activities and
// are consumed by the Rule Engine for evaluation.
type Signal interface {
	// Type returns the signal type identifier (e.g., "swap_executed", "level_up").
	Type() string

	// UserID returns the player identifier.
	UserID() string

	// Timestamp returns when the signal occurred.
	Timestamp() time.Time

	// Metadata returns additional signal-specific data.
	// This allows rules to access signal-specific information without type assertions.
	Metadata() map[string]interface{}

	// Context returns the player view the signal was raised against.
	Context() *PlayerContext
}

// PlayerContext wraps a read-only copy of the player with the effects
// actions want applied. The store owns the player; actions only record.
type PlayerContext struct {
	UserID         string
	// PlatformUserID is the authenticated platform account, empty for guests.
	PlatformUserID string
	Player         progression.Player
	CurrentStreak  int
	LeagueRank     int
	FiredRules     map[string]bool
	Effects        *Effects
}

// NewPlayerContext creates a context with an empty effect set.
func NewPlayerContext(player progression.Player, currentStreak, leagueRank int, firedRules map[string]bool) *PlayerContext {
	if firedRules == nil {
		firedRules = make(map[string]bool)
	}
	return &PlayerContext{
		UserID:        player.ID,
		Player:        player,
		CurrentStreak: currentStreak,
		LeagueRank:    leagueRank,
		FiredRules:    firedRules,
		Effects:       &Effects{},
	}
}

// XPGrant is one recorded XP award.
type XPGrant struct {
	Amount int64
	Source string
}

// Effects collects the mutations requested by actions for one signal.
type Effects struct {
	Badges   []string
	XP       []XPGrant
	NFTClaim bool
}

// AwardBadge records a badge award. Duplicates are ignored.
func (e *Effects) AwardBadge(id string) {
	for _, b := range e.Badges {
		if b == id {
			return
		}
	}
	e.Badges = append(e.Badges, id)
}

// RevokeBadge drops a recorded badge award.
func (e *Effects) RevokeBadge(id string) {
	for i, b := range e.Badges {
		if b == id {
			e.Badges = append(e.Badges[:i], e.Badges[i+1:]...)
			return
		}
	}
}

// GrantXP records an XP award.
func (e *Effects) GrantXP(amount int64, source string) {
	e.XP = append(e.XP, XPGrant{Amount: amount, Source: source})
}

// RevokeXP drops the most recent XP award from source.
func (e *Effects) RevokeXP(source string) {
	for i := len(e.XP) - 1; i >= 0; i-- {
		if e.XP[i].Source == source {
			e.XP = append(e.XP[:i], e.XP[i+1:]...)
			return
		}
	}
}

// Empty reports whether nothing was recorded.
func (e *Effects) Empty() bool {
	return len(e.Badges) == 0 && len(e.XP) == 0 && !e.NFTClaim
}
