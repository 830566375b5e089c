package signal

import "time"

// Game signal types.
const (
	TypeSwapExecuted     = "swap_executed"
	TypeLiquidityAdded   = "liquidity_added"
	TypeLiquidityRemoved = "liquidity_removed"
	TypeTokenLaunched    = "token_launched"
	TypeBidPlaced        = "bid_placed"
	TypeAuctionWon       = "auction_won"
	TypeFeesCollected    = "fees_collected"
	TypeChallengeClaimed = "challenge_claimed"
	TypeLevelUp          = "level_up"
	TypeStreakCheckIn    = "streak_checked_in"
	TypeLeagueRanked     = "league_ranked"
)

// BaseSignal is the signal produced for activities without a dedicated mapper.
type BaseSignal struct {
	signalType string
	userID     string
	timestamp  time.Time
	metadata   map[string]interface{}
	context    *PlayerContext
}

// NewBaseSignal creates a new base signal.
func NewBaseSignal(signalType, userID string, timestamp time.Time, metadata map[string]interface{}, context *PlayerContext) *BaseSignal {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return &BaseSignal{
		signalType: signalType,
		userID:     userID,
		timestamp:  timestamp,
		metadata:   metadata,
		context:    context,
	}
}

// Type implements Signal interface.
func (s *BaseSignal) Type() string {
	return s.signalType
}

// UserID implements Signal interface.
func (s *BaseSignal) UserID() string {
	return s.userID
}

// Timestamp implements Signal interface.
func (s *BaseSignal) Timestamp() time.Time {
	return s.timestamp
}

// Metadata implements Signal interface.
func (s *BaseSignal) Metadata() map[string]interface{} {
	return s.metadata
}

// Context implements Signal interface.
func (s *BaseSignal) Context() *PlayerContext {
	return s.context
}
