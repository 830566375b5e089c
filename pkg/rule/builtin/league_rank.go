package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
	signalBuiltin "github.com/AccelByte/extend-mercado-lp/pkg/signal/builtin"
	"github.com/sirupsen/logrus"
)

const (
	// LeagueRankRuleID is the identifier for leaderboard placement rules
	LeagueRankRuleID = "league_rank"
)

// LeagueRankRule fires when the player ranks at or above a position with
// some trading volume. Rank 1 is the top.
type LeagueRankRule struct {
	config    rule.RuleConfig
	rank      int
	minVolume float64
}

// NewLeagueRankRule creates a league placement rule.
func NewLeagueRankRule(config rule.RuleConfig) *LeagueRankRule {
	r := &LeagueRankRule{
		config:    config,
		rank:      config.GetInt("rank", 3),
		minVolume: config.GetFloat("min_volume", 0),
	}
	logrus.Infof("creating league rank rule %s: rank<=%d volume>%g", config.ID, r.rank, r.minVolume)
	return r
}

// ID returns the rule identifier.
func (r *LeagueRankRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *LeagueRankRule) Name() string {
	return "League Rank"
}

// SignalTypes returns the signal types this rule handles.
func (r *LeagueRankRule) SignalTypes() []string {
	return []string{signal.TypeLeagueRanked}
}

// Config returns the rule configuration.
func (r *LeagueRankRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks the player's placement.
func (r *LeagueRankRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	league, ok := sig.(*signalBuiltin.LeagueSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected LeagueSignal, got %T", sig)
	}

	// an idle player can sit on a tie at the bottom of an empty board
	if league.Rank < 1 || league.Rank > r.rank || league.Volume <= r.minVolume {
		return false, nil, nil
	}

	trigger := rule.NewTrigger(r.ID(), sig, fmt.Sprintf("league rank %d", league.Rank), r.config.Priority).
		WithMetadata("rank", league.Rank).
		WithMetadata("value", league.Volume)
	return true, trigger, nil
}
