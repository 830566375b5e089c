package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// StatThresholdRuleID is the identifier for lifetime stat threshold rules
	StatThresholdRuleID = "stat_threshold"
)

// statSource names a lifetime counter and the signal that moves it.
type statSource struct {
	signalType string
	read       func(progression.Stats) float64
}

var statSources = map[string]statSource{
	"swaps":           {signal.TypeSwapExecuted, func(s progression.Stats) float64 { return float64(s.Swaps) }},
	"swap_volume":     {signal.TypeSwapExecuted, func(s progression.Stats) float64 { return s.SwapVolume }},
	"liquidity_adds":  {signal.TypeLiquidityAdded, func(s progression.Stats) float64 { return float64(s.LiquidityAdds) }},
	"tokens_launched": {signal.TypeTokenLaunched, func(s progression.Stats) float64 { return float64(s.TokensLaunched) }},
	"bids_placed":     {signal.TypeBidPlaced, func(s progression.Stats) float64 { return float64(s.BidsPlaced) }},
	"auctions_won":    {signal.TypeAuctionWon, func(s progression.Stats) float64 { return float64(s.AuctionsWon) }},
	"fees_collected":  {signal.TypeFeesCollected, func(s progression.Stats) float64 { return s.FeesCollected }},
	"challenges_done": {signal.TypeChallengeClaimed, func(s progression.Stats) float64 { return float64(s.ChallengesDone) }},
}

// StatThresholdRule fires when a lifetime stat reaches a threshold.
//
// Parameters:
//   - stat: one of swaps, swap_volume, liquidity_adds, tokens_launched,
//     bids_placed, auctions_won, fees_collected, challenges_done
//   - threshold: minimum value (default 1)
type StatThresholdRule struct {
	config    rule.RuleConfig
	stat      string
	source    statSource
	threshold float64
}

// NewStatThresholdRule creates a stat threshold rule.
func NewStatThresholdRule(config rule.RuleConfig) (*StatThresholdRule, error) {
	stat := config.GetString("stat", "")
	source, ok := statSources[stat]
	if !ok {
		return nil, fmt.Errorf("rule %s: unknown stat %q", config.ID, stat)
	}
	threshold := config.GetFloat("threshold", 1)

	logrus.Infof("creating stat threshold rule %s: %s >= %g", config.ID, stat, threshold)

	return &StatThresholdRule{
		config:    config,
		stat:      stat,
		source:    source,
		threshold: threshold,
	}, nil
}

// ID returns the rule identifier.
func (r *StatThresholdRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *StatThresholdRule) Name() string {
	return "Stat Threshold"
}

// SignalTypes returns the signal that moves the stat.
func (r *StatThresholdRule) SignalTypes() []string {
	return []string{r.source.signalType}
}

// Config returns the rule configuration.
func (r *StatThresholdRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate compares the player's stat against the threshold.
func (r *StatThresholdRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	pc := sig.Context()
	if pc == nil {
		return false, nil, fmt.Errorf("signal %s has no player context", sig.Type())
	}

	value := r.source.read(pc.Player.Stats)
	if value < r.threshold {
		return false, nil, nil
	}

	trigger := rule.NewTrigger(r.ID(), sig, fmt.Sprintf("%s reached %g", r.stat, r.threshold), r.config.Priority).
		WithMetadata("stat", r.stat).
		WithMetadata("value", value).
		WithMetadata("threshold", r.threshold)
	return true, trigger, nil
}
