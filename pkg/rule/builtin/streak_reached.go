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
	// StreakReachedRuleID is the identifier for login streak rules
	StreakReachedRuleID = "streak_reached"

	// DefaultStreakDays is the streak length that fires by default
	DefaultStreakDays = 7
)

// StreakReachedRule fires when a check-in brings the streak to a length.
type StreakReachedRule struct {
	config rule.RuleConfig
	days   int
}

// NewStreakReachedRule creates a streak rule.
func NewStreakReachedRule(config rule.RuleConfig) *StreakReachedRule {
	days := config.GetInt("days", DefaultStreakDays)

	logrus.Infof("creating streak reached rule %s: days=%d", config.ID, days)

	return &StreakReachedRule{config: config, days: days}
}

// ID returns the rule identifier.
func (r *StreakReachedRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *StreakReachedRule) Name() string {
	return "Streak Reached"
}

// SignalTypes returns the signal types this rule handles.
func (r *StreakReachedRule) SignalTypes() []string {
	return []string{signal.TypeStreakCheckIn}
}

// Config returns the rule configuration.
func (r *StreakReachedRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks the streak length.
func (r *StreakReachedRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	streakSig, ok := sig.(*signalBuiltin.StreakSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected StreakSignal, got %T", sig)
	}

	if streakSig.CurrentStreak < r.days {
		return false, nil, nil
	}

	trigger := rule.NewTrigger(r.ID(), sig, fmt.Sprintf("%d day streak", streakSig.CurrentStreak), r.config.Priority).
		WithMetadata("streak", streakSig.CurrentStreak).
		WithMetadata("value", float64(streakSig.CurrentStreak))
	return true, trigger, nil
}
