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
	// LevelReachedRuleID is the identifier for level milestone rules
	LevelReachedRuleID = "level_reached"

	// DefaultMilestoneLevel is used when no level parameter is set
	DefaultMilestoneLevel = 5
)

// LevelReachedRule fires when a level-up lands at or beyond a level.
type LevelReachedRule struct {
	config rule.RuleConfig
	level  int
}

// NewLevelReachedRule creates a level milestone rule.
func NewLevelReachedRule(config rule.RuleConfig) *LevelReachedRule {
	level := config.GetInt("level", DefaultMilestoneLevel)

	logrus.Infof("creating level reached rule %s: level=%d", config.ID, level)

	return &LevelReachedRule{config: config, level: level}
}

// ID returns the rule identifier.
func (r *LevelReachedRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *LevelReachedRule) Name() string {
	return "Level Reached"
}

// SignalTypes returns the signal types this rule handles.
func (r *LevelReachedRule) SignalTypes() []string {
	return []string{signal.TypeLevelUp}
}

// Config returns the rule configuration.
func (r *LevelReachedRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks the new level against the milestone.
func (r *LevelReachedRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	lvl, ok := sig.(*signalBuiltin.LevelUpSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected LevelUpSignal, got %T", sig)
	}

	if lvl.To < r.level {
		return false, nil, nil
	}

	trigger := rule.NewTrigger(r.ID(), sig, fmt.Sprintf("reached level %d", lvl.To), r.config.Priority).
		WithMetadata("level", lvl.To).
		WithMetadata("value", float64(lvl.To))
	return true, trigger, nil
}
