package builtin

import (
	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
)

// RegisterRules registers all built-in rule types with the factory.
func RegisterRules() {
	rule.RegisterRuleType(StatThresholdRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		r, err := NewStatThresholdRule(config)
		if err != nil {
			return nil, err
		}
		return r, nil
	})

	rule.RegisterRuleType(LevelReachedRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewLevelReachedRule(config), nil
	})

	rule.RegisterRuleType(StreakReachedRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewStreakReachedRule(config), nil
	})

	rule.RegisterRuleType(LeagueRankRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewLeagueRankRule(config), nil
	})
}
