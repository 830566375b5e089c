package rule

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// RuleFactory is a function that creates a rule from a configuration.
type RuleFactory func(config RuleConfig) (Rule, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]RuleFactory)
)

// RegisterRuleType registers a factory function for a rule type.
// This allows external packages to register their rule types without creating import cycles.
func RegisterRuleType(ruleType string, factory RuleFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[ruleType] = factory
	logrus.Debugf("registered rule type: %s", ruleType)
}

// IsRegisteredType reports whether a factory exists for ruleType.
func IsRegisteredType(ruleType string) bool {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	_, ok := factories[ruleType]
	return ok
}

// CreateRule creates a rule instance from config. Disabled rules yield nil, nil.
func CreateRule(config RuleConfig) (Rule, error) {
	if !config.Enabled {
		logrus.Infof("skipping disabled rule: %s", config.ID)
		return nil, nil
	}

	factoriesMu.RLock()
	factory, exists := factories[config.Type]
	factoriesMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unknown rule type: %s", config.Type)
	}

	logrus.Debugf("creating rule: id=%s, type=%s, priority=%d", config.ID, config.Type, config.Priority)
	return factory(config)
}

// RegisterRules creates every rule in configs and registers it.
// Any creation error aborts registration.
func RegisterRules(registry *Registry, configs []RuleConfig) error {
	for _, config := range configs {
		rule, err := CreateRule(config)
		if err != nil {
			return fmt.Errorf("failed to create rule %s: %w", config.ID, err)
		}
		if rule == nil {
			continue
		}
		if err := registry.Register(rule); err != nil {
			return fmt.Errorf("failed to register rule %s: %w", rule.ID(), err)
		}
	}

	logrus.Infof("registered %d rules", registry.Count())
	return nil
}
