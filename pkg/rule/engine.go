package rule

import (
	"context"
	"sort"

	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
	"github.com/sirupsen/logrus"
)

// Engine evaluates signals against registered rules and returns triggers.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new rule evaluation engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
	}
}

// Evaluate returns the triggers for sig, highest priority first.
// Non-repeatable rules already recorded in the player's fired set are skipped.
func (e *Engine) Evaluate(ctx context.Context, sig signal.Signal) ([]*Trigger, error) {
	if sig == nil {
		return nil, nil
	}

	rules := e.registry.GetBySignalType(sig.Type())
	if len(rules) == 0 {
		logrus.Debugf("no rules found for signal type '%s'", sig.Type())
		return nil, nil
	}

	var fired map[string]bool
	if pc := sig.Context(); pc != nil {
		fired = pc.FiredRules
	}

	var triggers []*Trigger
	for _, rule := range rules {
		if fired[rule.ID()] && !rule.Config().Repeatable {
			continue
		}

		matched, trigger, err := rule.Evaluate(ctx, sig)
		if err != nil {
			// one bad rule does not block the rest
			logrus.Errorf("rule %s evaluation failed: %v", rule.ID(), err)
			continue
		}

		if matched && trigger != nil {
			logrus.Infof("rule %s triggered for user %s: %s", rule.ID(), sig.UserID(), trigger.Reason)
			triggers = append(triggers, trigger)
		}
	}

	sort.SliceStable(triggers, func(i, j int) bool {
		return triggers[i].Priority > triggers[j].Priority
	})

	return triggers, nil
}

// GetRegistry returns the rule registry used by this engine.
func (e *Engine) GetRegistry() *Registry {
	return e.registry
}
