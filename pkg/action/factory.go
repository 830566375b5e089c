package action

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ActionFactory is a function that creates an action from a configuration.
type ActionFactory func(config ActionConfig) (Action, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]ActionFactory)
)

// RegisterActionType registers a factory function for an action type.
// This allows external packages to register their action types without creating import cycles.
func RegisterActionType(actionType string, factory ActionFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[actionType] = factory
	logrus.Debugf("registered action type: %s", actionType)
}

// IsRegisteredType reports whether a factory exists for actionType.
func IsRegisteredType(actionType string) bool {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	_, ok := factories[actionType]
	return ok
}

// CreateAction creates an action instance from config. Disabled actions yield nil, nil.
func CreateAction(config ActionConfig) (Action, error) {
	if !config.Enabled {
		logrus.Infof("skipping disabled action: %s", config.ID)
		return nil, nil
	}

	factoriesMu.RLock()
	factory, exists := factories[config.Type]
	factoriesMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unknown action type: %s", config.Type)
	}

	logrus.Debugf("creating action: id=%s, type=%s", config.ID, config.Type)
	return factory(config)
}

// RegisterActions creates every action in configs and registers it.
func RegisterActions(registry *Registry, configs []ActionConfig) error {
	for _, config := range configs {
		action, err := CreateAction(config)
		if err != nil {
			return fmt.Errorf("failed to create action %s: %w", config.ID, err)
		}
		if action == nil {
			continue
		}
		if err := registry.Register(action); err != nil {
			return fmt.Errorf("failed to register action %s: %w", action.ID(), err)
		}
	}

	logrus.Infof("registered %d actions", registry.Count())
	return nil
}
