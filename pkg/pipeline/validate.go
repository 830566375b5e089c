package pipeline

import (
	"fmt"
	"strings"

	"github.com/AccelByte/extend-mercado-lp/pkg/action"
	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
)

// ValidateWiring validates that the pipeline is correctly wired.
// It checks that:
// - All enabled rules in config have registered instances
// - All enabled actions in config have registered instances
// - Enabled rules only reference enabled actions
//
// This catches common mistakes like:
// - Forgetting to register a rule type factory
// - Typos in rule/action IDs or types
// - Turning an action off while a live rule still depends on it
func ValidateWiring(ruleRegistry *rule.Registry, actionRegistry *action.Registry, config *Config) error {
	var errors []string

	enabledActions := make(map[string]bool, len(config.Actions))
	for _, ac := range config.Actions {
		if !ac.Enabled {
			continue
		}
		enabledActions[ac.ID] = true

		if actionRegistry.Get(ac.ID) == nil {
			errors = append(errors, fmt.Sprintf("action '%s' (type=%s) is enabled in config but not registered", ac.ID, ac.Type))
		}
	}

	for _, rc := range config.Rules {
		if !rc.Enabled {
			continue
		}

		if ruleRegistry.Get(rc.ID) == nil {
			errors = append(errors, fmt.Sprintf("rule '%s' (type=%s) is enabled in config but not registered", rc.ID, rc.Type))
		}
		for _, actionID := range rc.Actions {
			if !enabledActions[actionID] {
				errors = append(errors, fmt.Sprintf("rule '%s' uses disabled action '%s'", rc.ID, actionID))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("pipeline wiring validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
