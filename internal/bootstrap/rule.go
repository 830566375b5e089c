// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/pipeline"
	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
	ruleBuiltin "github.com/AccelByte/extend-mercado-lp/pkg/rule/builtin"
	"github.com/sirupsen/logrus"
)

// InitRuleEngine creates a rule engine with the rules from pipeline config.
//
// ============================================================
// DEVELOPER: Register custom rule types here.
// ============================================================
// Rules decide when a player unlocks something. The builtin
// types cover lifetime stat thresholds, level milestones,
// login streaks and league placement.
//
// Steps to add a new rule:
// 1. Create your rule in pkg/rule/builtin/
// 2. Register the rule type in pkg/rule/builtin/init.go
// 3. Add rule configuration to the pipeline YAML
// ============================================================
func InitRuleEngine(pipelineConfig *pipeline.Config) (*rule.Engine, *rule.Registry, error) {
	ruleBuiltin.RegisterRules()

	registry := rule.NewRegistry()
	if err := rule.RegisterRules(registry, convertRuleConfigs(pipelineConfig.Rules)); err != nil {
		return nil, nil, fmt.Errorf("failed to register rules: %w", err)
	}

	logrus.Infof("initialized rule engine with %d rules", registry.Count())
	return rule.NewEngine(registry), registry, nil
}

func convertRuleConfigs(configs []pipeline.RuleConfig) []rule.RuleConfig {
	result := make([]rule.RuleConfig, len(configs))
	for i, rc := range configs {
		result[i] = rule.RuleConfig{
			ID:         rc.ID,
			Name:       rc.Name,
			Type:       rc.Type,
			Enabled:    rc.Enabled,
			Priority:   rc.Priority,
			Repeatable: rc.Repeatable,
			Parameters: rc.Parameters,
		}
	}
	return result
}
