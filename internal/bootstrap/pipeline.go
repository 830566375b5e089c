// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"
	"log/slog"

	actionBuiltin "github.com/AccelByte/extend-mercado-lp/pkg/action/builtin"
	"github.com/AccelByte/extend-mercado-lp/pkg/pipeline"
	"github.com/sirupsen/logrus"
)

// InitPipeline builds and validates the unlock pipeline manager.
//
// ============================================================
// DEVELOPER: Configure rule-to-action mappings
// ============================================================
// The pipeline orchestrates the flow:
// Store activity → Signal → Rules → Actions
//
// Mappings live in the pipeline YAML:
//
// rules:
//   - id: my-rule
//     type: stat_threshold
//     actions: [action1, action2]  # ← Actions to execute
//
// When a rule triggers, its actions run in order. If one fails,
// the ones before it are rolled back and the rule stays unfired.
// ============================================================
func InitPipeline(pipelineConfig *pipeline.Config, deps *actionBuiltin.Dependencies, logger *slog.Logger) (*pipeline.Manager, error) {
	processor := InitSignalProcessor()

	engine, ruleRegistry, err := InitRuleEngine(pipelineConfig)
	if err != nil {
		return nil, err
	}

	executor, actionRegistry, err := InitActionExecutor(pipelineConfig, deps)
	if err != nil {
		return nil, err
	}

	if err := pipeline.ValidateWiring(ruleRegistry, actionRegistry, pipelineConfig); err != nil {
		return nil, fmt.Errorf("invalid unlock pipeline: %w", err)
	}

	p := pipeline.FromConfig("unlocks", pipelineConfig)
	logrus.Infof("configured %d rule-to-action mappings", len(p.Actions))

	return pipeline.NewManager(processor, engine, executor, p, logger), nil
}
