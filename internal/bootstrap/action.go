// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/action"
	actionBuiltin "github.com/AccelByte/extend-mercado-lp/pkg/action/builtin"
	"github.com/AccelByte/extend-mercado-lp/pkg/pipeline"
	"github.com/sirupsen/logrus"
)

// InitActionExecutor creates an action executor with actions from pipeline config.
//
// ============================================================
// DEVELOPER: Register custom action types here.
// ============================================================
// The builtin actions:
// - award_badge    → records a badge for the store to apply
// - grant_xp       → records an XP bonus
// - flag_nft_claim → raises the NFT claim prompt
// - grant_item     → platform fulfillment (no-op without credentials)
// - publish_stat   → platform statistic (no-op without credentials)
//
// External services reach actions through the Dependencies struct.
// ============================================================
func InitActionExecutor(
	pipelineConfig *pipeline.Config,
	deps *actionBuiltin.Dependencies,
) (*action.Executor, *action.Registry, error) {
	actionBuiltin.RegisterActions(deps)

	registry := action.NewRegistry()
	if err := action.RegisterActions(registry, convertActionConfigs(pipelineConfig.Actions)); err != nil {
		return nil, nil, fmt.Errorf("failed to register actions: %w", err)
	}

	logrus.Infof("initialized action executor with %d actions", registry.Count())
	return action.NewExecutor(registry), registry, nil
}

func convertActionConfigs(configs []pipeline.ActionConfig) []action.ActionConfig {
	result := make([]action.ActionConfig, len(configs))
	for i, ac := range configs {
		result[i] = action.ActionConfig{
			ID:         ac.ID,
			Name:       ac.Name,
			Type:       ac.Type,
			Enabled:    ac.Enabled,
			Retry:      ac.Retry,
			Parameters: ac.Parameters,
		}
	}
	return result
}
