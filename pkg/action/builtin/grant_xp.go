package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/action"
	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
)

const (
	// GrantXPActionID is the identifier for the XP bonus action
	GrantXPActionID = "grant_xp"
)

// GrantXPAction grants a fixed XP bonus.
type GrantXPAction struct {
	config action.ActionConfig
	amount int64
}

// NewGrantXPAction creates an XP bonus action. Parameter: amount (> 0).
func NewGrantXPAction(config action.ActionConfig) (*GrantXPAction, error) {
	amount := config.GetParameterInt("amount", 0)
	if amount <= 0 {
		return nil, fmt.Errorf("action %s: amount must be positive: %w", config.ID, action.ErrInvalidConfig)
	}
	return &GrantXPAction{config: config, amount: int64(amount)}, nil
}

// ID returns the action identifier.
func (a *GrantXPAction) ID() string {
	return a.config.ID
}

// Name returns the action name.
func (a *GrantXPAction) Name() string {
	return "Grant XP"
}

// Config returns the action configuration.
func (a *GrantXPAction) Config() action.ActionConfig {
	return a.config
}

// Execute records the XP grant, sourced by the triggering rule.
func (a *GrantXPAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if playerCtx == nil {
		return action.ErrMissingPlayerContext
	}
	playerCtx.Effects.GrantXP(a.amount, trigger.RuleID)
	return nil
}

// Rollback drops the recorded grant.
func (a *GrantXPAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if playerCtx == nil {
		return action.ErrMissingPlayerContext
	}
	playerCtx.Effects.RevokeXP(trigger.RuleID)
	return nil
}
