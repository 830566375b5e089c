package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/action"
	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// AwardBadgeActionID is the identifier for the badge award action
	AwardBadgeActionID = "award_badge"
)

// AwardBadgeAction awards a catalog badge.
type AwardBadgeAction struct {
	config  action.ActionConfig
	badgeID string
}

// NewAwardBadgeAction creates a badge award action. Parameter: badge.
func NewAwardBadgeAction(config action.ActionConfig, catalog BadgeCatalog) (*AwardBadgeAction, error) {
	badgeID := config.GetParameterString("badge", "")
	if badgeID == "" {
		return nil, fmt.Errorf("action %s: badge parameter not configured: %w", config.ID, action.ErrInvalidConfig)
	}
	if catalog != nil {
		if _, ok := catalog.Badge(badgeID); !ok {
			return nil, fmt.Errorf("action %s: unknown badge %q: %w", config.ID, badgeID, action.ErrInvalidConfig)
		}
	}
	return &AwardBadgeAction{config: config, badgeID: badgeID}, nil
}

// ID returns the action identifier.
func (a *AwardBadgeAction) ID() string {
	return a.config.ID
}

// Name returns the action name.
func (a *AwardBadgeAction) Name() string {
	return "Award Badge"
}

// Config returns the action configuration.
func (a *AwardBadgeAction) Config() action.ActionConfig {
	return a.config
}

// Execute records the badge unless the player already holds it.
func (a *AwardBadgeAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if playerCtx == nil {
		return action.ErrMissingPlayerContext
	}
	if playerCtx.Player.HasBadge(a.badgeID) {
		logrus.Debugf("user %s already holds badge %s", trigger.UserID, a.badgeID)
		return nil
	}
	playerCtx.Effects.AwardBadge(a.badgeID)
	return nil
}

// Rollback drops the recorded badge.
func (a *AwardBadgeAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if playerCtx == nil {
		return action.ErrMissingPlayerContext
	}
	playerCtx.Effects.RevokeBadge(a.badgeID)
	return nil
}
