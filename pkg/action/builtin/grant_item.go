package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/action"
	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
	"github.com/AccelByte/extend-mercado-lp/pkg/service"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// GrantItemActionID is the identifier for item grant action
	GrantItemActionID = "grant_item"
)

// GrantItemAction grants a platform catalog item to the player.
// Without a granter the action only logs what it would grant.
type GrantItemAction struct {
	config   action.ActionConfig
	granter  service.EntitlementGranter
	itemID   string
	quantity int
}

// NewGrantItemAction creates a new grant item action.
func NewGrantItemAction(config action.ActionConfig, granter service.EntitlementGranter) (*GrantItemAction, error) {
	itemID := config.GetParameterString("item_id", "")
	if itemID == "" {
		return nil, fmt.Errorf("action %s: item_id parameter not configured: %w", config.ID, action.ErrInvalidConfig)
	}
	quantity := config.GetParameterInt("quantity", 1)

	logrus.Infof("creating grant item action: itemID=%s, quantity=%d", itemID, quantity)

	return &GrantItemAction{
		config:   config,
		granter:  granter,
		itemID:   itemID,
		quantity: quantity,
	}, nil
}

// ID returns the action identifier.
func (a *GrantItemAction) ID() string {
	return a.config.ID
}

// Name returns the action name.
func (a *GrantItemAction) Name() string {
	return "Grant Item"
}

// Config returns the action configuration.
func (a *GrantItemAction) Config() action.ActionConfig {
	return a.config
}

// Execute grants the configured item to the player's platform account.
// Guests have no account and are skipped.
func (a *GrantItemAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if a.granter == nil {
		logrus.Warnf("platform not configured, would grant item %s (quantity: %d) to player %s",
			a.itemID, a.quantity, trigger.UserID)
		return nil
	}

	userID := platformUser(playerCtx)
	if userID == "" {
		logrus.Debugf("player %s is a guest, item %s not granted", trigger.UserID, a.itemID)
		return nil
	}
	if err := a.granter.GrantEntitlement(ctx, userID, a.itemID, a.quantity); err != nil {
		return fmt.Errorf("failed to grant item: %w", err)
	}

	logrus.Infof("granted item %s to user %s", a.itemID, userID)
	return nil
}

func platformUser(playerCtx *signal.PlayerContext) string {
	if playerCtx == nil {
		return ""
	}
	return playerCtx.PlatformUserID
}

// Rollback is not supported for item grants (items cannot be taken back).
func (a *GrantItemAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	return action.ErrRollbackNotSupported
}
