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
	// PublishStatActionID is the identifier for the statistic publish action
	PublishStatActionID = "publish_stat"
)

// PublishStatAction increments a platform statistic.
//
// Parameters:
//   - stat_code: statistic to increment
//   - inc: fixed increment (default 1)
//   - use_value: increment by the trigger's "value" metadata instead
type PublishStatAction struct {
	config    action.ActionConfig
	publisher service.StatisticPublisher
	statCode  string
	inc       float64
	useValue  bool
}

// NewPublishStatAction creates a statistic publish action.
func NewPublishStatAction(config action.ActionConfig, publisher service.StatisticPublisher) (*PublishStatAction, error) {
	statCode := config.GetParameterString("stat_code", "")
	if statCode == "" {
		return nil, fmt.Errorf("action %s: stat_code parameter not configured: %w", config.ID, action.ErrInvalidConfig)
	}
	return &PublishStatAction{
		config:    config,
		publisher: publisher,
		statCode:  statCode,
		inc:       config.GetParameterFloat("inc", 1),
		useValue:  config.GetParameterBool("use_value", false),
	}, nil
}

// ID returns the action identifier.
func (a *PublishStatAction) ID() string {
	return a.config.ID
}

// Name returns the action name.
func (a *PublishStatAction) Name() string {
	return "Publish Stat"
}

// Config returns the action configuration.
func (a *PublishStatAction) Config() action.ActionConfig {
	return a.config
}

// Execute increments the statistic.
func (a *PublishStatAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	inc := a.inc
	if a.useValue {
		v, ok := trigger.MetadataFloat("value")
		if !ok {
			return fmt.Errorf("trigger %s carries no value for %s", trigger.RuleID, a.statCode)
		}
		inc = v
	}

	if a.publisher == nil {
		logrus.Warnf("platform not configured, would add %g to %s for player %s", inc, a.statCode, trigger.UserID)
		return nil
	}

	userID := platformUser(playerCtx)
	if userID == "" {
		logrus.Debugf("player %s is a guest, %s not published", trigger.UserID, a.statCode)
		return nil
	}
	return a.publisher.IncrementStat(ctx, userID, a.statCode, inc)
}

// Rollback is not supported; published stats are external.
func (a *PublishStatAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	return action.ErrRollbackNotSupported
}
