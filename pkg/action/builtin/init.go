package builtin

import (
	"github.com/AccelByte/extend-mercado-lp/pkg/action"
	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/service"
)

// BadgeCatalog validates badge ids at config time.
type BadgeCatalog interface {
	Badge(id string) (progression.Badge, bool)
}

// Dependencies holds dependencies needed by built-in actions.
// Nil services turn their actions into logged no-ops.
type Dependencies struct {
	Badges             BadgeCatalog
	EntitlementGranter service.EntitlementGranter
	StatPublisher      service.StatisticPublisher
}

// RegisterActions registers built-in action factories with dependencies.
func RegisterActions(deps *Dependencies) {
	if deps == nil {
		deps = &Dependencies{}
	}

	action.RegisterActionType(AwardBadgeActionID, func(config action.ActionConfig) (action.Action, error) {
		a, err := NewAwardBadgeAction(config, deps.Badges)
		if err != nil {
			return nil, err
		}
		return a, nil
	})

	action.RegisterActionType(GrantXPActionID, func(config action.ActionConfig) (action.Action, error) {
		a, err := NewGrantXPAction(config)
		if err != nil {
			return nil, err
		}
		return a, nil
	})

	action.RegisterActionType(FlagNFTClaimActionID, func(config action.ActionConfig) (action.Action, error) {
		return NewFlagNFTClaimAction(config), nil
	})

	action.RegisterActionType(GrantItemActionID, func(config action.ActionConfig) (action.Action, error) {
		a, err := NewGrantItemAction(config, deps.EntitlementGranter)
		if err != nil {
			return nil, err
		}
		return a, nil
	})

	action.RegisterActionType(PublishStatActionID, func(config action.ActionConfig) (action.Action, error) {
		a, err := NewPublishStatAction(config, deps.StatPublisher)
		if err != nil {
			return nil, err
		}
		return a, nil
	})
}
