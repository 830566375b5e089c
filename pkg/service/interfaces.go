package service

import (
	"context"
)

// Interfaces for the external platform services unlock actions call.
// Actions treat a nil implementation as "not configured".

// EntitlementGranter grants catalog items to a player.
type EntitlementGranter interface {
	GrantEntitlement(ctx context.Context, userID, itemID string, quantity int) error
}

// StatisticPublisher increments a player statistic.
type StatisticPublisher interface {
	IncrementStat(ctx context.Context, userID, statCode string, inc float64) error
}
