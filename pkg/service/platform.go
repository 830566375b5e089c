// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AccelByte/accelbyte-go-sdk/platform-sdk/pkg/platformclient/fulfillment"
	"github.com/AccelByte/accelbyte-go-sdk/platform-sdk/pkg/platformclientmodels"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/platform"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/social"
	"github.com/AccelByte/accelbyte-go-sdk/social-sdk/pkg/socialclient/user_statistic"
	"github.com/AccelByte/accelbyte-go-sdk/social-sdk/pkg/socialclientmodels"
	"github.com/sirupsen/logrus"
)

// ErrGuestPlayer is returned for rewards addressed to a player with no platform account.
var ErrGuestPlayer = errors.New("player has no platform user")

// EntitlementService fulfills unlock rewards through the platform store.
type EntitlementService struct {
	fulfillment *platform.FulfillmentService
	cfg         EntitlementServiceConfig
}

type EntitlementServiceConfig struct {
	Namespace string
}

func NewEntitlementService(fulfillment *platform.FulfillmentService, cfg EntitlementServiceConfig) *EntitlementService {
	return &EntitlementService{fulfillment: fulfillment, cfg: cfg}
}

// GrantEntitlement fulfills quantity of itemID to userID with source REWARD.
func (s *EntitlementService) GrantEntitlement(ctx context.Context, userID, itemID string, quantity int) error {
	if userID == "" {
		return ErrGuestPlayer
	}
	if itemID == "" || quantity <= 0 {
		return fmt.Errorf("invalid reward %q x%d", itemID, quantity)
	}

	qty := int32(quantity)
	resp, err := s.fulfillment.FulfillItemShort(&fulfillment.FulfillItemParams{
		Namespace: s.cfg.Namespace,
		UserID:    userID,
		Body: &platformclientmodels.FulfillmentRequest{
			ItemID:   itemID,
			Quantity: &qty,
			Source:   platformclientmodels.FulfillmentRequestSourceREWARD,
		},
	})
	if err != nil {
		return fmt.Errorf("fulfill %s for user %s: %w", itemID, userID, err)
	}
	if resp == nil {
		return fmt.Errorf("fulfill %s for user %s: empty response", itemID, userID)
	}

	logrus.WithFields(logrus.Fields{"user": userID, "item": itemID, "qty": quantity}).Debug("reward fulfilled")
	return nil
}

// StatisticService mirrors game milestones into platform statistics.
type StatisticService struct {
	stats *social.UserStatisticService
	cfg   StatisticServiceConfig
}

type StatisticServiceConfig struct {
	Namespace string
	// StatPrefix is prepended to every stat code, e.g. "mercado-".
	StatPrefix string
}

func NewStatisticService(stats *social.UserStatisticService, cfg StatisticServiceConfig) *StatisticService {
	return &StatisticService{stats: stats, cfg: cfg}
}

// IncrementStat adds inc to the player's statCode. Zero increments are skipped.
func (s *StatisticService) IncrementStat(ctx context.Context, userID, statCode string, inc float64) error {
	if userID == "" {
		return ErrGuestPlayer
	}
	if inc == 0 {
		return nil
	}

	code := s.cfg.StatPrefix + statCode
	_, err := s.stats.IncUserStatItemValueShort(&user_statistic.IncUserStatItemValueParams{
		Namespace: s.cfg.Namespace,
		UserID:    userID,
		StatCode:  code,
		Body:      &socialclientmodels.StatItemInc{Inc: inc},
	})
	if err != nil {
		return fmt.Errorf("increment %s for user %s: %w", code, userID, err)
	}
	return nil
}
