// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// HealthChecker pings the persistence backend
type HealthChecker struct {
	kv      KV
	backend string
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(kv KV, backend string) *HealthChecker {
	return &HealthChecker{kv: kv, backend: backend}
}

// Check performs a backend health check
func (h *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.kv.Ping(ctx); err != nil {
		logrus.Errorf("%s health check failed: %v", h.backend, err)
		return err
	}

	logrus.Debugf("%s health check passed", h.backend)
	return nil
}

// IsHealthy returns true if the backend is accessible
func (h *HealthChecker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx) == nil
}
