// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-mercado-lp/pkg/metrics"
)

func TestMetricsServer_Setup(t *testing.T) {
	m := NewMetricsServer(8080, "/metrics", newTestManager(t))
	require.NoError(t, m.Setup())

	metrics.SwapsTotal.WithLabelValues(metrics.SourcePlayer).Inc()

	families, err := m.registry.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["mercado_lp_swaps_total"])
	assert.True(t, names["mercado_lp_unlocks_activities_total"])
	assert.True(t, names["mercado_lp_unlocks_actions_failed_total"])
}
