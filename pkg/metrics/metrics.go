// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package metrics defines the game's Prometheus collectors.
// They are registered by the metrics server and incremented by the game store.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "mercado_lp"

// Swap sources.
const (
	SourcePlayer = "player"
	SourceNPC    = "npc"
)

var (
	SwapsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swaps_total",
			Help:      "Total number of executed swaps",
		},
		[]string{"source"},
	)

	SwapVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swap_volume_total",
			Help:      "Swap volume in quote units",
		},
		[]string{"source"},
	)

	AuctionBlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auction_blocks_total",
			Help:      "Total number of cleared auction blocks",
		},
		[]string{"closed"},
	)

	XPGrantedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "xp_granted_total",
			Help:      "XP granted to players",
		},
		[]string{"source"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications queued for players",
		},
		[]string{"category"},
	)

	UnlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unlocks_total",
			Help:      "Unlock rules fired",
		},
		[]string{"rule_id"},
	)

	PersistenceFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Sessions switched to in-memory mode after a failed write",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Player sessions held by the hub",
		},
	)
)

// Collectors returns every game collector for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		SwapsTotal,
		SwapVolume,
		AuctionBlocksTotal,
		XPGrantedTotal,
		NotificationsTotal,
		UnlocksTotal,
		PersistenceFailuresTotal,
		ActiveSessions,
	}
}
