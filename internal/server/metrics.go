// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mercado-lp/pkg/metrics"
	"github.com/AccelByte/extend-mercado-lp/pkg/pipeline"
)

// MetricsServer manages the Prometheus metrics HTTP server.
type MetricsServer struct {
	server   *http.Server
	port     int
	endpoint string
	manager  *pipeline.Manager
	registry *prometheus.Registry
}

// NewMetricsServer creates a new metrics server instance. manager may be nil.
func NewMetricsServer(port int, endpoint string, manager *pipeline.Manager) *MetricsServer {
	return &MetricsServer{
		port:     port,
		endpoint: endpoint,
		manager:  manager,
	}
}

// Setup configures the metrics server and registers collectors.
//
// ============================================================
// DEVELOPER: Register custom Prometheus metrics here
// ============================================================
// Go runtime and process metrics are always exposed. Game
// collectors live in pkg/metrics and are listed by
// metrics.Collectors(). Unlock pipeline counters are read from
// the manager on scrape.
// ============================================================
func (m *MetricsServer) Setup() error {
	registry := prometheus.NewRegistry()

	// Register default collectors
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	registry.MustRegister(metrics.Collectors()...)
	if m.manager != nil {
		registry.MustRegister(pipelineCollectors(m.manager)...)
	}
	m.registry = registry

	mux := http.NewServeMux()
	mux.Handle(m.endpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	m.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", m.port),
		Handler: mux,
	}

	return nil
}

// pipelineCollectors exposes the unlock pipeline counters.
func pipelineCollectors(manager *pipeline.Manager) []prometheus.Collector {
	counter := func(name, help string, read func(pipeline.Stats) int64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "mercado_lp",
			Subsystem: "unlocks",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(read(manager.GetStats())) })
	}
	return []prometheus.Collector{
		counter("activities_total", "Activities processed by the unlock pipeline",
			func(s pipeline.Stats) int64 { return s.ProcessorStats.TotalActivitiesProcessed }),
		counter("signals_total", "Signals generated from activities",
			func(s pipeline.Stats) int64 { return s.ProcessorStats.SignalsGenerated }),
		counter("triggers_total", "Rule triggers",
			func(s pipeline.Stats) int64 { return s.EngineStats.TriggersGenerated }),
		counter("actions_succeeded_total", "Successful unlock actions",
			func(s pipeline.Stats) int64 { return s.ExecutorStats.SuccessfulActions }),
		counter("actions_failed_total", "Failed unlock actions",
			func(s pipeline.Stats) int64 { return s.ExecutorStats.FailedActions }),
	}
}

// Start begins serving metrics on the configured port.
func (m *MetricsServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("metrics server listening on port %d%s", m.port, m.endpoint)
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("metrics server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down metrics server...")
	if err := m.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("metrics server stopped")
	return nil
}
