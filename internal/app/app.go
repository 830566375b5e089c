// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/factory"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/iam"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/platform"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/social"
	sdkAuth "github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/utils/auth"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mercado-lp/internal/bootstrap"
	"github.com/AccelByte/extend-mercado-lp/internal/config"
	"github.com/AccelByte/extend-mercado-lp/internal/server"
	actionBuiltin "github.com/AccelByte/extend-mercado-lp/pkg/action/builtin"
	"github.com/AccelByte/extend-mercado-lp/pkg/gamestate"
	"github.com/AccelByte/extend-mercado-lp/pkg/pipeline"
	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/service"
	"github.com/AccelByte/extend-mercado-lp/pkg/state"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	hub               *gamestate.Hub
	grpcServer        *server.GRPCServer
	httpServer        *server.HTTPServer
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	pgPool            *pgxpool.Pool
	shutdownTelemetry func(context.Context) error

	// AccelByte SDK repositories, shared by every platform service
	configRepo *sdkAuth.ConfigRepositoryImpl
	tokenRepo  *sdkAuth.TokenRepositoryImpl
}

// New creates and initializes a new application instance.
//
// ============================================================
// Initialization order
// ============================================================
// 1. AccelByte SDK (optional, only when AB_* is set)
// 2. Persistence backend (redis, postgres or memory)
// 3. Unlock pipeline config (YAML)
// 4. Game engines and the unlock pipeline
// 5. Session hub
// 6. Servers (gRPC health, HTTP API, metrics)
// 7. Telemetry (OpenTelemetry tracing)
// ============================================================
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: AccelByte platform rewards
	// ============================================================
	deps := &actionBuiltin.Dependencies{}
	if cfg.PlatformEnabled() {
		if err := app.initAccelByteSDKAuth(); err != nil {
			return nil, fmt.Errorf("failed to init AccelByte SDK: %w", err)
		}
		deps.EntitlementGranter = app.initItemGranter()
		deps.StatPublisher = app.initStatisticService()
	} else {
		logrus.Info("AccelByte platform not configured, platform rewards disabled")
	}

	// ============================================================
	// Step 2: Persistence
	// ============================================================
	persist, probe, err := app.initPersistence(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init %s persistence: %w", cfg.PersistenceBackend, err)
	}

	// ============================================================
	// Step 3: Load unlock pipeline configuration
	// ============================================================
	pipelineConfig, err := pipeline.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline config from %q: %w", cfg.ConfigPath, err)
	}
	if cfg.ConfigPath == "" {
		logrus.Info("loaded embedded pipeline configuration")
	} else {
		logrus.Infof("loaded pipeline configuration from %s", cfg.ConfigPath)
	}

	// ============================================================
	// Step 4: Game engines and unlock pipeline
	// ============================================================
	table, err := cfg.LevelTable()
	if err != nil {
		return nil, fmt.Errorf("invalid level thresholds: %w", err)
	}
	progress := progression.NewEngine(table, nil)
	deps.Badges = progress

	pipelineManager, err := bootstrap.InitPipeline(pipelineConfig, deps, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to init unlock pipeline: %w", err)
	}
	logrus.Info("pipeline wiring validation passed")

	// ============================================================
	// Step 5: Session hub
	// ============================================================
	app.hub = gamestate.NewHub(gamestate.Config{
		Progression: progress,
		Unlocks:     pipelineManager,
		Seed:        cfg.LeagueSeed,
	}, persist, cfg.TickInterval)

	// ============================================================
	// Step 6: Setup servers
	// ============================================================
	app.grpcServer = server.NewGRPCServer(cfg.GRPCPort, cfg.ServiceName, probe)
	if err := app.grpcServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup gRPC server: %w", err)
	}

	app.httpServer = server.NewHTTPServer(cfg.HTTPPort, app.hub, probe)

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics", pipelineManager)
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// ============================================================
	// Step 7: Setup telemetry
	// ============================================================
	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.ServiceName, cfg.Environment, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// initPersistence opens the configured snapshot backend.
func (a *App) initPersistence(ctx context.Context) (*state.Store, *state.HealthChecker, error) {
	var kv state.KV

	switch a.cfg.PersistenceBackend {
	case config.BackendRedis:
		client, err := state.InitRedisClient(ctx, state.RedisOptions{
			Host:       a.cfg.RedisHost,
			Port:       a.cfg.RedisPort,
			Password:   a.cfg.RedisPassword,
			MaxRetries: a.cfg.RedisMaxRetries,
		})
		if err != nil {
			return nil, nil, err
		}
		a.redisClient = client
		kv = state.NewRedisKV(client, a.cfg.RedisTTL)

	case config.BackendPostgres:
		pool, err := state.NewPostgresPool(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		a.pgPool = pool
		pg := state.NewPostgresKV(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		kv = pg

	case config.BackendMemory:
		logrus.Warn("using in-memory persistence, snapshots are lost on restart")
		kv = state.NewMemoryKV()

	default:
		return nil, nil, fmt.Errorf("unknown persistence backend %q", a.cfg.PersistenceBackend)
	}

	logrus.Infof("%s persistence initialized", a.cfg.PersistenceBackend)
	return state.NewStore(kv), state.NewHealthChecker(kv, a.cfg.PersistenceBackend), nil
}

// initAccelByteSDKAuth logs in with the client credentials from AB_CLIENT_ID
// and AB_CLIENT_SECRET. The SDK refreshes the token at 80% of its TTL.
//
// The configRepo and tokenRepo are kept on the App and must be reused by
// every AccelByte service so they share the authenticated session.
func (a *App) initAccelByteSDKAuth() error {
	a.configRepo = sdkAuth.DefaultConfigRepositoryImpl()
	a.tokenRepo = sdkAuth.DefaultTokenRepositoryImpl()
	refreshRepo := &sdkAuth.RefreshTokenImpl{AutoRefresh: true, RefreshRate: 0.8}

	oauthService := iam.OAuth20Service{
		Client:                 factory.NewIamClient(a.configRepo),
		ConfigRepository:       a.configRepo,
		TokenRepository:        a.tokenRepo,
		RefreshTokenRepository: refreshRepo,
	}

	clientID := a.configRepo.GetClientId()
	clientSecret := a.configRepo.GetClientSecret()

	if err := oauthService.LoginClient(&clientID, &clientSecret); err != nil {
		return fmt.Errorf("unable to login using clientId and clientSecret: %w", err)
	}

	logrus.Info("AccelByte SDK initialized and authenticated")
	return nil
}

// initItemGranter creates the entitlement service used by grant_item.
func (a *App) initItemGranter() service.EntitlementGranter {
	fulfillmentService := &platform.FulfillmentService{
		Client:           factory.NewPlatformClient(a.configRepo),
		ConfigRepository: a.configRepo,
		TokenRepository:  a.tokenRepo,
	}

	return service.NewEntitlementService(fulfillmentService, service.EntitlementServiceConfig{
		Namespace: a.cfg.ABNamespace,
	})
}

// initStatisticService creates the statistic client used by publish_stat.
func (a *App) initStatisticService() service.StatisticPublisher {
	statisticService := &social.UserStatisticService{
		Client:           factory.NewSocialClient(a.configRepo),
		ConfigRepository: a.configRepo,
		TokenRepository:  a.tokenRepo,
	}

	return service.NewStatisticService(statisticService,
		service.StatisticServiceConfig{
			Namespace: a.cfg.ABNamespace,
		})
}
