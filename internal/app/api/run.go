package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	cataloghttp "github.com/emarket/emarket-api/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/emarket/emarket-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/emarket/emarket-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/emarket/emarket-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/emarket/emarket-api/internal/domains/catalog/application"
	catalogports "github.com/emarket/emarket-api/internal/domains/catalog/ports"
	ordershttp "github.com/emarket/emarket-api/internal/domains/orders/adapters/http"
	ordersmemory "github.com/emarket/emarket-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/emarket/emarket-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/emarket/emarket-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/emarket/emarket-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/emarket/emarket-api/internal/domains/orders/application"
	ordersports "github.com/emarket/emarket-api/internal/domains/orders/ports"
	usershttp "github.com/emarket/emarket-api/internal/domains/users/adapters/http"
	usersmemory "github.com/emarket/emarket-api/internal/domains/users/adapters/memory"
	userspostgres "github.com/emarket/emarket-api/internal/domains/users/adapters/persistence/postgres"
	usersdomain "github.com/emarket/emarket-api/internal/domains/users/domain"
	userports "github.com/emarket/emarket-api/internal/domains/users/ports"
	"github.com/emarket/emarket-api/internal/platform/migrations"
	platformobservability "github.com/emarket/emarket-api/internal/platform/observability"
	platformpostgres "github.com/emarket/emarket-api/internal/platform/postgres"
)

// Run boots the HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "emarket-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	stores, cleanup := buildStores(ctx, logger, cfg)
	defer cleanup()

	if cfg.DevToken != "" {
		// Lets local clients call authorized routes without an auth flow.
		if err := registerDevToken(ctx, stores, cfg.DevToken); err != nil {
			logger.Warn("failed to register dev token", slog.String("error", err.Error()))
		}
	}
	if cfg.SessionPurgeIntervalMinute > 0 {
		go purgeSessions(ctx, logger, stores.sessions, time.Duration(cfg.SessionPurgeIntervalMinute)*time.Minute)
	}

	catalogService := catalogobs.New(
		catalogapp.NewService(stores.catalog),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	orderService := ordersobs.New(
		ordersapp.NewService(stores.orders),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var placement ordersports.PlacementOrchestrator = ordersworkflows.NewInlineOrderPlacement(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline placement", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		placement = ordersworkflows.NewTemporalOrderPlacement(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := NewRouter(
		serviceName,
		cataloghttp.NewAPI(catalogService),
		ordershttp.NewAPI(orderService, placement),
		usershttp.NewAPI(stores.users),
		stores.sessions,
	)
	addr := ":" + cfg.Port
	logger.Info("API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

type appStores struct {
	catalog  catalogports.Repository
	orders   ordersports.Repository
	users    userports.Repository
	sessions userports.SessionStore
}

// registerDevToken binds the configured token to a demo user so authorized
// routes work out of the box.
func registerDevToken(ctx context.Context, stores appStores, token string) error {
	user, err := stores.users.GetByID(ctx, 1)
	if errors.Is(err, userports.ErrUserNotFound) {
		demo, derr := usersdomain.NewUser("Demo Shopper", "demo@emarket.local")
		if derr != nil {
			return derr
		}
		user, err = stores.users.Save(ctx, demo)
	}
	if err != nil {
		return err
	}
	return stores.sessions.Save(ctx, token, user.ID)
}

func buildStores(ctx context.Context, logger *slog.Logger, cfg Config) (appStores, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory stores")
		return memoryStores(cfg), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return memoryStores(cfg), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return memoryStores(cfg), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return memoryStores(cfg), func() {}
	}
	logger.Info("stores configured with postgres")
	return appStores{
		catalog:  catalogpostgres.NewRepository(db),
		orders:   orderspostgres.NewRepository(db),
		users:    userspostgres.NewRepository(db),
		sessions: userspostgres.NewSessionStore(db, cfg.SessionTTL),
	}, func() { _ = sqlDB.Close() }
}

func memoryStores(cfg Config) appStores {
	catalogRepo := catalogmemory.NewRepository()
	return appStores{
		catalog:  catalogRepo,
		orders:   ordersmemory.NewStore(catalogRepo),
		users:    usersmemory.NewRepository(),
		sessions: usersmemory.NewSessionStore(cfg.SessionTTL),
	}
}

func purgeSessions(ctx context.Context, logger *slog.Logger, sessions userports.SessionStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.PurgeExpired(ctx); err != nil {
				logger.Warn("failed to purge expired sessions", slog.String("error", err.Error()))
			}
		}
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
