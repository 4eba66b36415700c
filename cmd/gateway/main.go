package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/session-gateway/internal/api/http/handlers"
	"github.com/spec-kit/session-gateway/internal/auth"
	"github.com/spec-kit/session-gateway/internal/cache"
	"github.com/spec-kit/session-gateway/internal/config"
	"github.com/spec-kit/session-gateway/internal/events"
	"github.com/spec-kit/session-gateway/internal/observability"
	"github.com/spec-kit/session-gateway/internal/persistence"
	"github.com/spec-kit/session-gateway/internal/repository"
	"github.com/spec-kit/session-gateway/internal/service"
	"github.com/spec-kit/session-gateway/internal/store"
	"github.com/spec-kit/session-gateway/internal/worker"

	httptransport "github.com/spec-kit/session-gateway/internal/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventIdentityEvicted, func(_ context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.IdentityEvictedPayload); ok {
			metrics.RecordEviction(string(payload.Kind))
		}
		return nil
	})

	var auditRepo repository.AuthEventRepository
	if pool := pg.PoolHandle(); pool != nil {
		auditRepo = repository.NewAuthEventRepository(pool)
	}
	auditService := service.NewAuditService(auditRepo, dispatcher, logger)
	worker.StartAuditWorker(auditService)

	responseCache := cache.NewResponseCache(redis.Client, logger)
	sessionService := service.NewSessionService(cfg.Upstream, logger)

	stores := func(c *fiber.Ctx) *auth.CredentialStore {
		explicit := store.NewRedisBackend(c.UserContext(), redis.Client, httptransport.DeviceID(c), logger)
		return auth.NewCredentialStore(store.NewCookieBackend(c), explicit, logger)
	}

	authMW := auth.NewMiddleware(auth.MiddlewareConfig{
		Stores:           stores,
		DeviceID:         httptransport.DeviceID,
		SuperHotelPrefix: cfg.Session.SuperHotelPrefix,
		LoginPath:        cfg.Session.LoginPath,
		ForbiddenPath:    cfg.Session.ForbiddenPath,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})

	logoutFactory := func(c *fiber.Ctx) *auth.SecureLogout {
		deviceID := httptransport.DeviceID(c)
		return auth.NewSecureLogout(auth.LogoutConfig{
			Store:             authMW.Store(c),
			Scratch:           store.NewRedisBackend(c.UserContext(), redis.Client, deviceID, logger),
			Caches:            []auth.CacheInvalidator{responseCache.ForDevice(deviceID)},
			ProtectedPrefixes: cfg.Session.ProtectedPrefixes,
			LoginPath:         cfg.Session.LoginPath,
			HomePath:          cfg.Session.HomePath,
			DeviceID:          deviceID,
			Dispatcher:        dispatcher,
			Logger:            logger,
		})
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(redis),
		Session: handlers.NewSessionHandler(sessionService, authMW, logoutFactory),
		Portal:  handlers.NewPortalHandler(responseCache),
		Auth:    authMW,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
