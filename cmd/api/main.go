package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/eden-labs/trading-gateway/internal/api/http"
	"github.com/eden-labs/trading-gateway/internal/api/http/handlers"
	"github.com/eden-labs/trading-gateway/internal/auth"
	"github.com/eden-labs/trading-gateway/internal/config"
	"github.com/eden-labs/trading-gateway/internal/events"
	"github.com/eden-labs/trading-gateway/internal/observability"
	"github.com/eden-labs/trading-gateway/internal/persistence"
	"github.com/eden-labs/trading-gateway/internal/realtime"
	"github.com/eden-labs/trading-gateway/internal/repository"
	"github.com/eden-labs/trading-gateway/internal/service"
	"github.com/eden-labs/trading-gateway/internal/worker"
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

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var userRepo repository.UserRepository
	var tradeRepo repository.TradeRepository
	if pool := pg.PoolHandle(); pool != nil {
		userRepo = repository.NewUserRepository(pool)
		tradeRepo = repository.NewTradeRepository(pool)
	} else {
		userRepo, err = repository.NewMemoryUserRepository(repository.DefaultSeedAccounts(), cfg.Auth.BcryptCost)
		if err != nil {
			logger.Fatal("failed to seed accounts", zap.Error(err))
		}
		tradeRepo = repository.NewMemoryTradeRepository()
	}

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	authService := service.NewAuthService(cfg.Auth, userRepo, tokens, logger)
	authMiddleware := auth.NewMiddleware(tokens)

	metrics := observability.NewMetrics()
	registry := realtime.NewRegistry(cfg.Websocket.SendBufferSize)
	broadcaster := realtime.NewBroadcaster(registry, logger)
	relay := realtime.NewRelay(redis.Client, cfg.Redis.Channel, broadcaster, logger)

	dispatcher := events.NewInMemoryDispatcher()
	tradingService := service.NewTradingService(tradeRepo, dispatcher, logger)
	streamService := service.NewStreamService(dispatcher, broadcaster, relay, logger)
	worker.StartStreamWorker(ctx, streamService, tradingService, relay, time.Second)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.CORSOrigins, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, registry),
		Auth:           handlers.NewAuthHandler(authService),
		Bot:            handlers.NewBotHandler(tradingService),
		Trading:        handlers.NewTradingHandler(tradingService),
		Performance:    handlers.NewPerformanceHandler(tradingService),
		Websocket:      handlers.NewWSHandler(tokens, registry, metrics, logger, cfg.Websocket),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
