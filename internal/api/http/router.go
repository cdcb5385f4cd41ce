package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/eden-labs/trading-gateway/internal/api/http/handlers"
	"github.com/eden-labs/trading-gateway/internal/auth"
	"github.com/eden-labs/trading-gateway/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Bot            *handlers.BotHandler
	Trading        *handlers.TradingHandler
	Performance    *handlers.PerformanceHandler
	Websocket      *handlers.WSHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Role guards run after authentication
// and reject before the handler body executes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/login/access-token", cfg.Auth.Login)
	authGroup.Post("/test-token", cfg.AuthMiddleware.Handle, cfg.Auth.TestToken)

	bot := api.Group("/bot")
	bot.Get("/status", cfg.Bot.Status)
	bot.Post("/start", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), cfg.Bot.Start)
	bot.Post("/stop", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), cfg.Bot.Stop)
	bot.Post("/pause", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), cfg.Bot.Pause)

	trades := api.Group("/trades")
	trades.Get("/history", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleUser), cfg.Trading.History)
	trades.Get("/open", cfg.Trading.Open)
	trades.Get("/recent", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleUser), cfg.Trading.Recent)
	trades.Post("/close", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), cfg.Trading.Close)

	performance := api.Group("/performance")
	performance.Get("/stats", cfg.Performance.Stats)
	performance.Get("/equity-curve", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleUser), cfg.Performance.EquityCurve)
	performance.Get("/daily-summary", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleUser), cfg.Performance.DailySummary)

	ws := api.Group("/ws", cfg.Websocket.Upgrade)
	ws.Get("/updates/:token", websocket.New(cfg.Websocket.Updates))
}
