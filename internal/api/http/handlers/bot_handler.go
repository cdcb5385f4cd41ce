package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eden-labs/trading-gateway/internal/api/dto"
	"github.com/eden-labs/trading-gateway/internal/service"
)

// BotHandler exposes bot lifecycle endpoints.
type BotHandler struct {
	trading *service.TradingService
}

// NewBotHandler constructs handler.
func NewBotHandler(trading *service.TradingService) *BotHandler {
	return &BotHandler{trading: trading}
}

// Status handles GET /bot/status.
func (h *BotHandler) Status(c *fiber.Ctx) error {
	return c.JSON(dto.NewSuccess(h.trading.BotStatus(), reqID(c)))
}

// Start handles POST /bot/start.
func (h *BotHandler) Start(c *fiber.Ctx) error {
	h.trading.StartBot(c.UserContext())
	return c.JSON(dto.NewSuccessMessage("Trading bot started", reqID(c)))
}

// Stop handles POST /bot/stop.
func (h *BotHandler) Stop(c *fiber.Ctx) error {
	h.trading.StopBot(c.UserContext())
	return c.JSON(dto.NewSuccessMessage("Trading bot stopped", reqID(c)))
}

// Pause handles POST /bot/pause.
func (h *BotHandler) Pause(c *fiber.Ctx) error {
	h.trading.PauseBot(c.UserContext())
	return c.JSON(dto.NewSuccessMessage("Trading bot paused", reqID(c)))
}
