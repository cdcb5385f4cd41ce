package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/eden-labs/trading-gateway/internal/api/dto"
	"github.com/eden-labs/trading-gateway/internal/service"
	apperrors "github.com/eden-labs/trading-gateway/pkg/util"
)

// TradingHandler exposes trade history and position endpoints.
type TradingHandler struct {
	trading *service.TradingService
}

// NewTradingHandler constructs handler.
func NewTradingHandler(trading *service.TradingService) *TradingHandler {
	return &TradingHandler{trading: trading}
}

// History handles GET /trades/history?limit=N.
func (h *TradingHandler) History(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 100)
	trades, err := h.trading.TradeHistory(c.UserContext(), limit)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewSuccess(trades, reqID(c)))
}

// Open handles GET /trades/open.
func (h *TradingHandler) Open(c *fiber.Ctx) error {
	return c.JSON(dto.NewSuccess(h.trading.OpenPositions(), reqID(c)))
}

// Recent handles GET /trades/recent?days=N.
func (h *TradingHandler) Recent(c *fiber.Ctx) error {
	days := queryInt(c, "days", 7)
	trades, err := h.trading.RecentTrades(c.UserContext(), days)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewSuccess(trades, reqID(c)))
}

// Close handles POST /trades/close.
func (h *TradingHandler) Close(c *fiber.Ctx) error {
	var req dto.ClosePositionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Symbol == "" {
		return apperrors.NewValidationError("symbol required", nil)
	}

	if _, err := h.trading.ClosePosition(c.UserContext(), req.Symbol); err != nil {
		if errors.Is(err, service.ErrPositionNotFound) {
			return apperrors.NewNotFound("position", map[string]any{"symbol": req.Symbol})
		}
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewSuccessMessage(fmt.Sprintf("Position %s closed", req.Symbol), reqID(c)))
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
