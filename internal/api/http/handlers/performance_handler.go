package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eden-labs/trading-gateway/internal/api/dto"
	"github.com/eden-labs/trading-gateway/internal/service"
	apperrors "github.com/eden-labs/trading-gateway/pkg/util"
)

// PerformanceHandler exposes aggregated trading results.
type PerformanceHandler struct {
	trading *service.TradingService
}

// NewPerformanceHandler constructs handler.
func NewPerformanceHandler(trading *service.TradingService) *PerformanceHandler {
	return &PerformanceHandler{trading: trading}
}

// Stats handles GET /performance/stats.
func (h *PerformanceHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.trading.PerformanceStats(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewSuccess(stats, reqID(c)))
}

// EquityCurve handles GET /performance/equity-curve.
func (h *PerformanceHandler) EquityCurve(c *fiber.Ctx) error {
	curve, err := h.trading.EquityCurve(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewSuccess(curve, reqID(c)))
}

// DailySummary handles GET /performance/daily-summary.
func (h *PerformanceHandler) DailySummary(c *fiber.Ctx) error {
	summary, err := h.trading.DailySummary(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewSuccess(summary, reqID(c)))
}
