package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-gateway/internal/persistence"
)

// HealthHandler exposes liveness and readiness endpoints.
type HealthHandler struct {
	redis *persistence.Redis
}

// NewHealthHandler constructs handler.
func NewHealthHandler(redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{redis: redis}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready. Redis backs the explicit store; the
// gateway still serves cookie-only sessions without it, so readiness
// reports degraded rather than failing outright.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	if h.redis == nil || h.redis.Ping(ctx) != nil {
		status = "degraded"
	}
	return c.JSON(fiber.Map{"status": status})
}
