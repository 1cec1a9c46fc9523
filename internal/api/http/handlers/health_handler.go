package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/movierec-service/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes.
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

// Ready handles GET /health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	status := "ok"
	if err := h.redis.Ping(c.Context()); err != nil {
		status = "degraded"
	}
	return c.JSON(fiber.Map{"status": status})
}
