package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-gateway/internal/cache"
)

// PortalHandler serves the navigation destinations: the unauthenticated
// pages redirects land on, and the guard-gated regions. Protected pages
// return placeholder payloads; the real content comes from upstream
// services outside this subsystem.
type PortalHandler struct {
	responses *cache.ResponseCache
}

// NewPortalHandler constructs handler.
func NewPortalHandler(responses *cache.ResponseCache) *PortalHandler {
	return &PortalHandler{responses: responses}
}

// Home handles GET /.
func (h *PortalHandler) Home(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "home"})
}

// LoginPage handles GET /login.
func (h *PortalHandler) LoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "login", "from": c.Query("from")})
}

// Forbidden handles GET /forbidden.
func (h *PortalHandler) Forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"page": "forbidden"})
}

// HotelDashboard handles GET /hotel/dashboard, caching the rendered
// payload per device until logout invalidates it.
func (h *PortalHandler) HotelDashboard(c *fiber.Ctx) error {
	deviceID := deviceIDOf(c)
	if h.responses != nil {
		if body, ok := h.responses.Get(c.UserContext(), deviceID, c.Path()); ok {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(body)
		}
	}

	body := `{"page":"hotel-dashboard"}`
	if h.responses != nil {
		_ = h.responses.Put(c.UserContext(), deviceID, c.Path(), body)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(body)
}

// HotelRevenue handles GET /hotel/revenue.
func (h *PortalHandler) HotelRevenue(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "hotel-revenue"})
}

// SuperHotelDashboard handles GET /superhotel/dashboard.
func (h *PortalHandler) SuperHotelDashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "superhotel-dashboard"})
}

// ProviderDashboard handles GET /provider/dashboard.
func (h *PortalHandler) ProviderDashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "provider-dashboard"})
}

// Account handles GET /account.
func (h *PortalHandler) Account(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "account"})
}

func deviceIDOf(c *fiber.Ctx) string {
	if id, ok := c.Locals("device_id").(string); ok {
		return id
	}
	return ""
}
