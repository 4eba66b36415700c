package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-gateway/internal/api/http/handlers"
	"github.com/spec-kit/session-gateway/internal/auth"
	"github.com/spec-kit/session-gateway/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Session *handlers.SessionHandler
	Portal  *handlers.PortalHandler
	Auth    *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Conflict resolution runs on every
// navigation before any guard; guards then gate each protected region.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Auth.ResolveConflicts())

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Portal.Home)
	app.Get("/login", cfg.Portal.LoginPage)
	app.Get("/forbidden", cfg.Portal.Forbidden)

	session := app.Group("/session")
	session.Post("/login", cfg.Session.Login)
	session.Post("/superhotel/login", cfg.Session.LoginSuperHotel)
	session.Post("/logout", cfg.Session.Logout)
	session.Get("/me", cfg.Session.Me)

	hotel := app.Group("/hotel", cfg.Auth.RequireRoles(domain.RoleHotel))
	hotel.Get("/dashboard", cfg.Portal.HotelDashboard)
	hotel.Get("/revenue", cfg.Portal.HotelRevenue)

	superhotel := app.Group("/superhotel", cfg.Auth.RequireRoles(domain.RoleSuperadmin))
	superhotel.Get("/dashboard", cfg.Portal.SuperHotelDashboard)

	provider := app.Group("/provider", cfg.Auth.RequireRoles(domain.RoleProvider))
	provider.Get("/dashboard", cfg.Portal.ProviderDashboard)

	account := app.Group("/account", cfg.Auth.RequireRoles())
	account.Get("/", cfg.Portal.Account)
}
