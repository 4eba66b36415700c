package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-gateway/internal/api/dto"
	"github.com/spec-kit/session-gateway/internal/auth"
	"github.com/spec-kit/session-gateway/internal/domain"
	"github.com/spec-kit/session-gateway/internal/service"
	apperrors "github.com/spec-kit/session-gateway/pkg/util"
)

// LogoutFactory builds the per-request teardown sequence.
type LogoutFactory func(c *fiber.Ctx) *auth.SecureLogout

// SessionHandler exposes the session lifecycle endpoints.
type SessionHandler struct {
	sessions *service.SessionService
	auth     *auth.Middleware
	logout   LogoutFactory
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *service.SessionService, authMW *auth.Middleware, logout LogoutFactory) *SessionHandler {
	return &SessionHandler{sessions: sessions, auth: authMW, logout: logout}
}

// Login handles POST /session/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.sessions.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("login failed")
		}
		return apperrors.NewUpstreamError(err)
	}

	store := h.auth.Store(c)
	store.Write(domain.IdentityRegularUser, result.Token)
	store.WriteProfile(result.Profile)

	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		Authenticated: true,
		Profile:       result.Profile,
	}})
}

// LoginSuperHotel handles POST /session/superhotel/login.
func (h *SessionHandler) LoginSuperHotel(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.sessions.LoginSuperHotel(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("login failed")
		}
		return apperrors.NewUpstreamError(err)
	}

	h.auth.Store(c).Write(domain.IdentitySuperHotel, result.Token)

	return c.JSON(fiber.Map{"data": dto.SessionResponse{Authenticated: true}})
}

// Logout handles POST /session/logout. The navigation context comes from
// the routing layer via the from query or the X-Current-Path header.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	currentPath := c.Query("from")
	if currentPath == "" {
		currentPath = c.Get("X-Current-Path", "/")
	}

	nav := h.logout(c).Logout(c.UserContext(), currentPath)

	target := nav.Target
	if nav.From != "" {
		target += "?from=" + url.QueryEscape(nav.From)
	}
	return c.Redirect(target, fiber.StatusFound)
}

// Me handles GET /session/me.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	role, resolved, authenticated := h.auth.Resolve(c)

	resp := dto.SessionResponse{Authenticated: authenticated}
	if resolved {
		resp.Role = string(role)
	}
	if authenticated {
		resp.Profile = h.auth.Store(c).ReadProfile()
	}
	return c.JSON(fiber.Map{"data": resp})
}
