package auth

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/session-gateway/internal/domain"
	"github.com/spec-kit/session-gateway/internal/events"
)

// HeaderSessionRole carries the frontend's cached session role, consumed
// as the first role-resolution fallback step.
const HeaderSessionRole = "X-Session-Role"

// StoreProvider builds the per-request CredentialStore: the auto-store
// bound to this request's cookies, the explicit-store scoped to its
// device id.
type StoreProvider func(c *fiber.Ctx) *CredentialStore

// Middleware adapts the session subsystem to fiber routes.
type Middleware struct {
	stores           StoreProvider
	deviceID         func(c *fiber.Ctx) string
	superHotelPrefix string
	loginPath        string
	forbiddenPath    string
	dispatcher       events.Dispatcher
	logger           *zap.Logger
}

// MiddlewareConfig bundles Middleware construction parameters. DeviceID is
// optional; when set, published events carry the device identifier.
type MiddlewareConfig struct {
	Stores           StoreProvider
	DeviceID         func(c *fiber.Ctx) string
	SuperHotelPrefix string
	LoginPath        string
	ForbiddenPath    string
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewMiddleware constructs the adapter.
func NewMiddleware(cfg MiddlewareConfig) *Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{
		stores:           cfg.Stores,
		deviceID:         cfg.DeviceID,
		superHotelPrefix: cfg.SuperHotelPrefix,
		loginPath:        orDefault(cfg.LoginPath, DefaultLoginPath),
		forbiddenPath:    orDefault(cfg.ForbiddenPath, DefaultForbiddenPath),
		dispatcher:       cfg.Dispatcher,
		logger:           logger,
	}
}

// credentialStoreKey caches the per-request CredentialStore in c.Locals.
// The conflict middleware, the guards, and the handlers must all observe
// the same in-request writes; a fresh store per call would re-read the
// request cookies and miss evictions made earlier in the same navigation.
const credentialStoreKey = "auth_credential_store"

// ResolveConflicts runs conflict resolution on every navigation before any
// guard sees the request. Idempotent, so it is registered globally.
func (m *Middleware) ResolveConflicts() fiber.Handler {
	return func(c *fiber.Ctx) error {
		resolver := NewConflictResolver(m.store(c), m.superHotelPrefix, m.device(c), m.dispatcher, m.logger)
		resolver.Resolve(c.UserContext(), c.Path())
		return c.Next()
	}
}

// RequireRoles gates a protected region. No roles means any authenticated
// identity passes.
func (m *Middleware) RequireRoles(allowed ...domain.Role) fiber.Handler {
	cfg := GuardConfig{
		AllowedRoles:  allowed,
		LoginPath:     m.loginPath,
		ForbiddenPath: m.forbiddenPath,
	}
	return func(c *fiber.Ctx) error {
		role, resolved, authenticated := m.resolve(c)
		decision := Evaluate(cfg, GuardInput{
			IsAuthenticated: authenticated,
			Role:            role,
			RoleResolved:    resolved,
			RequestedPath:   c.Path(),
		})

		switch decision.Action {
		case GuardRedirectLogin:
			return redirect(c, decision.Target, decision.From)
		case GuardRedirectForbidden:
			return redirect(c, decision.Target, "")
		default:
			return c.Next()
		}
	}
}

// Resolve exposes per-request resolution to handlers (session bootstrap).
func (m *Middleware) Resolve(c *fiber.Ctx) (domain.Role, bool, bool) {
	return m.resolve(c)
}

// Store exposes the per-request credential store to handlers.
func (m *Middleware) Store(c *fiber.Ctx) *CredentialStore {
	return m.store(c)
}

func (m *Middleware) store(c *fiber.Ctx) *CredentialStore {
	if cached, ok := c.Locals(credentialStoreKey).(*CredentialStore); ok {
		return cached
	}
	cs := m.stores(c)
	c.Locals(credentialStoreKey, cs)
	return cs
}

func (m *Middleware) device(c *fiber.Ctx) string {
	if m.deviceID == nil {
		return ""
	}
	return m.deviceID(c)
}

func (m *Middleware) resolve(c *fiber.Ctx) (role domain.Role, resolved, authenticated bool) {
	resolver := NewRoleResolver(sessionFromHeaders(c), m.store(c))
	role, resolved = resolver.Resolve(strings.HasPrefix(c.Path(), m.superHotelPrefix))
	return role, resolved, resolver.Authenticated()
}

// sessionFromHeaders reads the application session state the frontend
// mirrors into a request header.
func sessionFromHeaders(c *fiber.Ctx) domain.SessionAccessor {
	return domain.SessionStateFunc(func() domain.SessionState {
		role := c.Get(HeaderSessionRole)
		return domain.SessionState{IsAuthenticated: role != "", Role: role}
	})
}

func redirect(c *fiber.Ctx, target, from string) error {
	if from != "" {
		target += "?from=" + url.QueryEscape(from)
	}
	return c.Redirect(target, fiber.StatusFound)
}
