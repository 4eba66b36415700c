package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-gateway/internal/domain"
	"github.com/spec-kit/session-gateway/internal/store"
)

func newTestApp(t *testing.T, explicit Backend) *fiber.App {
	t.Helper()

	if explicit == nil {
		explicit = store.NewMemoryBackend()
	}
	mw := NewMiddleware(MiddlewareConfig{
		Stores: func(c *fiber.Ctx) *CredentialStore {
			return NewCredentialStore(store.NewCookieBackend(c), explicit, nil)
		},
		SuperHotelPrefix: testSuperHotelPrefix,
	})

	app := fiber.New()
	app.Use(mw.ResolveConflicts())
	app.Get("/hotel/revenue", mw.RequireRoles(domain.RoleHotel), func(c *fiber.Ctx) error {
		return c.SendString("revenue")
	})
	app.Get("/superhotel/dashboard", mw.RequireRoles(domain.RoleSuperadmin), func(c *fiber.Ctx) error {
		return c.SendString("superhotel")
	})
	app.Get("/account", mw.RequireRoles(), func(c *fiber.Ctx) error {
		return c.SendString("account")
	})
	return app
}

func TestGuardMiddleware_UnauthenticatedRedirectsToLogin(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/hotel/revenue", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?from=%2Fhotel%2Frevenue", resp.Header.Get("Location"))
}

func TestGuardMiddleware_MatchingRoleRenders(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/hotel/revenue", nil)
	req.AddCookie(&http.Cookie{
		Name:  KeyRegularToken,
		Value: makeToken(t, map[string]any{"role": "hotel", "sub": "h1"}),
	})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuardMiddleware_WrongRoleRedirectsToForbidden(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/hotel/revenue", nil)
	req.AddCookie(&http.Cookie{
		Name:  KeyRegularToken,
		Value: makeToken(t, map[string]any{"role": "guest", "sub": "g1"}),
	})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/forbidden", resp.Header.Get("Location"))
}

func TestGuardMiddleware_OpaqueTokenRedirectsToLogin(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)

	// A credential that decodes as nothing resolves no identity, so the
	// caller goes through login, not forbidden.
	req := httptest.NewRequest(http.MethodGet, "/hotel/revenue", nil)
	req.AddCookie(&http.Cookie{Name: KeyRegularToken, Value: "not-a-credential"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?from=%2Fhotel%2Frevenue", resp.Header.Get("Location"))
}

func TestGuardMiddleware_SessionHeaderIsFirstFallback(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/hotel/revenue", nil)
	req.Header.Set(HeaderSessionRole, "hotel")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuardMiddleware_AnyAuthenticatedRoleForAccount(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(&http.Cookie{
		Name:  KeyRegularToken,
		Value: makeToken(t, map[string]any{"role": "guest", "sub": "g1"}),
	})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestConflictMiddleware_SuperHotelNavigationEvictsRegular(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/superhotel/dashboard", nil)
	req.AddCookie(&http.Cookie{
		Name:  KeyRegularToken,
		Value: makeToken(t, map[string]any{"role": "hotel", "sub": "h1"}),
	})
	req.AddCookie(&http.Cookie{
		Name:  KeySuperHotelToken,
		Value: makeToken(t, map[string]any{"subject": "SUPER_HOTEL_ADMIN", "sub": "s1"}),
	})
	resp, err := app.Test(req)
	require.NoError(t, err)

	// The super-hotel identity survives and authorizes the page; the
	// regular credential cookie is expired on the way out.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, cookieExpired(resp, KeyRegularToken), "regular credential should be evicted")
	assert.False(t, cookieExpired(resp, KeySuperHotelToken))
}

func TestConflictMiddleware_RegularNavigationEvictsSuperHotel(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/hotel/revenue", nil)
	req.AddCookie(&http.Cookie{
		Name:  KeyRegularToken,
		Value: makeToken(t, map[string]any{"role": "hotel", "sub": "h1"}),
	})
	req.AddCookie(&http.Cookie{
		Name:  KeySuperHotelToken,
		Value: makeToken(t, map[string]any{"subject": "SUPER_HOTEL_ADMIN", "sub": "s1"}),
	})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, cookieExpired(resp, KeySuperHotelToken), "super-hotel credential should be evicted")
	assert.False(t, cookieExpired(resp, KeyRegularToken))
}

func TestMiddleware_OneStorePerRequest(t *testing.T) {
	t.Parallel()

	built := 0
	mw := NewMiddleware(MiddlewareConfig{
		Stores: func(c *fiber.Ctx) *CredentialStore {
			built++
			return NewCredentialStore(store.NewCookieBackend(c), store.NewMemoryBackend(), nil)
		},
		SuperHotelPrefix: testSuperHotelPrefix,
	})

	var first, second *CredentialStore
	app := fiber.New()
	app.Use(mw.ResolveConflicts())
	app.Get("/page", func(c *fiber.Ctx) error {
		first = mw.Store(c)
		second = mw.Store(c)
		return c.SendString("ok")
	})

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/page", nil))
	require.NoError(t, err)

	// Conflict resolution, guards, and handlers must all see the same
	// in-request writes, so the store is built once per request.
	assert.Equal(t, 1, built)
	assert.Same(t, first, second)
}

func cookieExpired(resp *http.Response, name string) bool {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name && cookie.Value == "" {
			return true
		}
	}
	return false
}
