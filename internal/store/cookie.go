package store

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieBackend is the auto-store: values ride in cookies the user agent
// attaches to every request on its own. Writes go out as Set-Cookie on the
// current response; an overlay keeps reads within the same request
// consistent with writes made earlier in it.
type CookieBackend struct {
	c       *fiber.Ctx
	overlay map[string]*string
}

// NewCookieBackend binds a backend to one request/response pair.
func NewCookieBackend(c *fiber.Ctx) *CookieBackend {
	return &CookieBackend{c: c, overlay: make(map[string]*string)}
}

// Get reads a cookie value, preferring writes made during this request.
func (b *CookieBackend) Get(key string) (string, bool) {
	if pending, ok := b.overlay[key]; ok {
		if pending == nil {
			return "", false
		}
		return *pending, true
	}
	value := b.c.Cookies(key)
	if value == "" {
		return "", false
	}
	return value, true
}

// Set writes a session cookie scoped to the whole site.
func (b *CookieBackend) Set(key, value string) error {
	b.c.Cookie(&fiber.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	b.overlay[key] = &value
	return nil
}

// Delete expires the cookie on the client.
func (b *CookieBackend) Delete(key string) error {
	b.c.Cookie(&fiber.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	b.overlay[key] = nil
	return nil
}
