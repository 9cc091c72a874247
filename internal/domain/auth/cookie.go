package auth

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Anvoria/dashboard/internal/credential"
	"github.com/Anvoria/dashboard/internal/domain/session"
)

// TokenFromRequest returns the raw session token of the request, or "".
func TokenFromRequest(c *fiber.Ctx) string {
	return credential.FromCookieHeader(c.Get(fiber.HeaderCookie))
}

func setSessionCookie(c *fiber.Ctx, issued *session.Issued, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     credential.CookieName,
		Value:    issued.Token,
		Path:     "/",
		MaxAge:   int(session.Lifetime / time.Second),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie emits "Max-Age=0" for the session cookie. fiber only
// renders max-age for positive values, so the header is built with net/http.
func clearSessionCookie(c *fiber.Ctx, secure bool) {
	cookie := &http.Cookie{
		Name:     credential.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	c.Response().Header.Add(fiber.HeaderSetCookie, cookie.String())
}
