package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

const (
	// CSRFField is the hidden form field carrying the token.
	CSRFField = "_csrf_token"
	// CSRFContextKey is the c.Locals key holding the current token.
	CSRFContextKey = "csrf"
)

// CSRF protects every form POST. The token lives in the server-side session.
// /gconnect is exempt: it is guarded by the login state token instead.
func CSRF(sessions *session.Manager, secure bool) fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:" + CSRFField,
		CookieName:     "catalog_csrf",
		CookieSameSite: "Lax",
		CookieSecure:   secure,
		CookieHTTPOnly: true,
		Session:        sessions.Store(),
		ContextKey:     CSRFContextKey,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/gconnect"
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Warn("csrf check failed", "path", c.Path(), "request_id", RequestID(c), "error", err)
			if sess, serr := sessions.Get(c); serr == nil {
				sess.Flash("Invalid form submission!")
				if serr := sess.Save(); serr != nil {
					return serr
				}
			}
			return c.Redirect("/", fiber.StatusSeeOther)
		},
	})
}

// CSRFToken returns the token for the current request's forms.
func CSRFToken(c *fiber.Ctx) string {
	token, _ := c.Locals(CSRFContextKey).(string)
	return token
}
