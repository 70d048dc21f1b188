package middleware

import (
	"github.com/ahmetcoskunkizilkaya/catalog/internal/session"
	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the c.Locals key holding the signed-in user's id.
const UserIDKey = "user_id"

// RequireLogin lets signed-in users through and sends everyone else to
// redirect with a flash message.
func RequireLogin(sessions *session.Manager, redirect string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessions.Get(c)
		if err != nil {
			return err
		}
		if id := sess.UserID(); id != 0 {
			c.Locals(UserIDKey, id)
			return c.Next()
		}
		sess.Flash("You must be logged in to do that.")
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect(redirect, fiber.StatusSeeOther)
	}
}

// UserID returns the id stored by RequireLogin, or 0.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(UserIDKey).(uint)
	return id
}
