package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/services"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/session"
	"github.com/gofiber/fiber/v2"
)

const layout = "layouts/main"

// View renders pages inside the main layout and redirects with flashes.
type View struct {
	sessions   *session.Manager
	categories *services.CategoryService
	allowed    []string
}

func NewView(sessions *session.Manager, categories *services.CategoryService, allowedImages []string) *View {
	return &View{sessions: sessions, categories: categories, allowed: allowedImages}
}

// Session loads the request's session.
func (v *View) Session(c *fiber.Ctx) (*session.Session, error) {
	return v.sessions.Get(c)
}

// Render pops the flashes, saves the session and renders tmpl.
func (v *View) Render(c *fiber.Ctx, sess *session.Session, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	names, err := v.categories.Names(c.UserContext())
	if err != nil {
		return err
	}
	data["CategoryNames"] = names
	data["Flashes"] = sess.Flashes()
	data["User"] = sess.Info()
	data["LoggedIn"] = sess.IsActive()
	data["CSRFField"] = middleware.CSRFField
	data["CSRFToken"] = middleware.CSRFToken(c)

	if err := sess.Save(); err != nil {
		return err
	}
	return c.Render(tmpl, data, layout)
}

// Redirect flashes message (if any), saves the session and redirects.
func (v *View) Redirect(c *fiber.Ctx, sess *session.Session, to, message string) error {
	if message != "" {
		sess.Flash(message)
	}
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect(to, fiber.StatusSeeOther)
}

// Fail turns a known service error into a flash and a redirect to fallback.
// Anything else is logged and handed to the fiber error handler.
func (v *View) Fail(c *fiber.Ctx, sess *session.Session, err error, fallback string) error {
	if msg := v.message(err); msg != "" {
		return v.Redirect(c, sess, fallback, msg)
	}
	slog.Error("request failed",
		"request_id", middleware.RequestID(c),
		"user_id", sess.UserID(),
		"path", c.Path(),
		"error", err,
	)
	return err
}

func (v *View) message(err error) string {
	switch {
	case errors.Is(err, services.ErrNotOwner):
		return "You are not allowed to do that."
	case errors.Is(err, services.ErrUserNotFound):
		return "No such user."
	case errors.Is(err, services.ErrCategoryNotFound):
		return "No such category."
	case errors.Is(err, services.ErrItemNotFound):
		return "No such item."
	case errors.Is(err, services.ErrNameRequired):
		return "A name is required."
	case errors.Is(err, services.ErrNameInvalid):
		return "Names cannot contain '/'."
	case errors.Is(err, services.ErrDateInvalid):
		return "Dates must look like YYYY-MM-DD."
	case errors.Is(err, services.ErrEmailRequired):
		return "An email address is required."
	case errors.Is(err, services.ErrEmailTaken):
		return "A user with that email address already exists."
	case errors.Is(err, services.ErrImageType):
		return fmt.Sprintf("Pictures must be one of: %s.", strings.Join(v.allowed, ", "))
	}
	return ""
}

// paramKey reads the integer :key route param.
func paramKey(c *fiber.Ctx) (uint, error) {
	key, err := c.ParamsInt("key")
	if err != nil || key <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(key), nil
}
