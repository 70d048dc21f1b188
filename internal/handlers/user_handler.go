package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/services"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/session"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/trait"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/urls"
	"github.com/gofiber/fiber/v2"
)

const userModel = "user"

type UserHandler struct {
	users *services.UserService
	auth  *services.AuthService
	view  *View
}

func NewUserHandler(users *services.UserService, auth *services.AuthService, view *View) *UserHandler {
	return &UserHandler{users: users, auth: auth, view: view}
}

func userTraits(u *models.User) []trait.Trait {
	return []trait.Trait{
		trait.NewImage("picture", u.Picture),
		trait.NewText("name", u.Name),
		trait.NewText("email", u.Email),
	}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	rows := make([]Row, 0, len(users))
	for _, u := range users {
		rows = append(rows, Row{Label: u.Name, URL: urls.For(userModel, u.ID).View()})
	}
	return h.view.Render(c, sess, "list", listPage(userModel, rows))
}

func (h *UserHandler) View(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	key, err := paramKey(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), key)
	if err != nil {
		return h.view.Fail(c, sess, err, urls.For(userModel, 0).List())
	}
	data := viewPage(userModel, user.Name, userTraits(user), urls.For(userModel, user.ID), sess.CanAlter(user.ID))
	return h.view.Render(c, sess, "view", data)
}

func (h *UserHandler) NewForm(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	u := urls.For(userModel, 0)
	traits := []trait.Trait{
		trait.NewText("name", ""),
		trait.NewText("email", ""),
		trait.NewText("picture", ""),
	}
	return h.view.Render(c, sess, "form", formPage(userModel, "New User", u.New(), traits, false, u.List()))
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	var form dto.UserForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	user, err := h.users.Create(c.UserContext(), services.Profile{Name: form.Name, Email: form.Email, Picture: form.Picture})
	if err != nil {
		return h.view.Fail(c, sess, err, urls.For(userModel, 0).New())
	}
	return h.view.Redirect(c, sess, urls.For(userModel, user.ID).View(), "New user created!")
}

func (h *UserHandler) EditForm(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	user, err := h.ownUser(c)
	if err != nil {
		return h.failLookup(c, sess, err)
	}
	u := urls.For(userModel, user.ID)
	traits := []trait.Trait{
		trait.NewText("name", user.Name),
		trait.NewText("picture", user.Picture),
	}
	return h.view.Render(c, sess, "form", formPage(userModel, "Edit "+user.Name, u.Edit(), traits, true, u.View()))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	key, err := paramKey(c)
	if err != nil {
		return err
	}
	var form dto.UserForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	user, err := h.users.Update(c.UserContext(), middleware.UserID(c), key, form.Name, form.Picture)
	if err != nil {
		if errors.Is(err, services.ErrNameRequired) || errors.Is(err, services.ErrNameInvalid) {
			return h.view.Fail(c, sess, err, urls.For(userModel, key).Edit())
		}
		return h.failLookup(c, sess, err)
	}
	return h.view.Redirect(c, sess, urls.For(userModel, user.ID).View(), "User edited!")
}

func (h *UserHandler) DeleteForm(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	user, err := h.ownUser(c)
	if err != nil {
		return h.failLookup(c, sess, err)
	}
	u := urls.For(userModel, user.ID)
	return h.view.Render(c, sess, "delete", deletePage(userModel, user.Name, u.Delete(), u.View()))
}

// Delete removes the signed-in user with everything they created, revokes
// their token and signs them out.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	key, err := paramKey(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), middleware.UserID(c), key); err != nil {
		return h.failLookup(c, sess, err)
	}

	if token := sess.Identity().AccessToken; token != "" {
		if err := h.auth.Disconnect(c.UserContext(), token); err != nil {
			slog.Warn("token revoke failed after user delete",
				"request_id", middleware.RequestID(c), "user_id", key, "error", err)
		}
	}
	sess.Logout()
	return h.view.Redirect(c, sess, "/", "User deleted!")
}

// ownUser loads the :key user and checks it is the signed-in one.
func (h *UserHandler) ownUser(c *fiber.Ctx) (*models.User, error) {
	key, err := paramKey(c)
	if err != nil {
		return nil, err
	}
	user, err := h.users.Get(c.UserContext(), key)
	if err != nil {
		return nil, err
	}
	if user.ID != middleware.UserID(c) {
		return user, services.ErrNotOwner
	}
	return user, nil
}

func (h *UserHandler) failLookup(c *fiber.Ctx, sess *session.Session, err error) error {
	if errors.Is(err, services.ErrNotOwner) {
		if key, kerr := paramKey(c); kerr == nil {
			return h.view.Fail(c, sess, err, urls.For(userModel, key).View())
		}
	}
	return h.view.Fail(c, sess, err, urls.For(userModel, 0).List())
}
