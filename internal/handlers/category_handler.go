package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/services"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/session"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/trait"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/urls"
	"github.com/gofiber/fiber/v2"
)

const categoryModel = "category"

type CategoryHandler struct {
	categories *services.CategoryService
	items      *services.ItemService
	view       *View
}

func NewCategoryHandler(categories *services.CategoryService, items *services.ItemService, view *View) *CategoryHandler {
	return &CategoryHandler{categories: categories, items: items, view: view}
}

func categoryTraits(c *models.Category) []trait.Trait {
	return []trait.Trait{
		trait.NewText("name", c.Name),
		trait.NewText("creator", c.User.Name),
	}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	categories, err := h.categories.List(c.UserContext())
	if err != nil {
		return h.view.Fail(c, sess, err, "/")
	}

	rows := make([]Row, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, Row{
			Label:     cat.Name,
			URL:       urls.For(categoryModel, cat.ID).View(),
			Detail:    "items",
			DetailURL: urls.CategoryItems(cat.Name),
		})
	}
	return h.view.Render(c, sess, "list", listPage(categoryModel, rows))
}

func (h *CategoryHandler) View(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	key, err := paramKey(c)
	if err != nil {
		return err
	}
	listURL := urls.For(categoryModel, 0).List()

	category, err := h.categories.Get(c.UserContext(), key)
	if err != nil {
		return h.view.Fail(c, sess, err, listURL)
	}
	_, items, err := h.items.ListByCategory(c.UserContext(), category.Name)
	if err != nil {
		return h.view.Fail(c, sess, err, listURL)
	}

	data := viewPage(categoryModel, category.Name, categoryTraits(category),
		urls.For(categoryModel, category.ID), sess.CanAlter(category.UserID))
	data["Children"] = itemRows(items)
	data["ChildrenHeading"] = "Items"
	return h.view.Render(c, sess, "view", data)
}

func (h *CategoryHandler) NewForm(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	u := urls.For(categoryModel, 0)
	return h.view.Render(c, sess, "form",
		formPage(categoryModel, "New Category", u.New(), []trait.Trait{trait.NewText("name", "")}, false, u.List()))
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	var form dto.CategoryForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}

	name := strings.TrimSpace(form.Name)
	category, err := h.categories.Create(c.UserContext(), middleware.UserID(c), name)
	if errors.Is(err, services.ErrCategoryExists) {
		return h.view.Redirect(c, sess, urls.For(categoryModel, 0).New(),
			fmt.Sprintf("A category with the name %s already exists.", name))
	}
	if err != nil {
		return h.view.Fail(c, sess, err, urls.For(categoryModel, 0).New())
	}
	return h.view.Redirect(c, sess, urls.For(categoryModel, category.ID).View(), "New Category created!")
}

func (h *CategoryHandler) EditForm(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	category, err := h.ownedCategory(c, sess.UserID())
	if err != nil {
		return h.failLookup(c, sess, category, err)
	}
	u := urls.For(categoryModel, category.ID)
	return h.view.Render(c, sess, "form",
		formPage(categoryModel, "Edit "+category.Name, u.Edit(), []trait.Trait{trait.NewText("name", category.Name)}, true, u.View()))
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	key, err := paramKey(c)
	if err != nil {
		return err
	}
	var form dto.CategoryForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}

	u := urls.For(categoryModel, key)
	name := strings.TrimSpace(form.Name)
	category, err := h.categories.Update(c.UserContext(), middleware.UserID(c), key, name)
	switch {
	case errors.Is(err, services.ErrCategoryExists):
		return h.view.Redirect(c, sess, u.Edit(), fmt.Sprintf("A category with the name %s already exists.", name))
	case errors.Is(err, services.ErrNameRequired), errors.Is(err, services.ErrNameInvalid):
		return h.view.Fail(c, sess, err, u.Edit())
	case errors.Is(err, services.ErrCategoryNotFound):
		return h.view.Fail(c, sess, err, u.List())
	case err != nil:
		return h.view.Fail(c, sess, err, u.View())
	}
	return h.view.Redirect(c, sess, urls.For(categoryModel, category.ID).View(), "Category edited!")
}

func (h *CategoryHandler) DeleteForm(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	category, err := h.ownedCategory(c, sess.UserID())
	if err != nil {
		return h.failLookup(c, sess, category, err)
	}
	u := urls.For(categoryModel, category.ID)
	return h.view.Render(c, sess, "delete", deletePage(categoryModel, category.Name, u.Delete(), u.View()))
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	key, err := paramKey(c)
	if err != nil {
		return err
	}
	u := urls.For(categoryModel, key)
	if err := h.categories.Delete(c.UserContext(), middleware.UserID(c), key); err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			return h.view.Fail(c, sess, err, u.List())
		}
		return h.view.Fail(c, sess, err, u.View())
	}
	return h.view.Redirect(c, sess, u.List(), "Category deleted!")
}

// ownedCategory loads :key and checks the signed-in user created it.
func (h *CategoryHandler) ownedCategory(c *fiber.Ctx, userID uint) (*models.Category, error) {
	key, err := paramKey(c)
	if err != nil {
		return nil, err
	}
	category, err := h.categories.Get(c.UserContext(), key)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return category, services.ErrNotOwner
	}
	return category, nil
}

// failLookup sends non-owners back to the record and misses to the list.
func (h *CategoryHandler) failLookup(c *fiber.Ctx, sess *session.Session, category *models.Category, err error) error {
	if errors.Is(err, services.ErrNotOwner) && category != nil {
		return h.view.Fail(c, sess, err, urls.For(categoryModel, category.ID).View())
	}
	return h.view.Fail(c, sess, err, urls.For(categoryModel, 0).List())
}
