package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
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

const itemModel = "item"

type ItemHandler struct {
	items      *services.ItemService
	categories *services.CategoryService
	images     *services.ImageService
	view       *View
}

func NewItemHandler(items *services.ItemService, categories *services.CategoryService, images *services.ImageService, view *View) *ItemHandler {
	return &ItemHandler{items: items, categories: categories, images: images, view: view}
}

func itemRows(items []models.Item) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{
			Label:     it.Name,
			URL:       urls.Item(it.Category.Name, it.Name),
			Detail:    it.Category.Name,
			DetailURL: urls.CategoryItems(it.Category.Name),
		})
	}
	return rows
}

// itemTraits lists the fields of an item as shown on its view and edit pages.
func itemTraits(it *models.Item, categories []string, edit bool) []trait.Trait {
	traits := []trait.Trait{trait.NewImage("picture", it.Picture)}
	if edit {
		traits = append(traits, trait.NewImageUpload("upload"))
	}
	return append(traits,
		trait.NewText("name", it.Name),
		trait.NewSelect("category", it.Category.Name, categories),
		trait.NewDate("created", it.DateCreated.Format(models.DateLayout)),
		trait.NewTextArea("description", it.Description),
		trait.NewText("creator", it.User.Name),
	)
}

func newItemTraits(categories []string) []trait.Trait {
	first := ""
	if len(categories) > 0 {
		first = categories[0]
	}
	return []trait.Trait{
		trait.NewImageUpload("picture"),
		trait.NewText("name", ""),
		trait.NewSelect("category", first, categories),
		trait.NewDate("created", ""),
		trait.NewTextArea("description", ""),
	}
}

// editableTraits drops the read-only creator row from a form.
func editableTraits(traits []trait.Trait) []trait.Trait {
	out := traits[:0:0]
	for _, t := range traits {
		if t.Name() != "creator" {
			out = append(out, t)
		}
	}
	return out
}

// List shows every item, newest first.
func (h *ItemHandler) List(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	items, err := h.items.List(c.UserContext())
	if err != nil {
		return err
	}
	data := listPage(itemModel, itemRows(items))
	data["Heading"] = "Latest Items"
	return h.view.Render(c, sess, "list", data)
}

func (h *ItemHandler) ListByCategory(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	category, items, err := h.items.ListByCategory(c.UserContext(), c.Params("category_name"))
	if err != nil {
		return h.view.Fail(c, sess, err, "/")
	}
	data := listPage(itemModel, itemRows(items))
	data["Heading"] = fmt.Sprintf("%s Items (%d)", category.Name, len(items))
	return h.view.Render(c, sess, "list", data)
}

// ViewByKey redirects to the descriptive /catalog/<category>/<item> URL.
func (h *ItemHandler) ViewByKey(c *fiber.Ctx) error {
	return h.redirectByKey(c, urls.Item)
}

func (h *ItemHandler) EditByKey(c *fiber.Ctx) error {
	return h.redirectByKey(c, urls.ItemEdit)
}

func (h *ItemHandler) DeleteByKey(c *fiber.Ctx) error {
	return h.redirectByKey(c, urls.ItemDelete)
}

func (h *ItemHandler) redirectByKey(c *fiber.Ctx, to func(category, item string) string) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	key, err := paramKey(c)
	if err != nil {
		return err
	}
	item, err := h.items.Get(c.UserContext(), key)
	if err != nil {
		return h.view.Fail(c, sess, err, "/")
	}
	return h.view.Redirect(c, sess, to(item.Category.Name, item.Name), "")
}

func (h *ItemHandler) View(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	item, err := h.lookup(c)
	if err != nil {
		return h.view.Fail(c, sess, err, "/")
	}
	names, err := h.categories.Names(c.UserContext())
	if err != nil {
		return err
	}
	data := viewPage(itemModel, item.Name, itemTraits(item, names, false),
		urls.For(itemModel, item.ID), sess.CanAlter(item.UserID))
	data["Title"] = item.Describe()
	data["ListURL"] = urls.CategoryItems(item.Category.Name)
	data["ListString"] = "Back to " + item.Category.Name + "."
	return h.view.Render(c, sess, "view", data)
}

func (h *ItemHandler) NewForm(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	names, err := h.categories.Names(c.UserContext())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return h.view.Redirect(c, sess, urls.For(categoryModel, 0).New(), "Create a category before adding items.")
	}
	u := urls.For(itemModel, 0)
	return h.view.Render(c, sess, "form", formPage(itemModel, "New Item", u.New(), newItemTraits(names), false, u.List()))
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	newURL := urls.For(itemModel, 0).New()

	in, err := h.readForm(c, "picture")
	if err != nil {
		return h.view.Fail(c, sess, err, newURL)
	}
	item, err := h.items.Create(c.UserContext(), middleware.UserID(c), *in)
	if err != nil {
		return h.failWrite(c, sess, err, in, newURL)
	}
	return h.view.Redirect(c, sess, urls.Item(item.Category.Name, item.Name), "New item created!")
}

func (h *ItemHandler) EditForm(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	item, err := h.lookup(c)
	if err != nil {
		return h.view.Fail(c, sess, err, "/")
	}
	if !sess.CanAlter(item.UserID) {
		return h.view.Fail(c, sess, services.ErrNotOwner, urls.Item(item.Category.Name, item.Name))
	}
	names, err := h.categories.Names(c.UserContext())
	if err != nil {
		return err
	}
	traits := editableTraits(itemTraits(item, names, true))
	return h.view.Render(c, sess, "form", formPage(itemModel, "Edit "+item.Describe(),
		urls.For(itemModel, item.ID).Edit(), traits, true, urls.Item(item.Category.Name, item.Name)))
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	key, err := paramKey(c)
	if err != nil {
		return err
	}
	editURL := urls.For(itemModel, key).Edit()

	in, err := h.readForm(c, "upload")
	if err != nil {
		return h.view.Fail(c, sess, err, editURL)
	}
	item, err := h.items.Update(c.UserContext(), middleware.UserID(c), key, *in)
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			return h.view.Fail(c, sess, err, urls.For(itemModel, key).View())
		}
		if errors.Is(err, services.ErrItemNotFound) {
			return h.view.Fail(c, sess, err, "/")
		}
		return h.failWrite(c, sess, err, in, editURL)
	}
	return h.view.Redirect(c, sess, urls.Item(item.Category.Name, item.Name), "Item edited!")
}

func (h *ItemHandler) DeleteForm(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	item, err := h.lookup(c)
	if err != nil {
		return h.view.Fail(c, sess, err, "/")
	}
	view := urls.Item(item.Category.Name, item.Name)
	if !sess.CanAlter(item.UserID) {
		return h.view.Fail(c, sess, services.ErrNotOwner, view)
	}
	return h.view.Render(c, sess, "delete", deletePage(itemModel, item.Describe(), urls.For(itemModel, item.ID).Delete(), view))
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	key, err := paramKey(c)
	if err != nil {
		return err
	}
	if _, err := h.items.Delete(c.UserContext(), middleware.UserID(c), key); err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			return h.view.Fail(c, sess, err, urls.For(itemModel, key).View())
		}
		return h.view.Fail(c, sess, err, "/")
	}
	return h.view.Redirect(c, sess, "/", "Item deleted!")
}

// lookup finds the item named by the :category_name and :item_name params.
func (h *ItemHandler) lookup(c *fiber.Ctx) (*models.Item, error) {
	return h.items.GetByCategoryAndName(c.UserContext(), c.Params("category_name"), c.Params("item_name"))
}

// readForm parses an item form; fileField names the optional image input.
func (h *ItemHandler) readForm(c *fiber.Ctx, fileField string) (*services.ItemInput, error) {
	var form dto.ItemForm
	if err := c.BodyParser(&form); err != nil {
		return nil, fiber.ErrBadRequest
	}
	created, err := services.ParseDate(form.Created)
	if err != nil {
		return nil, err
	}

	// The file is only type-checked here; the service stores it after its
	// owner and uniqueness checks.
	var upload *multipart.FileHeader
	if fh, err := c.FormFile(fileField); err == nil {
		if err := h.images.Check(fh); err != nil {
			return nil, err
		}
		upload = fh
	}

	return &services.ItemInput{
		Name:        strings.TrimSpace(form.Name),
		Category:    strings.TrimSpace(form.Category),
		Description: form.Description,
		Picture:     form.Picture,
		Upload:      upload,
		DateCreated: created,
	}, nil
}

func (h *ItemHandler) failWrite(c *fiber.Ctx, sess *session.Session, err error, in *services.ItemInput, back string) error {
	if errors.Is(err, services.ErrItemExists) {
		return h.view.Redirect(c, sess, back,
			fmt.Sprintf("An item with the name %s already exists in %s.", in.Name, in.Category))
	}
	return h.view.Fail(c, sess, err, back)
}
