package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ExportHandler serves the read-only JSON and XML views of the catalog.
type ExportHandler struct {
	catalog *services.CatalogService
	items   *services.ItemService
}

func NewExportHandler(catalog *services.CatalogService, items *services.ItemService) *ExportHandler {
	return &ExportHandler{catalog: catalog, items: items}
}

func (h *ExportHandler) CatalogJSON(c *fiber.Ctx) error {
	doc, err := h.catalog.Export(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

func (h *ExportHandler) CatalogXML(c *fiber.Ctx) error {
	doc, err := h.catalog.Export(c.UserContext())
	if err != nil {
		return err
	}
	return c.XML(doc)
}

func (h *ExportHandler) ItemJSON(c *fiber.Ctx) error {
	doc, err := h.item(c)
	if err != nil {
		return exportError(c, err)
	}
	return c.JSON(dto.ItemEnvelope{Item: *doc})
}

func (h *ExportHandler) ItemXML(c *fiber.Ctx) error {
	doc, err := h.item(c)
	if err != nil {
		return exportError(c, err)
	}
	return c.XML(doc)
}

func (h *ExportHandler) item(c *fiber.Ctx) (*dto.ItemDocument, error) {
	key, err := paramKey(c)
	if err != nil {
		return nil, services.ErrItemNotFound
	}
	item, err := h.items.Get(c.UserContext(), key)
	if err != nil {
		return nil, err
	}
	doc := services.ItemDocument(item)
	return &doc, nil
}

func exportError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrItemNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "No such item."})
	}
	return err
}
