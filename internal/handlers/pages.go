package handlers

import (
	"github.com/ahmetcoskunkizilkaya/catalog/internal/trait"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/urls"
	"github.com/gofiber/fiber/v2"
)

// Row is one entry of a list page.
type Row struct {
	Label     string
	URL       string
	Detail    string
	DetailURL string
}

func listPage(model string, rows []Row) fiber.Map {
	return fiber.Map{
		"Title":   urls.Plural(model),
		"Model":   model,
		"Heading": urls.Plural(model),
		"Rows":    rows,
		"NewURL":  urls.For(model, 0).New(),
	}
}

func viewPage(model, name string, traits []trait.Trait, u urls.Urls, allowAlter bool) fiber.Map {
	return fiber.Map{
		"Title":      name,
		"Model":      model,
		"Name":       name,
		"Traits":     traits,
		"AllowAlter": allowAlter,
		"EditURL":    u.Edit(),
		"DeleteURL":  u.Delete(),
		"ListURL":    u.List(),
		"ListString": u.ListString(),
	}
}

func formPage(model, heading, action string, traits []trait.Trait, withValue bool, cancel string) fiber.Map {
	u := urls.For(model, 0)
	return fiber.Map{
		"Title":      heading,
		"Model":      model,
		"Heading":    heading,
		"Action":     action,
		"Traits":     traits,
		"WithValue":  withValue,
		"Multipart":  model == "item",
		"CancelURL":  cancel,
		"ListURL":    u.List(),
		"ListString": u.ListString(),
	}
}

func deletePage(model, name, action, cancel string) fiber.Map {
	return fiber.Map{
		"Title":     "Delete " + name,
		"Model":     model,
		"Name":      name,
		"Action":    action,
		"CancelURL": cancel,
	}
}
