package routes

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/config"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/trait"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/urls"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/web"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

// NewEngine loads the embedded page templates.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		// the embed path is fixed at compile time
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("title", trait.Title)
	engine.AddFunc("plural", urls.Plural)
	engine.AddFunc("imageURL", trait.ImageURL)
	engine.AddFunc("categoryItemsURL", urls.CategoryItems)
	return engine
}

// FiberConfig returns the app settings shared by the server and tests.
func FiberConfig(cfg *config.Config, views fiber.Views) fiber.Config {
	return fiber.Config{
		Views:        views,
		BodyLimit:    cfg.MaxUploadBytes + 1024*1024,
		ErrorHandler: ErrorHandler,
		// handlers keep form values and params past the request
		Immutable: true,
		// descriptive item URLs carry escaped names
		UnescapePath: true,
	}
}

// ErrorHandler renders the error page. Details are only shown for 4xx.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error",
			"request_id", middleware.RequestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	c.Status(code)
	if rerr := c.Render("error", fiber.Map{"Title": message, "Status": code, "Message": message}, "layouts/main"); rerr != nil {
		return c.SendString(message)
	}
	return nil
}
