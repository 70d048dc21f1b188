package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/config"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/session"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/urls"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers groups everything Setup mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Users      *handlers.UserHandler
	Categories *handlers.CategoryHandler
	Items      *handlers.ItemHandler
	Export     *handlers.ExportHandler
	Health     *handlers.HealthHandler
}

// Setup registers every route. Fiber matches in registration order, so the
// exports and the /catalog/<model>/... routes come before the descriptive
// /catalog/:category_name/:item_name ones.
func Setup(app *fiber.App, cfg *config.Config, h Handlers, sessions *session.Manager) {
	app.Get("/health", h.Health.Check)
	app.Static("/static", cfg.StaticDir)

	// Exports: read-only, CORS enabled, no session
	cors := middleware.CORS(cfg)
	app.Get("/catalog/JSON", cors, h.Export.CatalogJSON)
	app.Get("/catalog/XML", cors, h.Export.CatalogXML)
	app.Get("/catalog/item/:key<int>/JSON", cors, h.Export.ItemJSON)
	app.Get("/catalog/item/:key<int>/XML", cors, h.Export.ItemXML)

	// Sign-in: 10 req/min per IP
	app.Post("/gconnect", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}), h.Auth.Connect)

	// Every page below gets a CSRF token; every form POST must carry it
	app.Use(middleware.CSRF(sessions, cfg.SessionCookieSecure))

	// Anonymous mutation attempts land on the entity's list page
	loginFor := func(model string) fiber.Handler {
		return middleware.RequireLogin(sessions, urls.For(model, 0).List())
	}

	app.Get("/", h.Items.List)
	app.Get("/login", h.Auth.LoginPage)
	app.Get("/gdisconnect", h.Auth.Disconnect)

	catalog := app.Group("/catalog")

	users := catalog.Group("/user")
	login := loginFor("user")
	users.Get("/", h.Users.List)
	users.Get("/new", login, h.Users.NewForm)
	users.Post("/new", login, h.Users.Create)
	users.Get("/:key<int>", h.Users.View)
	users.Get("/:key<int>/edit", login, h.Users.EditForm)
	users.Post("/:key<int>/edit", login, h.Users.Update)
	users.Get("/:key<int>/delete", login, h.Users.DeleteForm)
	users.Post("/:key<int>/delete", login, h.Users.Delete)

	categories := catalog.Group("/category")
	login = loginFor("category")
	categories.Get("/", h.Categories.List)
	categories.Get("/new", login, h.Categories.NewForm)
	categories.Post("/new", login, h.Categories.Create)
	categories.Get("/:key<int>", h.Categories.View)
	categories.Get("/:key<int>/edit", login, h.Categories.EditForm)
	categories.Post("/:key<int>/edit", login, h.Categories.Update)
	categories.Get("/:key<int>/delete", login, h.Categories.DeleteForm)
	categories.Post("/:key<int>/delete", login, h.Categories.Delete)

	items := catalog.Group("/item")
	login = loginFor("item")
	items.Get("/", h.Items.List)
	items.Get("/new", login, h.Items.NewForm)
	items.Post("/new", login, h.Items.Create)
	items.Get("/add", login, h.Items.NewForm)
	items.Post("/add", login, h.Items.Create)
	items.Get("/:key<int>", h.Items.ViewByKey)
	items.Get("/:key<int>/edit", login, h.Items.EditByKey)
	items.Post("/:key<int>/edit", login, h.Items.Update)
	items.Get("/:key<int>/delete", login, h.Items.DeleteByKey)
	items.Post("/:key<int>/delete", login, h.Items.Delete)

	catalog.Get("/:category_name/items", h.Items.ListByCategory)
	catalog.Get("/:category_name/:item_name", h.Items.View)
	catalog.Get("/:category_name/:item_name/edit", login, h.Items.EditForm)
	catalog.Get("/:category_name/:item_name/delete", login, h.Items.DeleteForm)
}
