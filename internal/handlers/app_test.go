package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/config"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/database"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/routes"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/services"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/session"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProvider struct {
	subject string
	profile services.Profile
	revoked []string
}

func (p *fakeProvider) ClientID() string { return "test-client" }

func (p *fakeProvider) Exchange(_ context.Context, code string) (*services.ProviderToken, error) {
	if code != "good-code" {
		return nil, fmt.Errorf("invalid_grant")
	}
	return &services.ProviderToken{AccessToken: "tok-" + p.subject, Subject: p.subject}, nil
}

func (p *fakeProvider) TokenInfo(context.Context, string) (*services.TokenInfo, error) {
	return &services.TokenInfo{UserID: p.subject, IssuedTo: "test-client"}, nil
}

func (p *fakeProvider) UserInfo(context.Context, string) (*services.Profile, error) {
	profile := p.profile
	return &profile, nil
}

func (p *fakeProvider) Revoke(_ context.Context, token string) error {
	p.revoked = append(p.revoked, token)
	return nil
}

type testApp struct {
	app        *fiber.App
	db         *gorm.DB
	provider   *fakeProvider
	users      *services.UserService
	categories *services.CategoryService
	items      *services.ItemService
	uploadDir  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewDB(t)
	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	static := t.TempDir()
	cfg := &config.Config{
		CORSOrigins:       "*",
		StaticDir:         static,
		AllowedExtensions: []string{"png", "jpg"},
		MaxUploadBytes:    1024 * 1024,
	}

	provider := &fakeProvider{subject: "sub-1", profile: services.Profile{Name: "Amy Adams", Email: "amy@example.com"}}
	users := services.NewUserService(db)
	categories := services.NewCategoryService(db)
	auth := services.NewAuthService(provider, users)
	uploadDir := static + "/images"
	store, err := services.NewLocalImageStore(uploadDir, "images")
	require.NoError(t, err)
	images := services.NewImageService(store, cfg.AllowedExtensions)
	items := services.NewItemService(db, categories, images)

	sessions := session.NewManager(session.NewStore(database.NewSessionStorage(db), time.Hour, false))
	view := handlers.NewView(sessions, categories, cfg.AllowedExtensions)
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(auth, view),
		Users:      handlers.NewUserHandler(users, auth, view),
		Categories: handlers.NewCategoryHandler(categories, items, view),
		Items:      handlers.NewItemHandler(items, categories, images, view),
		Export:     handlers.NewExportHandler(services.NewCatalogService(db), items),
		Health:     handlers.NewHealthHandler(),
	}

	app := fiber.New(routes.FiberConfig(cfg, routes.NewEngine()))
	routes.Setup(app, cfg, h, sessions)

	// Signs the browser in as :id and returns a CSRF token for its forms.
	app.Get("/test/login/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return err
		}
		user, err := users.Get(c.UserContext(), uint(id))
		if err != nil {
			return err
		}
		sess, err := sessions.Get(c)
		if err != nil {
			return err
		}
		if err := sess.Login(user, services.Identity{AccessToken: "tok-test", Subject: "test"}); err != nil {
			return err
		}
		token := middleware.CSRFToken(c)
		if err := sess.Save(); err != nil {
			return err
		}
		return c.SendString(token)
	})

	return &testApp{
		app: app, db: db, provider: provider,
		users: users, categories: categories, items: items,
		uploadDir: uploadDir,
	}
}

func (a *testApp) user(t *testing.T, name, email string) *models.User {
	t.Helper()
	u, err := a.users.Create(context.Background(), services.Profile{Name: name, Email: email})
	require.NoError(t, err)
	return u
}

func (a *testApp) category(t *testing.T, owner *models.User, name string) *models.Category {
	t.Helper()
	c, err := a.categories.Create(context.Background(), owner.ID, name)
	require.NoError(t, err)
	return c
}

func (a *testApp) item(t *testing.T, owner *models.User, category, name string) *models.Item {
	t.Helper()
	it, err := a.items.Create(context.Background(), owner.ID, services.ItemInput{Name: name, Category: category})
	require.NoError(t, err)
	return it
}

// browser keeps cookies between requests like a real one would.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]*http.Cookie
	csrf    string
}

func (a *testApp) browser(t *testing.T) *browser {
	return &browser{t: t, app: a.app, cookies: map[string]*http.Cookie{}}
}

// login signs in as u and remembers the CSRF token.
func (b *browser) login(u *models.User) {
	b.t.Helper()
	resp, body := b.get(fmt.Sprintf("/test/login/%d", u.ID))
	require.Equal(b.t, http.StatusOK, resp.StatusCode, body)
	b.csrf = body
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(raw)
}

func (b *browser) get(path string) (*http.Response, string) {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// postForm submits fields plus the CSRF token.
func (b *browser) postForm(path string, fields url.Values) (*http.Response, string) {
	if fields == nil {
		fields = url.Values{}
	}
	if fields.Get(middleware.CSRFField) == "" {
		fields.Set(middleware.CSRFField, b.csrf)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// postMultipart submits fields, the CSRF token and optional files.
func (b *browser) postMultipart(path string, fields map[string]string, files map[string][2]string) (*http.Response, string) {
	b.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(b.t, w.WriteField(middleware.CSRFField, b.csrf))
	for k, v := range fields {
		require.NoError(b.t, w.WriteField(k, v))
	}
	for field, file := range files {
		part, err := w.CreateFormFile(field, file[0])
		require.NoError(b.t, err)
		_, err = part.Write([]byte(file[1]))
		require.NoError(b.t, err)
	}
	require.NoError(b.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return b.do(req)
}

var stateRe = regexp.MustCompile(`/gconnect\?state=([0-9a-f]+)`)

func loginState(t *testing.T, page string) string {
	t.Helper()
	m := stateRe.FindStringSubmatch(page)
	require.Len(t, m, 2, "login page must carry a state token")
	return m[1]
}
