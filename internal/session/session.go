// Package session keeps the signed-in identity, the login state token and
// flash messages in fiber's server-side session store.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/services"
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const CookieName = "catalog_session"

const (
	keyUserID      = "user_id"
	keyUsername    = "username"
	keyEmail       = "email"
	keyPicture     = "picture"
	keyAccessToken = "access_token"
	keySubject     = "subject"
	keyState       = "state"
	keyFlashes     = "_flashes"
)

var identityKeys = []string{keyUserID, keyUsername, keyEmail, keyPicture, keyAccessToken, keySubject}

// NewStore builds the session store over storage (nil keeps sessions in memory).
func NewStore(storage fiber.Storage, expiry time.Duration, secure bool) *fibersession.Store {
	return fibersession.New(fibersession.Config{
		Storage:        storage,
		Expiration:     expiry,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
	})
}

// Info is the signed-in user as shown in page headers.
type Info struct {
	ID      uint
	Name    string
	Email   string
	Picture string
}

type Manager struct {
	store *fibersession.Store
}

func NewManager(store *fibersession.Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) Store() *fibersession.Store {
	return m.store
}

// Get loads the request's session.
func (m *Manager) Get(c *fiber.Ctx) (*Session, error) {
	s, err := m.store.Get(c)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &Session{s: s}, nil
}

// Session wraps a fiber session. Save must be the last call made on it.
type Session struct {
	s *fibersession.Session
}

func (s *Session) UserID() uint {
	id, _ := s.s.Get(keyUserID).(uint)
	return id
}

// IsActive reports whether a user is signed in.
func (s *Session) IsActive() bool {
	return s.UserID() != 0
}

// CanAlter reports whether the signed-in user owns a record created by ownerID.
func (s *Session) CanAlter(ownerID uint) bool {
	id := s.UserID()
	return id != 0 && id == ownerID
}

func (s *Session) Info() Info {
	str := func(key string) string {
		v, _ := s.s.Get(key).(string)
		return v
	}
	return Info{
		ID:      s.UserID(),
		Name:    str(keyUsername),
		Email:   str(keyEmail),
		Picture: str(keyPicture),
	}
}

// Identity returns the provider credentials stored at sign-in.
func (s *Session) Identity() services.Identity {
	token, _ := s.s.Get(keyAccessToken).(string)
	subject, _ := s.s.Get(keySubject).(string)
	return services.Identity{AccessToken: token, Subject: subject}
}

// Login records a signed-in user under a fresh session id.
func (s *Session) Login(user *models.User, id services.Identity) error {
	if err := s.s.Regenerate(); err != nil {
		return fmt.Errorf("regenerate session: %w", err)
	}
	s.s.Set(keyUserID, user.ID)
	s.s.Set(keyUsername, user.Name)
	s.s.Set(keyEmail, user.Email)
	s.s.Set(keyPicture, user.Picture)
	s.s.Set(keyAccessToken, id.AccessToken)
	s.s.Set(keySubject, id.Subject)
	s.s.Delete(keyState)
	return nil
}

// Logout clears the identity but keeps pending flashes.
func (s *Session) Logout() {
	for _, k := range identityKeys {
		s.s.Delete(k)
	}
}

// NewState stores and returns a random anti-forgery token for the login page.
func (s *Session) NewState() string {
	state := strings.ReplaceAll(uuid.NewString(), "-", "")
	s.s.Set(keyState, state)
	return state
}

// CheckState reports whether state matches the stored login token.
func (s *Session) CheckState(state string) bool {
	stored, _ := s.s.Get(keyState).(string)
	return stored != "" && stored == state
}

func (s *Session) Flash(message string) {
	flashes, _ := s.s.Get(keyFlashes).([]string)
	s.s.Set(keyFlashes, append(flashes, message))
}

// Flashes returns and clears pending flash messages.
func (s *Session) Flashes() []string {
	flashes, _ := s.s.Get(keyFlashes).([]string)
	if len(flashes) > 0 {
		s.s.Delete(keyFlashes)
	}
	return flashes
}

func (s *Session) Save() error {
	if err := s.s.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
