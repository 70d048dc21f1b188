package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth *services.AuthService
	view *View
}

func NewAuthHandler(auth *services.AuthService, view *View) *AuthHandler {
	return &AuthHandler{auth: auth, view: view}
}

// LoginPage issues a fresh state token and renders the sign-in button.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	state := sess.NewState()
	return h.view.Render(c, sess, "login", fiber.Map{
		"Title":    "Login",
		"State":    state,
		"ClientID": h.auth.ClientID(),
	})
}

// Connect completes a sign-in. The body is the one-time authorization code
// and the state query param must match the login page's token.
func (h *AuthHandler) Connect(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	if !sess.CheckState(c.Query("state")) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Invalid state parameter."})
	}

	code := strings.TrimSpace(string(c.Body()))
	result, err := h.auth.Connect(c.UserContext(), code, sess.Identity())
	if err != nil {
		status, message := connectFailure(err)
		slog.Warn("sign-in failed",
			"request_id", middleware.RequestID(c),
			"action", "gconnect",
			"status", status,
			"error", err,
		)
		return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
	}
	if result.AlreadyConnected {
		return c.JSON(dto.MessageResponse{Message: "Current User is already connected."})
	}

	if err := sess.Login(result.User, services.Identity{AccessToken: result.AccessToken, Subject: result.Subject}); err != nil {
		return err
	}
	sess.Flash(fmt.Sprintf("You are now logged in as %s", result.User.Name))
	if err := sess.Save(); err != nil {
		return err
	}
	slog.Info("user signed in", "user_id", result.User.ID, "action", "gconnect", "created", result.Created)

	return c.JSON(dto.ConnectResponse{Name: result.User.Name, Picture: result.User.Picture})
}

func connectFailure(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrCodeExchange):
		return fiber.StatusUnauthorized, "Failed to upgrade the authorization code."
	case errors.Is(err, services.ErrTokenUserMismatch):
		return fiber.StatusUnauthorized, "Token's User ID doesn't match given user ID."
	case errors.Is(err, services.ErrTokenClientMismatch):
		return fiber.StatusUnauthorized, "Token's Client ID does not match app's."
	case errors.Is(err, services.ErrEmailRequired):
		return fiber.StatusBadRequest, "The provider did not share an email address."
	}
	return fiber.StatusInternalServerError, "Sign-in failed."
}

// Disconnect revokes the provider token and signs the user out. The local
// sign-out happens even when the revoke fails.
func (h *AuthHandler) Disconnect(c *fiber.Ctx) error {
	sess, err := h.view.Session(c)
	if err != nil {
		return err
	}
	token := sess.Identity().AccessToken
	if token == "" {
		return h.view.Redirect(c, sess, "/", "Current user not connected.")
	}

	message := "Successfully disconnected."
	if err := h.auth.Disconnect(c.UserContext(), token); err != nil {
		slog.Warn("token revoke failed",
			"request_id", middleware.RequestID(c),
			"user_id", sess.UserID(),
			"action", "gdisconnect",
			"error", err,
		)
		message = "Unable to revoke token."
	}
	sess.Logout()
	return h.view.Redirect(c, sess, "/", message)
}
