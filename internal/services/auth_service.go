package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
)

var (
	ErrCodeExchange        = errors.New("failed to upgrade the authorization code")
	ErrTokenUserMismatch   = errors.New("token's user ID doesn't match given user ID")
	ErrTokenClientMismatch = errors.New("token's client ID does not match app's")
	ErrProvider            = errors.New("identity provider error")
	ErrNotConnected        = errors.New("current user not connected")
)

// ProviderToken is the result of an authorization code exchange.
type ProviderToken struct {
	AccessToken string
	Subject     string
}

// TokenInfo is the provider's view of an access token.
type TokenInfo struct {
	UserID   string
	IssuedTo string
	Error    string
}

// IdentityProvider is the external OAuth2 sign-in service.
type IdentityProvider interface {
	ClientID() string
	Exchange(ctx context.Context, code string) (*ProviderToken, error)
	TokenInfo(ctx context.Context, accessToken string) (*TokenInfo, error)
	UserInfo(ctx context.Context, accessToken string) (*Profile, error)
	Revoke(ctx context.Context, accessToken string) error
}

// Identity is the sign-in state kept in the session.
type Identity struct {
	AccessToken string
	Subject     string
}

// ConnectResult describes a completed sign-in.
type ConnectResult struct {
	User             *models.User
	AccessToken      string
	Subject          string
	Created          bool
	AlreadyConnected bool
}

type AuthService struct {
	provider IdentityProvider
	users    *UserService
}

func NewAuthService(provider IdentityProvider, users *UserService) *AuthService {
	return &AuthService{provider: provider, users: users}
}

func (s *AuthService) ClientID() string {
	return s.provider.ClientID()
}

// Connect exchanges a one-time code, checks the token belongs to this app
// and the same subject, then finds or creates the local user by email.
// When current already holds the same subject nothing changes and
// AlreadyConnected is set.
func (s *AuthService) Connect(ctx context.Context, code string, current Identity) (*ConnectResult, error) {
	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodeExchange, err)
	}

	info, err := s.provider.TokenInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if info.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProvider, info.Error)
	}
	if info.UserID != token.Subject {
		return nil, ErrTokenUserMismatch
	}
	if info.IssuedTo != s.provider.ClientID() {
		return nil, ErrTokenClientMismatch
	}

	if current.AccessToken != "" && current.Subject == token.Subject {
		return &ConnectResult{AccessToken: current.AccessToken, Subject: current.Subject, AlreadyConnected: true}, nil
	}

	profile, err := s.provider.UserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	user, created, err := s.users.FindOrCreate(ctx, *profile)
	if err != nil {
		return nil, err
	}

	return &ConnectResult{
		User:        user,
		AccessToken: token.AccessToken,
		Subject:     token.Subject,
		Created:     created,
	}, nil
}

// Disconnect revokes the access token at the provider.
func (s *AuthService) Disconnect(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrNotConnected
	}
	if err := s.provider.Revoke(ctx, accessToken); err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return nil
}
