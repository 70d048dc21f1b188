package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	clientID    string
	token       *ProviderToken
	exchangeErr error
	info        *TokenInfo
	infoErr     error
	profile     *Profile
	profileErr  error
	revokeErr   error

	revoked       []string
	userInfoCalls int
}

func (p *fakeProvider) ClientID() string { return p.clientID }

func (p *fakeProvider) Exchange(context.Context, string) (*ProviderToken, error) {
	return p.token, p.exchangeErr
}

func (p *fakeProvider) TokenInfo(context.Context, string) (*TokenInfo, error) {
	return p.info, p.infoErr
}

func (p *fakeProvider) UserInfo(context.Context, string) (*Profile, error) {
	p.userInfoCalls++
	return p.profile, p.profileErr
}

func (p *fakeProvider) Revoke(_ context.Context, token string) error {
	p.revoked = append(p.revoked, token)
	return p.revokeErr
}

func goodProvider() *fakeProvider {
	return &fakeProvider{
		clientID: "app",
		token:    &ProviderToken{AccessToken: "tok", Subject: "sub-1"},
		info:     &TokenInfo{UserID: "sub-1", IssuedTo: "app"},
		profile:  &Profile{Name: "Amy Adams", Email: "amy@example.com", Picture: "https://pics/amy.png"},
	}
}

func TestConnectCreatesUserOnce(t *testing.T) {
	f := newFixture(t)
	p := goodProvider()
	auth := NewAuthService(p, f.users)
	ctx := context.Background()

	first, err := auth.Connect(ctx, "code", Identity{})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "tok", first.AccessToken)
	assert.Equal(t, "sub-1", first.Subject)
	assert.Equal(t, "Amy Adams", first.User.Name)

	// a new browser session signs in again
	second, err := auth.Connect(ctx, "code", Identity{})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.User.ID, second.User.ID)

	assert.EqualValues(t, 1, f.count(t, &models.User{}))
}

func TestConnectAlreadyConnected(t *testing.T) {
	f := newFixture(t)
	p := goodProvider()
	auth := NewAuthService(p, f.users)

	res, err := auth.Connect(context.Background(), "code", Identity{AccessToken: "old", Subject: "sub-1"})
	require.NoError(t, err)
	assert.True(t, res.AlreadyConnected)
	assert.Equal(t, 0, p.userInfoCalls)
	assert.EqualValues(t, 0, f.count(t, &models.User{}))
}

func TestConnectFailures(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *fakeProvider)
		want   error
	}{
		{"exchange fails", func(p *fakeProvider) { p.token, p.exchangeErr = nil, errors.New("bad code") }, ErrCodeExchange},
		{"tokeninfo fails", func(p *fakeProvider) { p.info, p.infoErr = nil, errors.New("down") }, ErrProvider},
		{"tokeninfo error field", func(p *fakeProvider) { p.info.Error = "invalid_token" }, ErrProvider},
		{"subject mismatch", func(p *fakeProvider) { p.info.UserID = "someone-else" }, ErrTokenUserMismatch},
		{"client mismatch", func(p *fakeProvider) { p.info.IssuedTo = "other-app" }, ErrTokenClientMismatch},
		{"userinfo fails", func(p *fakeProvider) { p.profile, p.profileErr = nil, errors.New("down") }, ErrProvider},
		{"no email", func(p *fakeProvider) { p.profile.Email = "" }, ErrEmailRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := goodProvider()
			tt.modify(p)

			_, err := NewAuthService(p, f.users).Connect(context.Background(), "code", Identity{})
			assert.ErrorIs(t, err, tt.want)
			assert.EqualValues(t, 0, f.count(t, &models.User{}))
		})
	}
}

func TestDisconnect(t *testing.T) {
	p := goodProvider()
	auth := NewAuthService(p, nil)
	ctx := context.Background()

	assert.ErrorIs(t, auth.Disconnect(ctx, ""), ErrNotConnected)

	require.NoError(t, auth.Disconnect(ctx, "tok"))
	assert.Equal(t, []string{"tok"}, p.revoked)

	p.revokeErr = errors.New("400")
	assert.ErrorIs(t, auth.Disconnect(ctx, "tok"), ErrProvider)
}
