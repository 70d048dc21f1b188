package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleTokenInfoURL = "https://www.googleapis.com/oauth2/v1/tokeninfo"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v1/userinfo"
	googleRevokeURL    = "https://accounts.google.com/o/oauth2/revoke"
)

// GoogleProvider signs users in with Google's one-time code flow.
type GoogleProvider struct {
	oauth        *oauth2.Config
	httpClient   *http.Client
	tokenInfoURL string
	userInfoURL  string
	revokeURL    string
}

type GoogleOption func(*GoogleProvider)

// WithGoogleEndpoints overrides the tokeninfo, userinfo and revoke URLs.
func WithGoogleEndpoints(tokenInfo, userInfo, revoke string) GoogleOption {
	return func(p *GoogleProvider) {
		p.tokenInfoURL = tokenInfo
		p.userInfoURL = userInfo
		p.revokeURL = revoke
	}
}

func WithHTTPClient(c *http.Client) GoogleOption {
	return func(p *GoogleProvider) { p.httpClient = c }
}

// NewGoogleProvider reads a client_secret.json downloaded from the Google
// developer console.
func NewGoogleProvider(clientSecretJSON []byte, opts ...GoogleOption) (*GoogleProvider, error) {
	cfg, err := google.ConfigFromJSON(clientSecretJSON, "openid", "email", "profile")
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	// The browser obtained the code through the JS popup flow.
	cfg.RedirectURL = "postmessage"

	p := &GoogleProvider{
		oauth:        cfg,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		tokenInfoURL: googleTokenInfoURL,
		userInfoURL:  googleUserInfoURL,
		revokeURL:    googleRevokeURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func LoadGoogleProvider(path string, opts ...GoogleOption) (*GoogleProvider, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	return NewGoogleProvider(b, opts...)
}

func (p *GoogleProvider) ClientID() string {
	return p.oauth.ClientID
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*ProviderToken, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.oauth.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return nil, fmt.Errorf("token response has no id_token")
	}
	// The signature is not checked here; TokenInfo asks Google to vouch for
	// the access token and its subject is compared against this one.
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("parse id_token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("id_token has no subject")
	}

	return &ProviderToken{AccessToken: tok.AccessToken, Subject: sub}, nil
}

func (p *GoogleProvider) TokenInfo(ctx context.Context, accessToken string) (*TokenInfo, error) {
	var body struct {
		UserID           string `json:"user_id"`
		Sub              string `json:"sub"`
		IssuedTo         string `json:"issued_to"`
		Azp              string `json:"azp"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	status, err := p.getJSON(ctx, p.tokenInfoURL+"?access_token="+url.QueryEscape(accessToken), "", &body)
	if err != nil {
		return nil, err
	}

	info := &TokenInfo{UserID: firstNonEmpty(body.UserID, body.Sub), IssuedTo: firstNonEmpty(body.IssuedTo, body.Azp)}
	if body.Error != "" || status != http.StatusOK {
		info.Error = firstNonEmpty(body.ErrorDescription, body.Error, fmt.Sprintf("tokeninfo returned status %d", status))
	}
	return info, nil
}

func (p *GoogleProvider) UserInfo(ctx context.Context, accessToken string) (*Profile, error) {
	var body struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	status, err := p.getJSON(ctx, p.userInfoURL+"?alt=json", accessToken, &body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", status)
	}
	return &Profile{Name: body.Name, Email: body.Email, Picture: body.Picture}, nil
}

func (p *GoogleProvider) Revoke(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.revokeURL+"?token="+url.QueryEscape(accessToken), nil)
	if err != nil {
		return err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revoke returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *GoogleProvider) getJSON(ctx context.Context, rawURL, bearer string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && resp.StatusCode == http.StatusOK {
		return resp.StatusCode, fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return resp.StatusCode, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
