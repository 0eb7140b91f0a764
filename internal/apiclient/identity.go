package apiclient

import (
	"context"
	"net/http"

	"github.com/lightgame/panel/internal/access"
)

// Identity is the authenticated user as reported by the game API.
type Identity struct {
	ID     int          `json:"id"`
	Name   string       `json:"name"`
	Access access.Level `json:"access"`
}

// Credentials is the login form payload.
type Credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type meResponse struct {
	User *Identity `json:"user"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// IdentityClient resolves bearer tokens and exchanges credentials for tokens.
type IdentityClient struct {
	c *Client
}

func NewIdentityClient(c *Client) *IdentityClient { return &IdentityClient{c: c} }

// Resolve presents token to GET /api/user/me.
func (ic *IdentityClient) Resolve(ctx context.Context, token string) (Identity, error) {
	var resp meResponse
	if err := ic.c.do(ctx, http.MethodGet, "/api/user/me", nil, &resp, token); err != nil {
		return Identity{}, err
	}
	if resp.User == nil {
		return Identity{}, &Error{Method: http.MethodGet, Path: "/api/user/me", Status: http.StatusUnauthorized, Message: "no user in response"}
	}
	return *resp.User, nil
}

// Login posts credentials to /api/auth/login and returns the issued token.
func (ic *IdentityClient) Login(ctx context.Context, cred Credentials) (string, error) {
	var resp loginResponse
	if err := ic.c.do(ctx, http.MethodPost, "/api/auth/login", cred, &resp, ""); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &Error{Method: http.MethodPost, Path: "/api/auth/login", Status: http.StatusBadGateway, Message: "no token in response"}
	}
	return resp.Token, nil
}
