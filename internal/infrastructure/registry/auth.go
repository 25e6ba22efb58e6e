package registry

import (
	"context"

	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
)

// authResponse is the registry's shape for login and refresh.
type authResponse struct {
	AccessToken string         `json:"accessToken"`
	Member      *domain.Member `json:"member"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for an access token. The registry also sets its
// long-lived refresh cookie on this client's jar.
func (c *Client) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	payload := map[string]string{"identifier": identifier, "password": password}
	var resp authResponse
	if err := c.postJSON(ctx, "/auth/login", payload, &resp, authCall); err != nil {
		return nil, err
	}
	return &ports.AuthResult{AccessToken: resp.AccessToken, Member: resp.Member}, nil
}

// Logout tells the registry to revoke the refresh cookie. Best effort: the
// caller clears local state whatever happens here.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/auth/logout", nil, nil, authCall)
}

// RefreshSession exchanges the refresh cookie for a fresh token and identity.
func (c *Client) RefreshSession(ctx context.Context) (*ports.AuthResult, error) {
	var resp authResponse
	if err := c.postJSON(ctx, "/auth/refresh", nil, &resp, authCall); err != nil {
		return nil, err
	}
	return &ports.AuthResult{AccessToken: resp.AccessToken, Member: resp.Member}, nil
}

// ForgotPassword asks the registry to mail a reset code.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	if err := c.postJSON(ctx, "/auth/forgot-password", map[string]string{"email": email}, &resp, authCall); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ResetPassword redeems a reset code for a new password.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) (string, error) {
	payload := map[string]string{"email": email, "code": code, "newPassword": newPassword}
	var resp messageResponse
	if err := c.postJSON(ctx, "/auth/reset-password", payload, &resp, authCall); err != nil {
		return "", err
	}
	return resp.Message, nil
}
