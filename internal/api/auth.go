package api

import (
	"context"
	"net/http"
	"net/url"

	"smartspend/internal/core"
)

// SignInResult is the login response. The backend hands back only the
// access token; user details ride inside its claims.
type SignInResult struct {
	AccessToken string `json:"access_token"`
}

// SignIn exchanges credentials for an access token.
// POST /auth/login, 200/201 on success.
func (c *Client) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	var out SignInResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		base:   c.coreBase,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
		out:    &out,
	})
	return out, err
}

// SignUp registers a new account. POST /users, 201 on success. No
// auto-login: the caller goes through SignIn afterwards.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (core.User, error) {
	var out core.User
	err := c.do(ctx, request{
		method: http.MethodPost,
		base:   c.coreBase,
		path:   "/users",
		body:   map[string]string{"name": name, "email": email, "password": password},
		out:    &out,
	})
	return out, err
}

// ForgotPassword asks the backend to email a reset code. Lives on the
// auth host. POST /auth/forgot-password, 201 on success.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		base:   c.authBase,
		path:   "/auth/forgot-password",
		body:   map[string]string{"email": email},
	})
}

// VerifyResetToken asks the backend whether a reset code is valid.
// GET /auth/verify-reset-token?token=
func (c *Client) VerifyResetToken(ctx context.Context, token string) (bool, error) {
	var out struct {
		IsValid bool `json:"isValid"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		base:   c.coreBase,
		path:   "/auth/verify-reset-token",
		query:  url.Values{"token": {token}},
		out:    &out,
	})
	if err != nil {
		return false, err
	}
	return out.IsValid, nil
}

// ResetPassword sets a new password using a reset token.
// POST /auth/reset-password?token=, 201 on success.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		base:   c.coreBase,
		path:   "/auth/reset-password",
		query:  url.Values{"token": {token}},
		body:   map[string]string{"newPassword": newPassword},
	})
}

// ChangePassword changes the password of the signed-in user.
// POST /auth/change-password, 201 on success; 401 means the current
// password was wrong and surfaces as a KindUnauthorized error.
func (c *Client) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		base:   c.coreBase,
		path:   "/auth/change-password",
		token:  token,
		body:   map[string]string{"oldPassword": oldPassword, "newPassword": newPassword},
	})
}
