package api

import (
	"context"
	"net/http"
)

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"nombre_completo"`
	Role     string `json:"rol"`
}

type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type LoginResult struct {
	User    User   `json:"usuario"`
	Tokens  Tokens `json:"tokens"`
	Message string `json:"message"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type logoutRequest struct {
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for a token pair. Rejected credentials come
// back as a *StatusError with status 400.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/users/login/", "", loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout revokes the refresh token on the API side.
func (c *Client) Logout(ctx context.Context, access, refresh string) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/users/logout/", access, logoutRequest{Refresh: refresh})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
