package client

import (
	"context"
	"fmt"
	"strings"
)

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges email and password for a credential. The returned token
// is not inspected here; hand it to the session to decode.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", fmt.Errorf("client.Login: %w: email and password are required", ErrInvalidInput)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, public, "/auth/login", LoginRequest{Email: email, Password: password}, &out); err != nil {
		return "", fmt.Errorf("client.Login: %w", err)
	}
	return out.Token, nil
}
