package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims mirrors the claims the remote API puts in its access tokens.
type AccessClaims struct {
	UserID    any    `json:"user_id"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Identity is what the shell shows about the logged-in user.
type Identity struct {
	UserID    string
	Username  string
	ExpiresAt time.Time
}

func (i Identity) DisplayName() string {
	if i.Username != "" {
		return i.Username
	}
	if i.UserID != "" {
		return "user " + i.UserID
	}
	return ""
}

// ParseAccessClaims decodes an access token without verifying it. The shell
// does not hold the API's signing key, so the result is for display only.
func ParseAccessClaims(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// Identity decodes the stored access token. It never changes
// IsAuthenticated.
func (s *Service) Identity() (Identity, bool) {
	token := s.AccessToken()
	if token == "" {
		return Identity{}, false
	}
	claims, err := ParseAccessClaims(token)
	if err != nil {
		return Identity{}, false
	}

	id := Identity{Username: claims.Username}
	if claims.UserID != nil {
		id.UserID = formatUserID(claims.UserID)
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, true
}

func formatUserID(v any) string {
	switch id := v.(type) {
	case float64:
		return fmt.Sprintf("%.0f", id)
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
