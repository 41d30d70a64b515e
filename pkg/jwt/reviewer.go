// Package jwt reads the reviewer identity carried by the review API token.
// The token is verified by the review backend; here it is only decoded.
package jwt

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity claims the review backend issues
type Claims struct {
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Reviewer returns the most specific display name in the claims
func (c *Claims) Reviewer() string {
	for _, v := range []string{c.Username, c.Name, c.Email, c.Subject} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// ParseClaims decodes token without checking its signature
func ParseClaims(token string) (*Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ReviewerFromToken resolves the reviewer for token, or fallback when the
// token is absent, opaque, or carries no name.
func ReviewerFromToken(token, fallback string) string {
	if strings.TrimSpace(token) == "" {
		return fallback
	}
	claims, err := ParseClaims(token)
	if err != nil {
		return fallback
	}
	if name := claims.Reviewer(); name != "" {
		return name
	}
	return fallback
}
