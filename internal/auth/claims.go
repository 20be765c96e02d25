package auth

import (
	"time"

	"github.com/shopfront/shopfront-server/internal/domain"
)

// AccessClaims are the claims carried inside an encrypted v4.local access
// token.
type AccessClaims struct {
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	SessionID string      `json:"sid"` // refresh-token session the token belongs to

	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// IsAdmin reports whether the token was issued to an administrator.
func (c *AccessClaims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}
