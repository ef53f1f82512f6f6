package auth

import (
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID int64
	Email  string
	Role   enums.UserRole
}

// AccessTokenClaims represents the typed JWT issued to clients. The subject
// carries the principal email.
type AccessTokenClaims struct {
	UserID int64          `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Principal returns the authenticated email carried in the subject.
func (c *AccessTokenClaims) Principal() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
