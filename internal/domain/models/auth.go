package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims are the JWT claims the backend consumes. Whatever the token
// asserts is trusted once the signature verifies.
type UserClaims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Identity is the acting user as seen by services and the presence tracker.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}
