package auth

import (
	"versecraft/internal/domain/models"
)

// JWTVerifier validates bearer tokens and extracts the acting user's claims.
type JWTVerifier interface {
	VerifyToken(tokenString string) (*models.UserClaims, error)
	Close()
}
