package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	Email      string
	IsVerified bool
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"is_verified"`
	jwt.RegisteredClaims
}
