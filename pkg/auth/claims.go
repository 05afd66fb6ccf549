package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
)

// AccessTokenPayload is what login knows when minting a token.
type AccessTokenPayload struct {
	AdminID  uuid.UUID
	Username string
	Role     enums.AdminRole
	// JTI doubles as the Redis session id. A random one is used when empty.
	JTI string
}

// AccessTokenClaims is the JWT body issued to back-office clients.
type AccessTokenClaims struct {
	AdminID  uuid.UUID       `json:"admin_id"`
	Username string          `json:"username"`
	Role     enums.AdminRole `json:"role"`
	jwt.RegisteredClaims
}
