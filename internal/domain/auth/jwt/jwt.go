package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pmelnyk/currency-service/internal/domain/auth/model"
)

type AccessClaims struct {
	jwt.RegisteredClaims
	Roles []model.Role `json:"roles"`
}

// RefreshClaims carry only the account id. Roles are resolved from the
// credential store at rotation time so a role change invalidates nothing.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

type JWTUtil interface {
	GenerateAccessToken(userID uuid.UUID, roles []model.Role) (token string, exp time.Time, jti string, err error)
	GenerateRefreshToken(userID uuid.UUID) (token string, jti string, err error)
	ValidateAccessToken(token string) (claims AccessClaims, err error)
	ValidateRefreshToken(token string) (claims RefreshClaims, err error)
}
