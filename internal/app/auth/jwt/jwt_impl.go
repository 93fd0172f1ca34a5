package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	jwt2 "github.com/pmelnyk/currency-service/internal/domain/auth/jwt"
	"github.com/pmelnyk/currency-service/internal/domain/auth/model"
	customErrors "github.com/pmelnyk/currency-service/internal/domain/errors"
	"github.com/pmelnyk/currency-service/internal/infra/config"
)

type JwtUtilImpl struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	issuer        string
	audience      string
}

func NewJWTUtil(cfg *config.Config) (*JwtUtilImpl, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, customErrors.NewInvalidArgument("token secrets must be set")
	}

	return &JwtUtilImpl{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
	}, nil
}

func (j *JwtUtilImpl) GenerateAccessToken(userID uuid.UUID, roles []model.Role) (token string, exp time.Time, jti string, err error) {
	jti = uuid.NewString()
	now := time.Now()

	claims := jwt2.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTTL)),
			ID:        jti,
		},
		Roles: roles,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.accessSecret)
	if err != nil {
		return "", time.Time{}, "", customErrors.WrapInternal(err, "sign access token")
	}

	return signed, claims.ExpiresAt.Time, jti, nil
}

// GenerateRefreshToken deliberately sets no exp claim: a refresh token stays
// valid until it is revoked from the live set.
func (j *JwtUtilImpl) GenerateRefreshToken(userID uuid.UUID) (token string, jti string, err error) {
	jti = uuid.NewString()
	now := time.Now()

	claims := jwt2.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			Issuer:   j.issuer,
			Audience: jwt.ClaimStrings{j.audience},
			IssuedAt: jwt.NewNumericDate(now),
			ID:       jti,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.refreshSecret)
	if err != nil {
		return "", "", customErrors.WrapInternal(err, "sign refresh token")
	}

	return signed, jti, nil
}

func (j *JwtUtilImpl) ValidateAccessToken(raw string) (jwt2.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt2.AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return j.accessSecret, nil
	}, jwt.WithIssuedAt())

	if err != nil || !token.Valid {
		return jwt2.AccessClaims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt2.AccessClaims)
	if !ok {
		return jwt2.AccessClaims{}, customErrors.WrapInternal(
			errors.New("claims not AccessClaims"), "ValidateAccessToken",
		)
	}

	if err := j.checkIssuerAudience(claims.Issuer, claims.Audience); err != nil {
		return jwt2.AccessClaims{}, err
	}

	return *claims, nil
}

// ValidateRefreshToken checks the signature only. Refresh tokens carry no
// exp claim; whether one is still usable is a live-set question answered by
// the token repo, not here.
func (j *JwtUtilImpl) ValidateRefreshToken(raw string) (jwt2.RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt2.RefreshClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return j.refreshSecret, nil
	}, jwt.WithIssuedAt())

	if err != nil || !token.Valid {
		return jwt2.RefreshClaims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt2.RefreshClaims)
	if !ok {
		return jwt2.RefreshClaims{}, customErrors.WrapInternal(
			errors.New("claims not RefreshClaims"), "ValidateRefreshToken")
	}

	if err := j.checkIssuerAudience(claims.Issuer, claims.Audience); err != nil {
		return jwt2.RefreshClaims{}, err
	}

	return *claims, nil
}

func (j *JwtUtilImpl) checkIssuerAudience(issuer string, audience jwt.ClaimStrings) error {
	if j.issuer != "" && issuer != j.issuer {
		return customErrors.ErrInvalidToken
	}

	if j.audience != "" {
		okAudi := false
		for _, a := range audience {
			if a == j.audience {
				okAudi = true
				break
			}
		}
		if !okAudi {
			return customErrors.ErrInvalidToken
		}
	}
	return nil
}
