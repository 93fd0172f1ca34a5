package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pmelnyk/currency-service/internal/adapters/transport/http/dto"
	"github.com/pmelnyk/currency-service/internal/domain/auth/jwt"
	"github.com/pmelnyk/currency-service/internal/domain/auth/model"
	repo "github.com/pmelnyk/currency-service/internal/domain/auth/repo"
	customErrors "github.com/pmelnyk/currency-service/internal/domain/errors"
	"github.com/pmelnyk/currency-service/internal/infra/config"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

type authService struct {
	userRepo  repo.UserRepo
	tokenRepo repo.TokenRepo
	jwtUtil   jwt.JWTUtil
	cfg       *config.Config
	v         *validator.Validate
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.User, error)
	Login(context.Context, dto.LoginDTO) (model.TokenPair, error)
	Refresh(context.Context, dto.RefreshDTO) (string, error)
	Logout(context.Context, dto.LogoutDTO) error
	Validate(ctx context.Context, accessToken string) (jwt.AccessClaims, error)
}

func New(
	ur repo.UserRepo,
	tr repo.TokenRepo,
	jm jwt.JWTUtil,
	cfg *config.Config,
	v *validator.Validate,
) Service {
	return &authService{
		userRepo: ur, tokenRepo: tr, jwtUtil: jm, cfg: cfg, v: v,
	}
}

// Register creates the account with the viewer role only. Editor is assigned
// out-of-band; no tokens are issued at registration.
func (a *authService) Register(ctx context.Context, dto dto.RegisterDTO) (model.User, error) {
	if err := a.v.Struct(dto); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := argon2id.CreateHash(dto.Password+a.cfg.PasswordPepper, argonParams)
	if err != nil {
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		PasswordHash: passwordHash,
		Roles:        []model.Role{model.RoleViewer},
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.User{}, customErrors.ErrAlreadyExists
		}
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	return user, nil
}

func (a *authService) Login(ctx context.Context, dto dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(dto); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, dto.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := argon2id.ComparePasswordAndHash(dto.Password+a.cfg.PasswordPepper, user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	at, atExp, _, err := a.jwtUtil.GenerateAccessToken(user.ID, user.Roles)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	rt, jti, err := a.jwtUtil.GenerateRefreshToken(user.ID)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateRefreshToken")
	}

	if err = a.tokenRepo.Store(ctx, jti); err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "StoreRefresh")
	}

	return model.TokenPair{
		AccessToken:  at,
		RefreshToken: rt,
		AccessTTL:    time.Until(atExp),
		UserID:       user.ID,
		RefreshJTI:   jti,
	}, nil
}

// Refresh rotates the access token. The refresh token stays live: roles are
// re-read from the credential store so the new access token reflects the
// account's current role set, not the one it had at login.
func (a *authService) Refresh(ctx context.Context, dto dto.RefreshDTO) (string, error) {
	if err := a.v.Struct(dto); err != nil {
		return "", customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.jwtUtil.ValidateRefreshToken(dto.Token)
	if err != nil {
		return "", customErrors.ErrInvalidToken
	}

	live, err := a.tokenRepo.IsLive(ctx, claims.ID)
	if err != nil {
		return "", customErrors.WrapInternal(err, "Refresh")
	}
	if !live {
		return "", customErrors.ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", customErrors.ErrInvalidToken
	}
	user, err := a.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		return "", customErrors.ErrInvalidToken
	}

	at, _, _, err := a.jwtUtil.GenerateAccessToken(user.ID, user.Roles)
	if err != nil {
		return "", customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	return at, nil
}

func (a *authService) Logout(ctx context.Context, dto dto.LogoutDTO) error {
	if err := a.v.Struct(dto); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.jwtUtil.ValidateRefreshToken(dto.Token)
	if err != nil {
		return customErrors.ErrInvalidToken
	}

	err = a.tokenRepo.Revoke(ctx, claims.ID)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.ErrNotFound
	case err != nil:
		return customErrors.WrapInternal(err, "Logout")
	}
	return nil
}

// Validate is stateless: access-token validity is signature and expiry only,
// never a store lookup.
func (a *authService) Validate(_ context.Context, accessToken string) (jwt.AccessClaims, error) {
	claims, err := a.jwtUtil.ValidateAccessToken(accessToken)
	if err != nil {
		return jwt.AccessClaims{}, customErrors.ErrInvalidToken
	}
	return claims, nil
}
