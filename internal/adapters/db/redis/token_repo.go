package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	customErrors "github.com/pmelnyk/currency-service/internal/domain/errors"
)

const keyPrefix = "rt:"

// TokenRepo keeps the live refresh-token set in Redis. Keys have no TTL:
// a refresh token stays usable until Revoke removes it. Redis serializes
// the membership operations, which gives the linearizability the live set
// needs under concurrent issue/verify/revoke.
type TokenRepo struct {
	client *redis.Client
}

func NewTokenRepo(client *redis.Client) *TokenRepo {
	return &TokenRepo{
		client: client,
	}
}

func (r *TokenRepo) Store(ctx context.Context, jti string) error {
	return r.client.Set(ctx, keyPrefix+jti, "1", 0).Err()
}

func (r *TokenRepo) IsLive(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *TokenRepo) Revoke(ctx context.Context, jti string) error {
	n, err := r.client.Del(ctx, keyPrefix+jti).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}
