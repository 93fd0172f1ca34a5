package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"

	customErrors "github.com/pmelnyk/currency-service/internal/domain/errors"
)

func newRepo(t *testing.T) *TokenRepo {
	mr := miniredis.RunT(t)
	t.Cleanup(mr.Close)

	client := redisv9.NewClient(&redisv9.Options{
		Addr: mr.Addr(),
	})
	return NewTokenRepo(client)
}

func TestTokenRepo_StoreAndIsLive(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if err := repo.Store(ctx, "jti1"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	live, err := repo.IsLive(ctx, "jti1")
	if err != nil {
		t.Fatalf("IsLive err: %v", err)
	}
	if !live {
		t.Fatal("token should be live right after Store")
	}
}

func TestTokenRepo_RevokeRemovesMembership(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if err := repo.Store(ctx, "jti2"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := repo.Revoke(ctx, "jti2"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	live, err := repo.IsLive(ctx, "jti2")
	if err != nil {
		t.Fatalf("IsLive err: %v", err)
	}
	if live {
		t.Fatal("token should not be live after Revoke")
	}
}

func TestTokenRepo_RevokeAbsent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if err := repo.Revoke(ctx, "never-issued"); !customErrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTokenRepo_RevokeTwice(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if err := repo.Store(ctx, "jti3"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := repo.Revoke(ctx, "jti3"); err != nil {
		t.Fatalf("first Revoke: %v", err)
	}
	if err := repo.Revoke(ctx, "jti3"); !customErrors.IsNotFound(err) {
		t.Fatalf("second Revoke: expected not found, got %v", err)
	}
}

func TestTokenRepo_IsLive_KeyAbsent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	live, err := repo.IsLive(ctx, "absent-jti")
	if err != nil {
		t.Fatalf("IsLive err: %v", err)
	}
	if live {
		t.Fatal("absent key must not be live")
	}
}
