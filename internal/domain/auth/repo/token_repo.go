package repo

import "context"

// TokenRepo is the live set of refresh tokens, keyed by JTI. A refresh token
// is usable iff its JTI is a member; there is no expiry-based invalidation.
type TokenRepo interface {
	Store(ctx context.Context, jti string) error

	IsLive(ctx context.Context, jti string) (bool, error)

	// Revoke removes jti from the live set, ErrNotFound if it is not a member.
	Revoke(ctx context.Context, jti string) error
}
