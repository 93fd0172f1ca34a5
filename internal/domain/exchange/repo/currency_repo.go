package repo

import (
	"context"

	"github.com/pmelnyk/currency-service/internal/domain/exchange/model"
)

// CurrencyRepo is the rate graph store. Implementations must keep the
// reciprocal invariant: SetRate and DeleteRate touch both directions of a
// pair inside one atomic boundary, and DeleteCurrency cascades edge removal
// from every other currency.
type CurrencyRepo interface {
	CreateCurrency(ctx context.Context, symbol, name string) (model.Currency, error)

	DeleteCurrency(ctx context.Context, symbol string) error

	GetCurrency(ctx context.Context, symbol string) (model.Currency, error)

	ListCurrencies(ctx context.Context) ([]model.Currency, error)

	SetRate(ctx context.Context, base, target string, rate float64) error

	// DeleteRate removes both directions of the pair. The base side is
	// checked first: if no base→target edge exists the operation fails
	// before the target side is touched.
	DeleteRate(ctx context.Context, base, target string) error
}
