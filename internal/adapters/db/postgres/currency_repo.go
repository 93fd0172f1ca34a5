package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	customErrors "github.com/pmelnyk/currency-service/internal/domain/errors"
	"github.com/pmelnyk/currency-service/internal/domain/exchange/model"
)

type currencyRow struct {
	Symbol string `gorm:"primaryKey"`
	Name   string
}

func (currencyRow) TableName() string { return "currencies" }

type rateRow struct {
	BaseSymbol   string `gorm:"primaryKey"`
	TargetSymbol string `gorm:"primaryKey"`
	Rate         float64
}

func (rateRow) TableName() string { return "exchange_rates" }

// CurrencyRepo keeps the rate graph in two tables: one row per currency and
// one row per directed edge. Every paired write or delete runs in a single
// transaction so the reciprocal invariant survives concurrent edits.
type CurrencyRepo struct {
	db *gorm.DB
}

func NewCurrencyRepo(db *gorm.DB) *CurrencyRepo {
	return &CurrencyRepo{db: db}
}

func (p *CurrencyRepo) CreateCurrency(ctx context.Context, symbol, name string) (model.Currency, error) {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the primary key settles concurrent creates of the same symbol
		if err := tx.Create(&currencyRow{Symbol: symbol, Name: name}).Error; err != nil {
			if isDuplicateKey(err) {
				return customErrors.ErrAlreadyExists
			}
			return customErrors.WrapInternal(err, "CreateCurrency")
		}
		// the self edge is written once here and never removed
		if err := tx.Create(&rateRow{BaseSymbol: symbol, TargetSymbol: symbol, Rate: 1}).Error; err != nil {
			return customErrors.WrapInternal(err, "CreateCurrency")
		}
		return nil
	})
	if err != nil {
		return model.Currency{}, err
	}

	return model.Currency{
		Symbol: symbol,
		Name:   name,
		Rates:  map[string]float64{symbol: 1},
	}, nil
}

func (p *CurrencyRepo) DeleteCurrency(ctx context.Context, symbol string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("symbol = ?", symbol).Delete(&currencyRow{})
		if res.Error != nil {
			return customErrors.WrapInternal(res.Error, "DeleteCurrency")
		}
		if res.RowsAffected == 0 {
			return customErrors.ErrNotFound
		}

		// cascade: drop every edge that references the currency from either side
		if err := tx.Where("base_symbol = ? OR target_symbol = ?", symbol, symbol).
			Delete(&rateRow{}).Error; err != nil {
			return customErrors.WrapInternal(err, "DeleteCurrency")
		}
		return nil
	})
}

func (p *CurrencyRepo) GetCurrency(ctx context.Context, symbol string) (model.Currency, error) {
	var row currencyRow
	res := p.db.WithContext(ctx).Where("symbol = ?", symbol).First(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Currency{}, customErrors.ErrNotFound
	}
	if res.Error != nil {
		return model.Currency{}, customErrors.WrapInternal(res.Error, "GetCurrency")
	}

	var edges []rateRow
	if err := p.db.WithContext(ctx).Where("base_symbol = ?", symbol).Find(&edges).Error; err != nil {
		return model.Currency{}, customErrors.WrapInternal(err, "GetCurrency")
	}

	cur := model.Currency{Symbol: row.Symbol, Name: row.Name, Rates: make(map[string]float64, len(edges))}
	for _, e := range edges {
		cur.Rates[e.TargetSymbol] = e.Rate
	}
	return cur, nil
}

func (p *CurrencyRepo) ListCurrencies(ctx context.Context) ([]model.Currency, error) {
	var rows []currencyRow
	if err := p.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListCurrencies")
	}

	var edges []rateRow
	if err := p.db.WithContext(ctx).Find(&edges).Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListCurrencies")
	}

	byBase := make(map[string]map[string]float64, len(rows))
	for _, e := range edges {
		if byBase[e.BaseSymbol] == nil {
			byBase[e.BaseSymbol] = make(map[string]float64)
		}
		byBase[e.BaseSymbol][e.TargetSymbol] = e.Rate
	}

	out := make([]model.Currency, 0, len(rows))
	for _, row := range rows {
		rates := byBase[row.Symbol]
		if rates == nil {
			rates = map[string]float64{}
		}
		out = append(out, model.Currency{Symbol: row.Symbol, Name: row.Name, Rates: rates})
	}
	return out, nil
}

// SetRate writes base→target and the reciprocal target→base edge in one
// transaction, overwriting any prior values for the pair. Currency existence
// is enforced by the foreign keys on exchange_rates, not by a prior read: a
// plain read would not stop a concurrent currency delete from committing
// between the check and the insert.
func (p *CurrencyRepo) SetRate(ctx context.Context, base, target string, rate float64) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{
			Columns:   []clause.Column{{Name: "base_symbol"}, {Name: "target_symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate"}),
		}
		if err := tx.Clauses(upsert).
			Create(&rateRow{BaseSymbol: base, TargetSymbol: target, Rate: rate}).Error; err != nil {
			return setRateError(err)
		}
		if err := tx.Clauses(upsert).
			Create(&rateRow{BaseSymbol: target, TargetSymbol: base, Rate: 1 / rate}).Error; err != nil {
			return setRateError(err)
		}
		return nil
	})
}

func setRateError(err error) error {
	if isForeignKeyViolation(err) {
		return customErrors.ErrNotFound
	}
	return customErrors.WrapInternal(err, "SetRate")
}

func (p *CurrencyRepo) DeleteRate(ctx context.Context, base, target string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := currencyExists(tx, base); err != nil {
			return err
		}
		if err := currencyExists(tx, target); err != nil {
			return err
		}

		// base side first: if nothing was removed the whole operation fails
		// before the target side is touched
		res := tx.Where("base_symbol = ? AND target_symbol = ?", base, target).Delete(&rateRow{})
		if res.Error != nil {
			return customErrors.WrapInternal(res.Error, "DeleteRate")
		}
		if res.RowsAffected == 0 {
			return customErrors.ErrNotFound
		}

		if err := tx.Where("base_symbol = ? AND target_symbol = ?", target, base).
			Delete(&rateRow{}).Error; err != nil {
			return customErrors.WrapInternal(err, "DeleteRate")
		}
		return nil
	})
}

func currencyExists(tx *gorm.DB, symbol string) error {
	var row currencyRow
	res := tx.Where("symbol = ?", symbol).First(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return customErrors.ErrNotFound
	}
	if res.Error != nil {
		return customErrors.WrapInternal(res.Error, "currencyExists")
	}
	return nil
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return true
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
