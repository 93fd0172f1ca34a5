package service

import (
	"context"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/pmelnyk/currency-service/internal/adapters/transport/http/dto"
	customErrors "github.com/pmelnyk/currency-service/internal/domain/errors"
	"github.com/pmelnyk/currency-service/internal/domain/exchange/model"
	repo "github.com/pmelnyk/currency-service/internal/domain/exchange/repo"
)

type exchangeService struct {
	currencyRepo repo.CurrencyRepo
	v            *validator.Validate
}

type Service interface {
	ListCurrencies(context.Context) ([]model.Currency, error)
	CreateCurrency(context.Context, dto.CreateCurrencyDTO) (model.Currency, error)
	DeleteCurrency(context.Context, dto.DeleteCurrencyDTO) error
	SetRate(context.Context, dto.SetRateDTO) error
	DeleteRate(context.Context, dto.DeleteRateDTO) error
	Convert(context.Context, dto.ConvertDTO) (model.Conversion, error)
}

func New(cr repo.CurrencyRepo, v *validator.Validate) Service {
	return &exchangeService{currencyRepo: cr, v: v}
}

func (e *exchangeService) ListCurrencies(ctx context.Context) ([]model.Currency, error) {
	return e.currencyRepo.ListCurrencies(ctx)
}

func (e *exchangeService) CreateCurrency(ctx context.Context, dto dto.CreateCurrencyDTO) (model.Currency, error) {
	if err := e.v.Struct(dto); err != nil {
		return model.Currency{}, customErrors.NewInvalidArgument(err.Error())
	}
	return e.currencyRepo.CreateCurrency(ctx, dto.Symbol, dto.Name)
}

func (e *exchangeService) DeleteCurrency(ctx context.Context, dto dto.DeleteCurrencyDTO) error {
	if err := e.v.Struct(dto); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}
	return e.currencyRepo.DeleteCurrency(ctx, dto.Symbol)
}

func (e *exchangeService) SetRate(ctx context.Context, dto dto.SetRateDTO) error {
	if err := e.v.Struct(dto); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}
	if dto.Base == dto.Target {
		return customErrors.NewInvalidArgument("target and base should be different")
	}
	// a zero rate would put an infinite reciprocal on the reverse edge
	if dto.Rate <= 0 || math.IsInf(dto.Rate, 0) || math.IsNaN(dto.Rate) {
		return customErrors.NewInvalidArgument("rate must be a positive number")
	}
	return e.currencyRepo.SetRate(ctx, dto.Base, dto.Target, dto.Rate)
}

func (e *exchangeService) DeleteRate(ctx context.Context, dto dto.DeleteRateDTO) error {
	if err := e.v.Struct(dto); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}
	if dto.Base == dto.Target {
		return customErrors.NewInvalidArgument("target and base should be different")
	}
	return e.currencyRepo.DeleteRate(ctx, dto.Base, dto.Target)
}

// Convert resolves direct edges only. A reverse edge does not qualify: the
// reciprocal invariant makes the two equivalent in value, but an absent
// base→target entry is still reported as not found.
func (e *exchangeService) Convert(ctx context.Context, dto dto.ConvertDTO) (model.Conversion, error) {
	if err := e.v.Struct(dto); err != nil {
		return model.Conversion{}, customErrors.NewInvalidArgument(err.Error())
	}

	base, err := e.currencyRepo.GetCurrency(ctx, dto.Base)
	if err != nil {
		return model.Conversion{}, err
	}
	if _, err := e.currencyRepo.GetCurrency(ctx, dto.Target); err != nil {
		return model.Conversion{}, err
	}

	rate, ok := base.Rates[dto.Target]
	if !ok {
		return model.Conversion{}, customErrors.ErrNotFound
	}

	return model.Conversion{
		Base:            dto.Base,
		Target:          dto.Target,
		Amount:          dto.Amount,
		ConvertedAmount: dto.Amount * rate,
	}, nil
}
