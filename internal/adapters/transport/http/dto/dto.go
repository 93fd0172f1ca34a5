package dto

type RegisterDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshDTO struct {
	Token string `json:"token" validate:"required"`
}

type LogoutDTO struct {
	Token string `json:"token" validate:"required"`
}

type CreateCurrencyDTO struct {
	Symbol string `json:"symbol" validate:"required"`
	Name   string `json:"name"   validate:"required"`
}

type DeleteCurrencyDTO struct {
	Symbol string `json:"symbol" validate:"required"`
}

type SetRateDTO struct {
	Base   string  `json:"base"   validate:"required"`
	Target string  `json:"target" validate:"required"`
	Rate   float64 `json:"rate"   validate:"required"`
}

type DeleteRateDTO struct {
	Base   string `json:"base"   validate:"required"`
	Target string `json:"target" validate:"required"`
}

type ConvertDTO struct {
	Base   string  `json:"base"   validate:"required"`
	Target string  `json:"target" validate:"required"`
	Amount float64 `json:"amount"`
}
