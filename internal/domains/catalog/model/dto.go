package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// CreatePlanRequest - POST /catalog/plans
type CreatePlanRequest struct {
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Screens int             `json:"screens"`
}

func (r CreatePlanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.Screens, validation.Min(0)),
		validation.Field(&r.Price, validation.By(func(value interface{}) error {
			if value.(decimal.Decimal).IsNegative() {
				return validation.NewError("validation_price_negative", "price must not be negative")
			}
			return nil
		})),
	)
}
