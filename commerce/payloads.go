package commerce

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// CategoryData carries the writable fields of a category.
type CategoryData struct {
	Name        string
	Description string
	IsActive    bool
}

// Validate checks the payload before it reaches the repository.
func (d CategoryData) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Length(1, 255)),
	)
	if err != nil {
		return ValidationError{Err: err}
	}
	return nil
}

// CategoryUpdate carries a partial category update; nil fields are unchanged.
type CategoryUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// ProductData carries the writable fields of a product.
type ProductData struct {
	Name        string
	Description string
	SKU         string
	Price       decimal.Decimal
	Quantity    int
	CategoryID  int64
	IsActive    bool
}

// Validate checks the payload before it reaches the repository.
func (d ProductData) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&d.SKU, validation.Required, validation.Length(1, 100)),
		validation.Field(&d.Quantity, validation.Min(0)),
		validation.Field(&d.CategoryID, validation.Required),
		validation.Field(&d.Price, validation.By(nonNegativeDecimal)),
	)
	if err != nil {
		return ValidationError{Err: err}
	}
	return nil
}

// ProductUpdate carries a partial product update; nil fields are unchanged.
type ProductUpdate struct {
	Name        *string
	Description *string
	SKU         *string
	Price       *decimal.Decimal
	Quantity    *int
	CategoryID  *int64
	IsActive    *bool
}

// OrderData carries the fields a caller supplies when creating an order.
// UnitPrice and TotalPrice are never accepted from the caller: they are
// snapshotted from the product inside the creation transaction.
type OrderData struct {
	ProductID     int64
	CustomerName  string
	CustomerEmail string
	Quantity      int
	Status        string

	// OrderDate defaults to the creation time when nil.
	OrderDate *time.Time
}

// Validate checks the payload before the creation transaction starts.
func (d OrderData) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.ProductID, validation.Required),
		validation.Field(&d.CustomerName, validation.Required, validation.Length(1, 255)),
		validation.Field(&d.CustomerEmail, validation.Required, is.Email),
		validation.Field(&d.Quantity, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return ValidationError{Err: err}
	}
	return nil
}

// OrderUpdate carries a partial order update. Only CustomerName,
// CustomerEmail and Status are applied; the remaining fields exist so that
// callers can pass a full payload and have the immutable ones silently
// ignored.
type OrderUpdate struct {
	CustomerName  *string
	CustomerEmail *string
	Status        *string

	// Ignored: immutable after creation.
	ProductID  *int64
	Quantity   *int
	UnitPrice  *decimal.Decimal
	TotalPrice *decimal.Decimal
}

func nonNegativeDecimal(value any) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return validation.NewError("validation_decimal", "must be a decimal value")
	}
	if d.IsNegative() {
		return validation.NewError("validation_decimal_negative", "must be non-negative")
	}
	return nil
}
