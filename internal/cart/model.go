package cart

import (
	"github.com/shopspring/decimal"
)

const currencyPlaces = 2

var (
	// FlatShipping is charged once whenever the subtotal is positive.
	FlatShipping = decimal.NewFromInt(50)
	TaxRate      = decimal.RequireFromString("0.15")
)

// LineItem is one product in a cart or order. UnitPrice is captured when the
// item is added; Total is always derived.
type LineItem struct {
	ProductID   string          `json:"productId" validate:"required"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity" validate:"gte=1"`
	UnitPrice   decimal.Decimal `json:"price" validate:"gte=0"`
	Total       decimal.Decimal `json:"total"`
}

// LineTotal is quantity × unit price at currency precision.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(currencyPlaces)
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Equal compares totals by value.
func (t Totals) Equal(o Totals) bool {
	return t.Subtotal.Equal(o.Subtotal) &&
		t.Shipping.Equal(o.Shipping) &&
		t.Tax.Equal(o.Tax) &&
		t.Total.Equal(o.Total)
}

// Line is a requested product and quantity, before pricing.
type Line struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type QuoteInput struct {
	Items []Line `json:"items" validate:"required,min=1,dive"`
}

// Quote is a priced cart.
type Quote struct {
	Currency string     `json:"currency"`
	Items    []LineItem `json:"items"`
	Totals
}
