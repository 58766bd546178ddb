package order

import (
	"time"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/cart"
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/payment"
	"tradehub-be/internal/validation"

	"github.com/shopspring/decimal"
)

const Collection = "orders"

// Item is an order line. Its total is derived from price and quantity.
type Item = cart.LineItem

type Order struct {
	docstore.Meta
	OrderNumber      string          `json:"orderNumber" validate:"required"`
	CustomerID       string          `json:"customerId" validate:"required"`
	CustomerName     *string         `json:"customerName"`
	CustomerEmail    *string         `json:"customerEmail" validate:"omitempty,email"`
	Items            []Item          `json:"items" validate:"required,min=1,dive"`
	Currency         string          `json:"currency" validate:"required,oneof=USD ETB EUR"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Shipping         decimal.Decimal `json:"shipping"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	Status           Status          `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
	PaymentStatus    payment.Status  `json:"paymentStatus" validate:"required,oneof=pending paid failed"`
	PaymentMethod    payment.Method  `json:"paymentMethod" validate:"required"`
	ShippingAddress  *string         `json:"shippingAddress" validate:"omitempty,max=500"`
	Notes            *string         `json:"notes" validate:"omitempty,max=2000"`
	CancelReason     *string         `json:"cancelReason"`
	DeliveryOverride bool            `json:"deliveryOverride"`
	History          []Change        `json:"history"`
}

// Change is one entry of an order's audit trail.
type Change struct {
	Field string    `json:"field"`
	From  string    `json:"from"`
	To    string    `json:"to"`
	By    string    `json:"by"`
	At    time.Time `json:"at"`
	Note  *string   `json:"note"`
}

func (o *Order) Totals() cart.Totals {
	return cart.Totals{Subtotal: o.Subtotal, Shipping: o.Shipping, Tax: o.Tax, Total: o.Total}
}

// Derive recomputes line totals and order totals from the items.
func (o *Order) Derive() bool {
	changed := false
	for i := range o.Items {
		if lt := o.Items[i].LineTotal(); !lt.Equal(o.Items[i].Total) {
			o.Items[i].Total = lt
			changed = true
		}
	}

	t := cart.Compute(o.Items)
	if !t.Equal(o.Totals()) {
		o.Subtotal, o.Shipping, o.Tax, o.Total = t.Subtotal, t.Shipping, t.Tax, t.Total
		changed = true
	}
	return changed
}

func (o *Order) Validate() error {
	if err := validation.Struct(o); err != nil {
		return err
	}
	for _, it := range o.Items {
		if !it.Total.Equal(it.LineTotal()) {
			return apperr.Validation("items.total", "line total does not match price × quantity")
		}
	}
	if !o.Total.Equal(o.Subtotal.Add(o.Shipping).Add(o.Tax)) {
		return apperr.Validation("total", "total must equal subtotal + shipping + tax")
	}
	if o.Status == StatusDelivered && o.PaymentStatus != payment.StatusPaid && !o.DeliveryOverride {
		return apperr.Validation("paymentStatus", "delivered order must be paid")
	}
	return nil
}

func (o *Order) OwnedBy(userID string) bool {
	return userID != "" && o.CustomerID == userID
}

func (o *Order) record(field, from, to, by string, at time.Time, note *string) {
	o.History = append(o.History, Change{Field: field, From: from, To: to, By: by, At: at, Note: note})
}

type CreateInput struct {
	// CustomerID lets back-office staff place an order for a customer.
	CustomerID      *string        `json:"customerId"`
	CustomerName    *string        `json:"customerName" validate:"omitempty,max=120"`
	CustomerEmail   *string        `json:"customerEmail" validate:"omitempty,email"`
	Items           []cart.Line    `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   payment.Method `json:"paymentMethod"`
	ShippingAddress *string        `json:"shippingAddress" validate:"omitempty,max=500"`
	// AddressID picks an entry from the customer's address book when no
	// ShippingAddress text is given.
	AddressID *string `json:"addressId"`
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
}

type StatusInput struct {
	Status Status  `json:"status" validate:"required"`
	Note   *string `json:"note" validate:"omitempty,max=500"`
	// Override allows staff to mark an unpaid order delivered.
	Override bool `json:"override"`
}

type ListFilter struct {
	CustomerID    *string         `json:"customerId"`
	Status        *Status         `json:"status"`
	PaymentStatus *payment.Status `json:"paymentStatus"`
	Limit         int             `json:"limit"`
	Offset        int             `json:"offset"`
}
