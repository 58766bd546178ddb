package order

import "tradehub-be/internal/apperr"

var (
	ErrOrderNotFound    = apperr.NotFound("order")
	ErrCustomerRequired = apperr.Validation("customerId", "customerId is required when ordering on behalf of a customer")
	ErrInvalidMethod    = apperr.Validation("paymentMethod", "unknown payment method")
)
