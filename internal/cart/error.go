package cart

import "tradehub-be/internal/apperr"

var (
	ErrInvalidQuantity    = apperr.Validation("quantity", "quantity must be at least 1")
	ErrNegativePrice      = apperr.Validation("price", "price must not be negative")
	ErrItemNotFound       = apperr.NotFound("cart item")
	ErrMixedCurrency      = apperr.Validation("items", "all items must share one currency")
	ErrProductUnavailable = apperr.Validation("productId", "product is not available")
)

// BelowMinimum reports a line under the product's minimum order quantity.
func BelowMinimum(productID string, min int) error {
	return apperr.Validation("quantity", "product %s requires a minimum order of %d", productID, min)
}
