package review

import "tradehub-be/internal/apperr"

var (
	ErrReviewNotFound     = apperr.NotFound("review")
	ErrProductUnavailable = apperr.Validation("productId", "product is not available for review")
	ErrAlreadyReviewed    = apperr.Validation("productId", "you already reviewed this product")
)
