package product

import "tradehub-be/internal/apperr"

var (
	ErrSlugTaken        = apperr.Validation("slug", "slug already in use")
	ErrCategoryNotFound = apperr.Validation("categoryId", "category does not exist")
	ErrSupplierNotFound = apperr.Validation("supplierId", "supplier does not exist")
	ErrImageNotFound    = apperr.NotFound("image")
)
