package category

import "tradehub-be/internal/apperr"

var (
	ErrSlugTaken      = apperr.Validation("slug", "slug already in use")
	ErrParentNotFound = apperr.Validation("parentId", "parent category does not exist")
	ErrParentCycle    = apperr.Validation("parentId", "category cannot be its own ancestor")
	ErrHasChildren    = apperr.Validation("id", "category still has child categories")
	ErrHasProducts    = apperr.Validation("id", "category still has products")
)
