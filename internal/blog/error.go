package blog

import "tradehub-be/internal/apperr"

var (
	ErrPostNotFound         = apperr.NotFound("blog_post")
	ErrSlugTaken            = apperr.Validation("slug", "slug already in use")
	ErrPublishedAtImmutable = apperr.Validation("publishedAt", "publishedAt cannot change once set")
)
