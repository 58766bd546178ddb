package blog

import (
	"time"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/validation"

	"github.com/gosimple/slug"
)

const Collection = "blog_posts"

type Post struct {
	docstore.Meta
	Title       string     `json:"title" validate:"required,max=200"`
	Slug        string     `json:"slug" validate:"required,max=220"`
	Excerpt     *string    `json:"excerpt" validate:"omitempty,max=500"`
	Content     string     `json:"content" validate:"required"`
	CoverImage  *string    `json:"coverImage" validate:"omitempty,url"`
	AuthorID    string     `json:"authorId" validate:"required"`
	AuthorName  *string    `json:"authorName" validate:"omitempty,max=120"`
	Category    *string    `json:"category" validate:"omitempty,max=80"`
	Tags        []string   `json:"tags" validate:"max=20,dive,max=40"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	Views       int64      `json:"views" validate:"gte=0"`
}

func (p *Post) Validate() error {
	if err := validation.Struct(p); err != nil {
		return err
	}
	if !slug.IsSlug(p.Slug) {
		return apperr.Validation("slug", "slug must be URL-safe")
	}
	if p.IsPublished && p.PublishedAt == nil {
		return apperr.Validation("publishedAt", "a published post needs publishedAt")
	}
	return nil
}

// IsPublic reports whether readers outside the back office may see p.
func (p *Post) IsPublic() bool { return p.IsPublished }

type CreateInput struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Slug       *string  `json:"slug"`
	Excerpt    *string  `json:"excerpt" validate:"omitempty,max=500"`
	Content    string   `json:"content" validate:"required"`
	CoverImage *string  `json:"coverImage" validate:"omitempty,url"`
	Category   *string  `json:"category" validate:"omitempty,max=80"`
	Tags       []string `json:"tags" validate:"max=20,dive,max=40"`
	Publish    bool     `json:"publish"`
}

type UpdateInput struct {
	Title      *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Slug       *string  `json:"slug"`
	Excerpt    *string  `json:"excerpt" validate:"omitempty,max=500"`
	Content    *string  `json:"content" validate:"omitempty,min=1"`
	CoverImage *string  `json:"coverImage" validate:"omitempty,url"`
	Category   *string  `json:"category" validate:"omitempty,max=80"`
	Tags       []string `json:"tags" validate:"max=20,dive,max=40"`
}

type ListFilter struct {
	PublishedOnly bool
	Category      *string
	Limit         int
	Offset        int
}
