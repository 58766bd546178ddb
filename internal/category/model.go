package category

import (
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/validation"

	"github.com/gosimple/slug"
)

const Collection = "categories"

type Type string

const (
	TypeExport Type = "export"
	TypeImport Type = "import"
)

type Category struct {
	docstore.Meta
	Name        string  `json:"name" validate:"required,max=120"`
	Slug        string  `json:"slug" validate:"required,max=160"`
	Description *string `json:"description"`
	Type        Type    `json:"type" validate:"required,oneof=export import"`
	ParentID    *string `json:"parentId"`
	Order       int     `json:"order"`
	IsActive    bool    `json:"isActive"`
	ImageURL    *string `json:"imageUrl"`
}

func (c *Category) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if !slug.IsSlug(c.Slug) {
		return apperr.Validation("slug", "slug must be URL-safe")
	}
	if c.ParentID != nil && (*c.ParentID == "" || *c.ParentID == c.ID) {
		return apperr.Validation("parentId", "parentId must reference another category")
	}
	return nil
}

// IsPublic reports whether anonymous visitors may read c.
func (c *Category) IsPublic() bool { return c.IsActive }

type CreateInput struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Type        Type    `json:"type" validate:"required,oneof=export import"`
	ParentID    *string `json:"parentId"`
	Order       int     `json:"order"`
	IsActive    *bool   `json:"isActive"`
	ImageURL    *string `json:"imageUrl"`
}

type UpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Type        *Type   `json:"type" validate:"omitempty,oneof=export import"`
	ParentID    *string `json:"parentId"`
	ClearParent bool    `json:"clearParent"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
	ImageURL    *string `json:"imageUrl"`
}

type ListFilter struct {
	Type       *Type
	ParentID   *string
	RootOnly   bool
	ActiveOnly bool
}
