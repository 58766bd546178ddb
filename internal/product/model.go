package product

import (
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/storage"
	"tradehub-be/internal/validation"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

const Collection = "products"

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyETB Currency = "ETB"
	CurrencyEUR Currency = "EUR"
)

type Product struct {
	docstore.Meta
	Name             string            `json:"name" validate:"required,max=200"`
	Slug             string            `json:"slug" validate:"required,max=220"`
	Description      *string           `json:"description"`
	CategoryID       string            `json:"categoryId" validate:"required"`
	SupplierID       *string           `json:"supplierId"`
	Price            decimal.Decimal   `json:"price" validate:"gte=0"`
	Currency         Currency          `json:"currency" validate:"required,oneof=USD ETB EUR"`
	Unit             string            `json:"unit" validate:"required,max=32"`
	MinOrderQuantity int               `json:"minOrderQuantity" validate:"gte=1"`
	Origin           *string           `json:"origin"`
	IsActive         bool              `json:"isActive"`
	IsFeatured       bool              `json:"isFeatured"`
	Tags             []string          `json:"tags" validate:"dive,max=40"`
	Specifications   map[string]string `json:"specifications"`
	Images           []storage.Object  `json:"images"`
	Views            int64             `json:"views" validate:"gte=0"`
}

func (p *Product) Validate() error {
	if err := validation.Struct(p); err != nil {
		return err
	}
	if !slug.IsSlug(p.Slug) {
		return apperr.Validation("slug", "slug must be URL-safe")
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return apperr.Validation("price", "price must have at most 2 decimal places")
	}
	return nil
}

// IsPublic reports whether anonymous visitors may read p.
func (p *Product) IsPublic() bool { return p.IsActive }

type CreateInput struct {
	Name             string            `json:"name" validate:"required,max=200"`
	Slug             *string           `json:"slug"`
	Description      *string           `json:"description"`
	CategoryID       string            `json:"categoryId" validate:"required"`
	SupplierID       *string           `json:"supplierId"`
	Price            decimal.Decimal   `json:"price" validate:"gte=0"`
	Currency         Currency          `json:"currency" validate:"required,oneof=USD ETB EUR"`
	Unit             string            `json:"unit" validate:"required,max=32"`
	MinOrderQuantity *int              `json:"minOrderQuantity" validate:"omitempty,gte=1"`
	Origin           *string           `json:"origin"`
	IsActive         *bool             `json:"isActive"`
	IsFeatured       bool              `json:"isFeatured"`
	Tags             []string          `json:"tags" validate:"dive,max=40"`
	Specifications   map[string]string `json:"specifications"`
}

type UpdateInput struct {
	Name             *string           `json:"name" validate:"omitempty,min=1,max=200"`
	Slug             *string           `json:"slug"`
	Description      *string           `json:"description"`
	CategoryID       *string           `json:"categoryId" validate:"omitempty,min=1"`
	SupplierID       *string           `json:"supplierId"`
	Price            *decimal.Decimal  `json:"price"`
	Currency         *Currency         `json:"currency" validate:"omitempty,oneof=USD ETB EUR"`
	Unit             *string           `json:"unit" validate:"omitempty,min=1,max=32"`
	MinOrderQuantity *int              `json:"minOrderQuantity" validate:"omitempty,gte=1"`
	Origin           *string           `json:"origin"`
	IsActive         *bool             `json:"isActive"`
	IsFeatured       *bool             `json:"isFeatured"`
	Tags             []string          `json:"tags" validate:"omitempty,dive,max=40"`
	Specifications   map[string]string `json:"specifications"`
}

type SortBy string

const (
	SortNewest    SortBy = "newest"
	SortPriceAsc  SortBy = "price_asc"
	SortPriceDesc SortBy = "price_desc"
	SortPopular   SortBy = "popular"
	SortName      SortBy = "name"
)

type ListFilter struct {
	CategoryID *string `json:"categoryId"`
	SupplierID *string `json:"supplierId"`
	Currency   *string `json:"currency"`
	Featured   *bool   `json:"featured"`
	ActiveOnly bool    `json:"activeOnly"`
	Sort       SortBy  `json:"sort"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

type ListResult struct {
	Items []*Product `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}
