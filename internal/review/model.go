package review

import (
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/validation"
)

const Collection = "reviews"

type Review struct {
	docstore.Meta
	ProductID    string  `json:"productId" validate:"required"`
	CustomerID   string  `json:"customerId" validate:"required"`
	CustomerName *string `json:"customerName" validate:"omitempty,max=120"`
	Rating       int     `json:"rating" validate:"min=1,max=5"`
	Title        *string `json:"title" validate:"omitempty,max=120"`
	Comment      *string `json:"comment" validate:"omitempty,max=2000"`
}

func (r *Review) Validate() error {
	return validation.Struct(r)
}

func (r *Review) OwnedBy(userID string) bool {
	return userID != "" && r.CustomerID == userID
}

type CreateInput struct {
	ProductID string  `json:"-"`
	Rating    int     `json:"rating" validate:"min=1,max=5"`
	Title     *string `json:"title" validate:"omitempty,max=120"`
	Comment   *string `json:"comment" validate:"omitempty,max=2000"`
}

// Summary is the rating overview shown next to a product.
type Summary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}
