package address

import (
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/validation"
)

const Collection = "addresses"

// Address is an entry in a user's address book. Addresses are never edited
// in place: an update deactivates the old entry and stores a new one, so an
// order that referenced it keeps pointing at what was shipped to.
type Address struct {
	docstore.Meta
	UserID       string  `json:"userId" validate:"required"`
	ReceiverName string  `json:"receiverName" validate:"required,max=120"`
	Phone        string  `json:"phone" validate:"required,max=32"`
	Line1        string  `json:"addressLine1" validate:"required,max=200"`
	Line2        *string `json:"addressLine2" validate:"omitempty,max=200"`
	City         string  `json:"city" validate:"required,max=100"`
	Province     *string `json:"province" validate:"omitempty,max=100"`
	PostalCode   *string `json:"postalCode" validate:"omitempty,max=20"`
	Country      string  `json:"country" validate:"required,max=100"`
	IsDefault    bool    `json:"isDefault"`
	IsActive     bool    `json:"isActive"`
}

func (a *Address) Validate() error {
	return validation.Struct(a)
}

func (a *Address) OwnedBy(userID string) bool {
	return userID != "" && a.UserID == userID
}

type Input struct {
	ReceiverName string  `json:"receiverName" validate:"required,max=120"`
	Phone        string  `json:"phone" validate:"required,max=32"`
	Line1        string  `json:"addressLine1" validate:"required,max=200"`
	Line2        *string `json:"addressLine2" validate:"omitempty,max=200"`
	City         string  `json:"city" validate:"required,max=100"`
	Province     *string `json:"province" validate:"omitempty,max=100"`
	PostalCode   *string `json:"postalCode" validate:"omitempty,max=20"`
	Country      string  `json:"country" validate:"required,max=100"`
	SetAsDefault bool    `json:"setAsDefault"`
}
