package supplier

import (
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/validation"
)

const Collection = "suppliers"

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusSuspended Status = "suspended"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusSuspended},
}

// CanTransition reports whether a supplier may move from one status to
// another. Rejected and suspended are final.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Supplier struct {
	docstore.Meta
	CompanyName       string   `json:"companyName" validate:"required,max=200"`
	UserID            *string  `json:"userId"`
	ContactName       *string  `json:"contactName" validate:"omitempty,max=120"`
	Email             *string  `json:"email" validate:"omitempty,email"`
	Phone             *string  `json:"phone" validate:"omitempty,max=32"`
	Country           *string  `json:"country" validate:"omitempty,max=80"`
	Address           *string  `json:"address"`
	Website           *string  `json:"website" validate:"omitempty,url"`
	Description       *string  `json:"description"`
	ProductCategories []string `json:"productCategories"`
	Status            Status   `json:"status" validate:"required,oneof=pending approved rejected suspended"`
	StatusReason      *string  `json:"statusReason"`
}

func (s *Supplier) Validate() error {
	return validation.Struct(s)
}

// OwnedBy reports whether userID is the account linked to s.
func (s *Supplier) OwnedBy(userID string) bool {
	return s.UserID != nil && userID != "" && *s.UserID == userID
}

type CreateInput struct {
	CompanyName       string   `json:"companyName" validate:"required,max=200"`
	UserID            *string  `json:"userId"`
	ContactName       *string  `json:"contactName" validate:"omitempty,max=120"`
	Email             *string  `json:"email" validate:"omitempty,email"`
	Phone             *string  `json:"phone" validate:"omitempty,max=32"`
	Country           *string  `json:"country" validate:"omitempty,max=80"`
	Address           *string  `json:"address"`
	Website           *string  `json:"website" validate:"omitempty,url"`
	Description       *string  `json:"description"`
	ProductCategories []string `json:"productCategories"`
}

// ProfileInput carries the fields an owner may edit. Status is not one of
// them.
type ProfileInput struct {
	CompanyName       *string  `json:"companyName" validate:"omitempty,min=1,max=200"`
	ContactName       *string  `json:"contactName" validate:"omitempty,max=120"`
	Email             *string  `json:"email" validate:"omitempty,email"`
	Phone             *string  `json:"phone" validate:"omitempty,max=32"`
	Country           *string  `json:"country" validate:"omitempty,max=80"`
	Address           *string  `json:"address"`
	Website           *string  `json:"website" validate:"omitempty,url"`
	Description       *string  `json:"description"`
	ProductCategories []string `json:"productCategories"`
}

type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}
