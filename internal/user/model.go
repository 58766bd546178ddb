package user

import (
	"tradehub-be/internal/access"
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/validation"
)

const Collection = "users"

type User struct {
	docstore.Meta
	Email        string      `json:"email" validate:"required,email"`
	DisplayName  string      `json:"displayName" validate:"required,max=120"`
	Phone        *string     `json:"phone" validate:"omitempty,max=32"`
	Role         access.Role `json:"role" validate:"required,oneof=customer supplier staff admin superadmin"`
	PasswordHash string      `json:"passwordHash" validate:"required"`
}

func (u *User) Validate() error {
	return validation.Struct(u)
}

// Actor is the session identity for u.
func (u *User) Actor() access.Actor {
	return access.Actor{UserID: u.ID, Email: u.Email, Role: u.Role}
}

type SignUpInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"displayName" validate:"required,max=120"`
}

type UpdateProfileInput struct {
	DisplayName *string `json:"displayName" validate:"omitempty,min=1,max=120"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
}

type ListFilter struct {
	Role   *access.Role
	Limit  int
	Offset int
}
