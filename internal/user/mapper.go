package user

import (
	"time"

	"tradehub-be/internal/access"
)

// Response is the public shape of a user; the password hash never leaves the
// service.
type Response struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	Phone       *string     `json:"phone,omitempty"`
	Role        access.Role `json:"role"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func ToResponse(u *User) Response {
	return Response{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func ToResponses(users []*User) []Response {
	out := make([]Response, len(users))
	for i, u := range users {
		out[i] = ToResponse(u)
	}
	return out
}
