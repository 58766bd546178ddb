package user

import "tradehub-be/internal/apperr"

var (
	ErrEmailExists        = apperr.Validation("email", "email already registered")
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthenticated, "", "invalid email or password")
	ErrUserNotFound       = apperr.NotFound("user")
)
